package utils

import (
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 10

const (
	AlgoBcrypt = "bcrypt"
	AlgoArgon2 = "argon2"
)

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// HashPasswordArgon2 returns an encoded argon2id hash. VerifyPassword accepts
// both formats so records provisioned either way keep working.
func HashPasswordArgon2(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword reports whether password matches encodedHash. Any mismatch or
// unreadable hash is false.
func VerifyPassword(encodedHash, password string) bool {
	if HashAlgorithm(encodedHash) == AlgoArgon2 {
		ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// HashPasswordWith hashes password with the named algorithm.
func HashPasswordWith(algo, password string) (string, error) {
	switch algo {
	case AlgoBcrypt:
		return HashPassword(password)
	case AlgoArgon2:
		return HashPasswordArgon2(password)
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", algo)
	}
}

// HashAlgorithm names the algorithm an encoded hash was produced with.
func HashAlgorithm(encodedHash string) string {
	if strings.HasPrefix(encodedHash, "$argon2") {
		return AlgoArgon2
	}
	return AlgoBcrypt
}
