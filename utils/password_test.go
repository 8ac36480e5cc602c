package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordBcrypt(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	other, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if other == hash {
		t.Fatal("expected salted hashes to differ")
	}

	if !VerifyPassword(hash, "s3cret-pass") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashPasswordArgon2(t *testing.T) {
	hash, err := HashPasswordArgon2("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPasswordArgon2: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	if !VerifyPassword(hash, "s3cret-pass") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	for _, hash := range []string{"", "plain", "$argon2id$broken", "$2a$10$short"} {
		if VerifyPassword(hash, "anything") {
			t.Fatalf("expected false for hash %q", hash)
		}
	}
}

func TestHashPasswordWith(t *testing.T) {
	for _, algo := range []string{AlgoBcrypt, AlgoArgon2} {
		hash, err := HashPasswordWith(algo, "s3cret-pass")
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if got := HashAlgorithm(hash); got != algo {
			t.Fatalf("%s: hash reported as %s", algo, got)
		}
		if !VerifyPassword(hash, "s3cret-pass") {
			t.Fatalf("%s: hash does not verify", algo)
		}
	}

	if _, err := HashPasswordWith("md5", "s3cret-pass"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}
