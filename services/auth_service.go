package services

import (
	"context"
	"errors"
	"fmt"
	"handmade-store/models"
	"handmade-store/repositories"
	"handmade-store/utils"
	"strings"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrUnauthenticated        = errors.New("unauthenticated")
)

const dummyPassword = "handmade-store-timing-equalizer"

// dummyHashes are compared against when the username is unknown so both login
// failure paths cost one comparison with the same algorithm.
var dummyHashes = map[string]func() string{
	utils.AlgoBcrypt: sync.OnceValue(func() string {
		h, _ := utils.HashPassword(dummyPassword)
		return h
	}),
	utils.AlgoArgon2: sync.OnceValue(func() string {
		h, _ := utils.HashPasswordArgon2(dummyPassword)
		return h
	}),
}

// PasswordChangeNotifier is told after an admin password has been rotated.
type PasswordChangeNotifier interface {
	NotifyPasswordChanged(username string) error
}

type AuthService struct {
	admins   repositories.AdminRepository
	tokens   *TokenService
	notifier PasswordChangeNotifier

	// hashAlgo is the algorithm of the stored admin hashes, used to pick the
	// dummy hash. It follows the last record seen.
	hashAlgo atomic.Value
}

func NewAuthService(admins repositories.AdminRepository, tokens *TokenService, notifier PasswordChangeNotifier) *AuthService {
	s := &AuthService{
		admins:   admins,
		tokens:   tokens,
		notifier: notifier,
	}
	s.hashAlgo.Store(utils.AlgoBcrypt)
	return s
}

// WithHashAlgorithm sets the algorithm admins are provisioned with, so the
// unknown-user path matches it before any record has been read.
func (s *AuthService) WithHashAlgorithm(algo string) *AuthService {
	if _, ok := dummyHashes[algo]; !ok {
		log.WithField("algo", algo).Warn("unknown password hash algorithm, keeping " + s.hashAlgo.Load().(string))
		return s
	}
	s.hashAlgo.Store(algo)
	return s
}

func (s *AuthService) dummyHash() string {
	return dummyHashes[s.hashAlgo.Load().(string)]()
}

// Login checks the credentials and returns a signed session token. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, *models.Admin, error) {
	username := strings.TrimSpace(req.Username)

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repositories.ErrAdminNotFound) {
			return "", nil, fmt.Errorf("lookup admin: %w", err)
		}
		utils.VerifyPassword(s.dummyHash(), req.Password)
		return "", nil, ErrInvalidCredentials
	}
	s.hashAlgo.Store(utils.HashAlgorithm(admin.PasswordHash))

	if !utils.VerifyPassword(admin.PasswordHash, req.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, admin, nil
}

// Session resolves a cookie value to its claims; nil means unauthenticated.
func (s *AuthService) Session(token string) *SessionClaims {
	return s.tokens.VerifyToken(token)
}

func (s *AuthService) ChangePassword(ctx context.Context, session *SessionClaims, req models.ChangePasswordRequest) error {
	if session == nil {
		return ErrUnauthenticated
	}

	admin, err := s.admins.FindByID(ctx, session.ID)
	if errors.Is(err, repositories.ErrAdminNotFound) {
		return ErrUnauthenticated
	}
	if err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}

	if !utils.VerifyPassword(admin.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCurrentPassword
	}

	algo := utils.HashAlgorithm(admin.PasswordHash)
	hash, err := utils.HashPasswordWith(algo, req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	log.WithField("username", admin.Username).Info("admin password changed")

	if s.notifier != nil {
		if err := s.notifier.NotifyPasswordChanged(admin.Username); err != nil {
			log.WithError(err).Warn("failed to send password change notification")
		}
	}
	return nil
}
