package services

import (
	"context"
	"errors"
	"handmade-store/models"
	"handmade-store/repositories"
	"handmade-store/utils"
	"testing"
)

type recordingNotifier struct {
	usernames []string
	err       error
}

func (n *recordingNotifier) NotifyPasswordChanged(username string) error {
	n.usernames = append(n.usernames, username)
	return n.err
}

func newAuthFixture(t *testing.T) (*AuthService, *repositories.MemoryAdminRepository, *recordingNotifier) {
	t.Helper()

	admins := repositories.NewMemoryStore().Admins()
	hash, err := utils.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if _, err := admins.Upsert(context.Background(), "owner", hash); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	notifier := &recordingNotifier{}
	return NewAuthService(admins, NewTokenService("test-secret"), notifier), admins, notifier
}

func TestAuthServiceLogin(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	token, admin, err := auth.Login(context.Background(), models.LoginRequest{Username: "owner", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.Username != "owner" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	claims := auth.Session(token)
	if claims == nil || claims.ID != admin.ID || claims.Username != "owner" {
		t.Fatalf("unexpected session: %+v", claims)
	}
}

func TestAuthServiceLoginFailuresAreIndistinguishable(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, wrongPassword := auth.Login(ctx, models.LoginRequest{Username: "owner", Password: "nope"})
	_, _, unknownUser := auth.Login(ctx, models.LoginRequest{Username: "ghost", Password: "correct-horse"})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	auth, admins, notifier := newAuthFixture(t)
	ctx := context.Background()

	token, _, err := auth.Login(ctx, models.LoginRequest{Username: "owner", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	session := auth.Session(token)

	err = auth.ChangePassword(ctx, session, models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "battery-staple"})
	if !errors.Is(err, ErrInvalidCurrentPassword) {
		t.Fatalf("expected ErrInvalidCurrentPassword, got %v", err)
	}

	notifier.err = errors.New("smtp down")
	err = auth.ChangePassword(ctx, session, models.ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "battery-staple"})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if len(notifier.usernames) != 1 || notifier.usernames[0] != "owner" {
		t.Fatalf("expected one notification for owner, got %v", notifier.usernames)
	}

	admin, err := admins.FindByUsername(ctx, "owner")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if !utils.VerifyPassword(admin.PasswordHash, "battery-staple") {
		t.Fatal("new password does not verify")
	}
	if utils.VerifyPassword(admin.PasswordHash, "correct-horse") {
		t.Fatal("old password still verifies")
	}

	if _, _, err := auth.Login(ctx, models.LoginRequest{Username: "owner", Password: "battery-staple"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestAuthServiceChangePasswordWithoutSession(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	err := auth.ChangePassword(context.Background(), nil, models.ChangePasswordRequest{CurrentPassword: "a", NewPassword: "bbbbbb"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	orphan := &SessionClaims{ID: repositories.NewID(), Username: "gone"}
	err = auth.ChangePassword(context.Background(), orphan, models.ChangePasswordRequest{CurrentPassword: "a", NewPassword: "bbbbbb"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for unknown admin, got %v", err)
	}
}

func TestAuthServiceDummyHashFollowsStoredAlgorithm(t *testing.T) {
	ctx := context.Background()
	admins := repositories.NewMemoryStore().Admins()
	hash, err := utils.HashPasswordArgon2("correct-horse")
	if err != nil {
		t.Fatalf("HashPasswordArgon2: %v", err)
	}
	if _, err := admins.Upsert(ctx, "owner", hash); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	auth := NewAuthService(admins, NewTokenService("test-secret"), nil)
	if got := utils.HashAlgorithm(auth.dummyHash()); got != utils.AlgoBcrypt {
		t.Fatalf("expected bcrypt dummy by default, got %s", got)
	}

	if _, _, err := auth.Login(ctx, models.LoginRequest{Username: "owner", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := utils.HashAlgorithm(auth.dummyHash()); got != utils.AlgoArgon2 {
		t.Fatalf("expected argon2 dummy after reading an argon2 record, got %s", got)
	}
	if !utils.VerifyPassword(auth.dummyHash(), dummyPassword) {
		t.Fatal("dummy hash is not a usable hash")
	}

	if _, _, err := auth.Login(ctx, models.LoginRequest{Username: "ghost", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceWithHashAlgorithm(t *testing.T) {
	auth := NewAuthService(repositories.NewMemoryStore().Admins(), NewTokenService("test-secret"), nil)

	auth.WithHashAlgorithm(utils.AlgoArgon2)
	if got := utils.HashAlgorithm(auth.dummyHash()); got != utils.AlgoArgon2 {
		t.Fatalf("expected configured argon2 dummy, got %s", got)
	}

	auth.WithHashAlgorithm("md5")
	if got := utils.HashAlgorithm(auth.dummyHash()); got != utils.AlgoArgon2 {
		t.Fatalf("unknown algorithm should be ignored, got %s", got)
	}
}

func TestAuthServiceChangePasswordKeepsAlgorithm(t *testing.T) {
	ctx := context.Background()
	admins := repositories.NewMemoryStore().Admins()
	hash, err := utils.HashPasswordArgon2("correct-horse")
	if err != nil {
		t.Fatalf("HashPasswordArgon2: %v", err)
	}
	admin, err := admins.Upsert(ctx, "owner", hash)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	auth := NewAuthService(admins, NewTokenService("test-secret"), nil)
	session := &SessionClaims{ID: admin.ID, Username: admin.Username}
	if err := auth.ChangePassword(ctx, session, models.ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "battery-staple"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	stored, err := admins.FindByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if utils.HashAlgorithm(stored.PasswordHash) != utils.AlgoArgon2 {
		t.Fatalf("expected argon2 hash to stay argon2, got %q", stored.PasswordHash)
	}
	if !utils.VerifyPassword(stored.PasswordHash, "battery-staple") {
		t.Fatal("new password does not verify")
	}
}
