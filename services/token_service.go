package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed lifetime of an admin session token.
const SessionTTL = 30 * 24 * time.Hour

// SessionClaims is the signed session payload.
type SessionClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    SessionTTL,
		now:    time.Now,
	}
}

// GenerateToken signs an HS256 token for the admin that expires after SessionTTL.
func (s *TokenService) GenerateToken(id, username string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token secret not configured")
	}

	now := s.now().UTC()
	claims := SessionClaims{
		ID:       id,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken returns the session payload, or nil when the token is malformed,
// signed with another key or algorithm, or expired.
func (s *TokenService) VerifyToken(tokenString string) *SessionClaims {
	if tokenString == "" || len(s.secret) == 0 {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil
	}
	return claims
}
