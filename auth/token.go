package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"notes-api/apperr"
)

// TokenTTL is the lifetime of every session token.
const TokenTTL = time.Hour

// Signer mints and verifies HS256 session tokens whose subject is an
// account id. An empty secret is a configuration error reported by every
// Mint and Parse call.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type SignerOption func(*Signer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = now
	}
}

func NewSigner(secret []byte, ttl time.Duration, opts ...SignerOption) *Signer {
	s := &Signer{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether a signing secret is present.
func (s *Signer) Configured() bool {
	return len(s.secret) > 0
}

func (s *Signer) Mint(subject string) (string, error) {
	if !s.Configured() {
		return "", apperr.ErrConfiguration
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the token subject.
func (s *Signer) Parse(tokenStr string) (string, error) {
	if !s.Configured() {
		return "", apperr.ErrConfiguration
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", apperr.ErrTokenExpired
	case err != nil:
		return "", fmt.Errorf("%w: %v", apperr.ErrTokenMalformed, err)
	case claims.Subject == "":
		return "", apperr.ErrTokenMalformed
	}
	return claims.Subject, nil
}
