// Package token issues and verifies signed bearer tokens.
package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is absent, malformed, or its
// signature does not match.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the signed payload: the owning user's identifier.
type Claims struct {
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens with a process-wide secret.
// Tokens carry no expiration: they remain valid until the secret changes.
type Service struct {
	secret []byte
}

// NewService creates a Service signing with the given secret key.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue produces a signed token whose subject is the given user identifier.
func (s *Service) Issue(subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	})

	return token.SignedString(s.secret)
}

// Verify parses the token and returns its subject claim.
// Returns ErrInvalidToken for empty, malformed, or badly signed tokens.
// Only HMAC signing methods are accepted.
func (s *Service) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
