// Package auth issues and verifies the bearer tokens guarding the
// REST surface. The realtime core never sees them; by the time an
// event reaches it, identity is already resolved.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linkup/linkup-server/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func (t *Tokens) Issue(userID domain.UserID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: string(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	return token.SignedString(t.secret)
}

func (t *Tokens) Parse(raw string) (domain.UserID, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", tok.Method.Alg())
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid || c.UserID == "" {
		return "", ErrInvalidToken
	}
	return domain.UserID(c.UserID), nil
}
