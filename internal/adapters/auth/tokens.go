// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"venue_booking/internal/domain"
)

const issuer = "venue-booking"

type claims struct {
	UID  int64       `json:"uid"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs HS256 tokens carrying the account id and role.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(p domain.Principal) (string, error) {
	now := t.now()
	c := claims{
		UID:  p.ID,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return s, nil
}

// Parse verifies raw and returns the principal it was issued for.
func (t *Tokens) Parse(raw string) (domain.Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, domain.Errorf(domain.ErrUnauthorized, "Token expired")
		}
		return domain.Principal{}, domain.Errorf(domain.ErrUnauthorized, "Invalid token")
	}
	if c.UID <= 0 || !c.Role.Valid() {
		return domain.Principal{}, domain.Errorf(domain.ErrUnauthorized, "Invalid token")
	}
	return domain.Principal{ID: c.UID, Role: c.Role}, nil
}
