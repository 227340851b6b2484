package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"venue_booking/internal/domain"
)

// BcryptHasher implements domain.PasswordHasher.
type BcryptHasher struct{ Cost int }

func NewBcryptHasher() BcryptHasher { return BcryptHasher{Cost: bcrypt.DefaultCost} }

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(b), nil
}

// Compare returns domain.ErrUnauthorized on a mismatch.
func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("auth: compare password: %w", err)
	}
	return nil
}
