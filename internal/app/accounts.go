package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"venue_booking/internal/domain"
	"venue_booking/internal/ranking"
)

type SignupInput struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	Phone           *string `json:"phone"`
}

type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Picture  *Upload
}

// AccountService handles sign up, log in and profile edits for both roles.
type AccountService struct {
	repo   domain.AccountRepository
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
	pics   *PictureService
}

func NewAccountService(r domain.AccountRepository, h domain.PasswordHasher, t domain.TokenIssuer, p *PictureService) *AccountService {
	return &AccountService{repo: r, hasher: h, tokens: t, pics: p}
}

func (s *AccountService) Signup(ctx context.Context, role domain.Role, in SignupInput) (domain.Account, error) {
	in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return domain.Account{}, domain.Invalid("All fields are required")
	}
	if !validEmail(in.Email) {
		return domain.Account{}, domain.Invalid("Invalid email format")
	}
	if in.Password != in.ConfirmPassword {
		return domain.Account{}, domain.Invalid("Passwords do not match")
	}

	_, err := s.repo.GetAccountByEmail(ctx, role, in.Email)
	switch {
	case err == nil:
		return domain.Account{}, domain.Errorf(domain.ErrConflict, "User already exists")
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Account{}, fmt.Errorf("service: signup lookup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.Account{}, err
	}
	a, err := s.repo.CreateAccount(ctx, domain.Account{
		Role:         role,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        optional(in.Phone),
	})
	if errors.Is(err, domain.ErrConflict) {
		// lost a race with a concurrent signup
		return domain.Account{}, domain.Errorf(domain.ErrConflict, "User already exists")
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("service: create account: %w", err)
	}
	log.Info().Str("role", string(role)).Int64("account_id", a.ID).Msg("account created")
	return ranking.PublicAccount(a), nil
}

func (s *AccountService) Login(ctx context.Context, role domain.Role, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, domain.Invalid("Email and password are required")
	}
	if !validEmail(email) {
		return domain.Session{}, domain.Invalid("Invalid email format")
	}

	a, err := s.repo.GetAccountByEmail(ctx, role, email)
	if errors.Is(err, domain.ErrNotFound) {
		msg := "Email not found"
		if role == domain.RoleManager {
			msg = "User not found"
		}
		return domain.Session{}, domain.Errorf(domain.ErrNotFound, "%s", msg)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("service: login lookup: %w", err)
	}
	if err := s.hasher.Compare(a.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return domain.Session{}, domain.Errorf(domain.ErrUnauthorized, "Incorrect password")
		}
		return domain.Session{}, err
	}

	token, err := s.tokens.Issue(domain.Principal{ID: a.ID, Role: role})
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Account: ranking.PublicAccount(a), Token: token}, nil
}

// UpdateProfile applies the non-empty fields of in to the caller's account.
func (s *AccountService) UpdateProfile(ctx context.Context, p domain.Principal, in ProfileUpdate) (domain.Account, error) {
	a, err := s.repo.GetAccountByID(ctx, p.Role, p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, domain.Errorf(domain.ErrNotFound, "User not found")
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("service: load profile: %w", err)
	}

	if v := optional(in.Name); v != nil {
		a.Name = *v
	}
	if v := optional(in.Email); v != nil {
		if !validEmail(*v) {
			return domain.Account{}, domain.Invalid("Invalid email format")
		}
		a.Email = *v
	}
	if in.Password != nil && *in.Password != "" {
		if a.PasswordHash, err = s.hasher.Hash(*in.Password); err != nil {
			return domain.Account{}, err
		}
	}
	var fresh *string
	if in.Picture != nil {
		if fresh, err = s.pics.Save(ctx, domain.PictureProfile, in.Picture); err != nil {
			return domain.Account{}, err
		}
		a.ProfilePic = fresh
	}

	a, err = s.repo.UpdateAccount(ctx, a)
	if err != nil {
		s.pics.Discard(ctx, domain.PictureProfile, fresh)
	}
	if errors.Is(err, domain.ErrConflict) {
		return domain.Account{}, domain.Errorf(domain.ErrConflict, "User already exists")
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("service: update profile: %w", err)
	}
	return ranking.PublicAccount(a), nil
}
