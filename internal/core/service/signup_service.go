package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
	"github.com/userdesk/accounts-api/internal/core/validation"
)

// Validator checks a normalised signup payload. *validation.SignupValidator implements it.
type Validator interface {
	Validate(ctx context.Context, in ports.SignupInput) error
}

// SignupService creates accounts from validated payloads.
type SignupService struct {
	repo      ports.UserRepository
	validator Validator
	hashCost  int
	now       func() time.Time
	log       zerolog.Logger
}

func NewSignupService(repo ports.UserRepository, validator Validator, log zerolog.Logger) *SignupService {
	return &SignupService{
		repo:      repo,
		validator: validator,
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
		log:       log,
	}
}

// Signup validates the payload, hashes the password and persists the account.
// A unique index violation that slipped past validation (two concurrent
// signups for the same identity) is reported as a validation error.
func (s *SignupService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	input = validation.Normalize(input)

	if err := s.validator.Validate(ctx, input); err != nil {
		return nil, err
	}
	s.log.Info().Str("username", input.Username).Msg("signup validation passed")

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(input.Username, input.Email, input.FirstName, input.LastName, string(hash), s.now())

	created, err := s.repo.Create(ctx, user)
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		s.log.Warn().Str("username", input.Username).Msg("username taken at insert")
		return nil, domain.FieldError("username", validation.MsgUsernameExists)
	case errors.Is(err, domain.ErrEmailTaken):
		s.log.Warn().Str("username", input.Username).Msg("email taken at insert")
		return nil, domain.FieldError("email", validation.MsgEmailExists)
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}
