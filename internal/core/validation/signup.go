// Package validation enforces the account rules a signup payload must satisfy
// before a User is persisted: required fields and formats, the username
// charset, password confirmation, the password policy and uniqueness of
// username and email.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

const (
	MaxNameLength     = 150
	MaxEmailLength    = 254
	MsgRequired       = "This field is required."
	MsgInvalidEmail   = "Enter a valid email address."
	MsgInvalidName    = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgPasswordMatch  = "Password fields didn't match."
	MsgUsernameExists = "A user with that username already exists."
	MsgEmailExists    = "A user with that email already exists."
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// UniquenessChecker looks up existing accounts. ports.UserRepository satisfies it.
type UniquenessChecker interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// signupFields mirrors the wire payload so messages are keyed by json name.
type signupFields struct {
	Username        string `json:"username"         validate:"required,max=150,username"`
	Email           string `json:"email"            validate:"required,max=254,email"`
	FirstName       string `json:"first_name"       validate:"required,max=150"`
	LastName        string `json:"last_name"        validate:"required,max=150"`
	Password        string `json:"password"         validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// SignupValidator checks a signup payload against the User schema.
type SignupValidator struct {
	v     *validator.Validate
	users UniquenessChecker
}

func NewSignupValidator(users UniquenessChecker) *SignupValidator {
	return &SignupValidator{v: NewStructValidator(), users: users}
}

// NewStructValidator returns a go-playground validator that reports json
// field names and knows the "username" tag.
func NewStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize trims the free-text fields and canonicalises the email. Passwords are left untouched.
func Normalize(in ports.SignupInput) ports.SignupInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = domain.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	return in
}

// Validate returns nil, a *domain.ValidationError listing every rejected
// field, or a wrapped error when a uniqueness lookup itself fails.
func (s *SignupValidator) Validate(ctx context.Context, in ports.SignupInput) error {
	ve := domain.NewValidationError()

	if err := s.v.Struct(signupFields{
		Username:        in.Username,
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Password:        in.Password,
		PasswordConfirm: in.PasswordConfirm,
	}); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate signup: %w", err)
		}
		for _, fe := range fieldErrs {
			ve.Add(fe.Field(), Message(fe))
		}
	}

	if !ve.Has("password") && !ve.Has("password_confirm") && in.Password != in.PasswordConfirm {
		ve.Add("password_confirm", MsgPasswordMatch)
	}

	if !ve.Has("password") {
		for _, msg := range CheckPassword(in.Password, UserAttributes{
			Username:  in.Username,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		}) {
			ve.Add("password", msg)
		}
	}

	if !ve.Has("username") {
		taken, err := s.users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return fmt.Errorf("validate signup: username lookup: %w", err)
		}
		if taken {
			ve.Add("username", MsgUsernameExists)
		}
	}

	if !ve.Has("email") {
		taken, err := s.users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return fmt.Errorf("validate signup: email lookup: %w", err)
		}
		if taken {
			ve.Add("email", MsgEmailExists)
		}
	}

	return ve.OrNil()
}

// Message renders a go-playground field error as a user-facing sentence.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return MsgInvalidEmail
	case "username":
		return MsgInvalidName
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation.", fe.Tag())
	}
}

func jsonFieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return sf.Name
	}
	return name
}
