package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleSuperuser = "superuser"
	RoleStaff     = "staff"
	RoleUser      = "user"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
)

// User is an account owner. It carries its own authentication attributes;
// PasswordHash is a bcrypt digest and never leaves the service.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds an active, unprivileged account stamped with now.
func NewUser(username, email, firstName, lastName, passwordHash string, now time.Time) *User {
	now = now.UTC()
	return &User{
		Username:     username,
		Email:        NormalizeEmail(email),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// String returns the username, the account's display identifier.
func (u *User) String() string {
	return u.Username
}

// Role derives the authorization role from the permission flags.
func (u *User) Role() string {
	switch {
	case u.IsSuperuser:
		return RoleSuperuser
	case u.IsStaff:
		return RoleStaff
	default:
		return RoleUser
	}
}

// Touch records a modification. UpdatedAt never moves before CreatedAt.
func (u *User) Touch(now time.Time) {
	now = now.UTC()
	if now.Before(u.CreatedAt) {
		now = u.CreatedAt
	}
	u.UpdatedAt = now
}

// NormalizeEmail trims the address and lower-cases its domain part.
// The local part is case-sensitive and kept as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
