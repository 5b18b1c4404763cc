package ports

import (
	"context"

	"github.com/userdesk/accounts-api/internal/core/domain"
)

// SignupInput is the registration payload after transport decoding.
type SignupInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// SignupService validates and creates accounts. Rejected payloads come back
// as *domain.ValidationError; anything else is an unexpected failure.
type SignupService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
}

// AuthService authenticates accounts and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// ListUsersInput carries the raw admin list query parameters.
type ListUsersInput struct {
	Search      string
	IsStaff     string
	IsSuperuser string
	IsActive    string
	CreatedAt   string
	Ordering    string
	Page        int
	Limit       int
}

// ListUsersResult is one page of accounts.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UpdateUserInput is an admin edit. Fields holds every key present in the
// request body so read-only keys can be rejected by name.
type UpdateUserInput struct {
	ID          string
	ActorRole   string
	Fields      []string
	Email       *string
	FirstName   *string
	LastName    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// AdminService backs the operator console.
type AdminService interface {
	ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error)
}
