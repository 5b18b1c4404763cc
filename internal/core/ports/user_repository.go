package ports

import (
	"context"
	"time"

	"github.com/userdesk/accounts-api/internal/core/admin"
	"github.com/userdesk/accounts-api/internal/core/domain"
)

// ListUsersFilter carries the admin list query. Nil pointers mean "no filter".
type ListUsersFilter struct {
	Search      string // case-insensitive substring over admin.UserAdmin.SearchFields
	IsStaff     *bool
	IsSuperuser *bool
	IsActive    *bool
	CreatedFrom time.Time // inclusive; zero = unbounded
	CreatedTo   time.Time // exclusive; zero = unbounded
	Ordering    admin.Ordering
	Page        int // 1-based
	Limit       int
}

// UserChanges is a partial update. Nil fields are left untouched.
type UserChanges struct {
	Email       *string
	FirstName   *string
	LastName    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
	UpdatedAt   time.Time
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts the user and returns it with its assigned ID.
	// Returns domain.ErrUsernameTaken or domain.ErrEmailTaken on a unique index violation.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update applies changes and returns the stored document. created_at is never written.
	Update(ctx context.Context, id string, changes UserChanges) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
