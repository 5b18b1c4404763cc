package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository. Username and email behave like unique indexes.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error // if set, Create returns this error
	updateErr error // if set, Update returns this error
	lastList  ports.ListUsersFilter
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("%024x", r.nextID)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, c ports.UserChanges) (*domain.User, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if c.Email != nil {
		for otherID, other := range r.byID {
			if otherID != id && other.Email == *c.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		u.Email = *c.Email
	}
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	if c.IsStaff != nil {
		u.IsStaff = *c.IsStaff
	}
	if c.IsSuperuser != nil {
		u.IsSuperuser = *c.IsSuperuser
	}
	u.UpdatedAt = c.UpdatedAt
	return cloneUser(u), nil
}

// List applies the same filters the Mongo repository would use.
func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.lastList = f

	var matched []*domain.User
	for _, u := range r.byID {
		if f.IsStaff != nil && u.IsStaff != *f.IsStaff {
			continue
		}
		if f.IsSuperuser != nil && u.IsSuperuser != *f.IsSuperuser {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		if !f.CreatedFrom.IsZero() && u.CreatedAt.Before(f.CreatedFrom) {
			continue
		}
		if !f.CreatedTo.IsZero() && !u.CreatedAt.Before(f.CreatedTo) {
			continue
		}
		if term := strings.ToLower(f.Search); term != "" {
			hay := strings.ToLower(u.Username + " " + u.Email + " " + u.FirstName + " " + u.LastName)
			if !strings.Contains(hay, term) {
				continue
			}
		}
		matched = append(matched, cloneUser(u))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
