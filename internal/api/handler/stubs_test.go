package handler

import (
	"context"
	"fmt"
	"sync"

	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

type stubSignupService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
}

func (s *stubSignupService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

type stubAdminService struct {
	listFn   func(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error)
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	updateFn func(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error)
}

func (s *stubAdminService) ListUsers(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubAdminService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubAdminService) UpdateUser(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, in)
}

// memUserRepo is an in-memory ports.UserRepository enforcing unique
// username and email.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	cp := *u
	cp.ID = fmt.Sprintf("%024x", len(r.users)+1)
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Update(context.Context, string, ports.UserChanges) (*domain.User, error) {
	return nil, fmt.Errorf("not supported")
}

func (r *memUserRepo) List(context.Context, ports.ListUsersFilter) ([]*domain.User, int64, error) {
	return nil, 0, fmt.Errorf("not supported")
}
