package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewUser_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	u := NewUser("alice", "Alice@Example.COM", "A", "L", "hash", now)

	if !u.IsActive || u.IsStaff || u.IsSuperuser {
		t.Fatalf("unexpected flags: %+v", u)
	}
	if u.Email != "Alice@example.com" {
		t.Fatalf("expected domain to be lower-cased, got %s", u.Email)
	}
	if !u.CreatedAt.Equal(now) || !u.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not stamped: %v %v", u.CreatedAt, u.UpdatedAt)
	}
	if u.String() != "alice" {
		t.Fatalf("expected display name alice, got %s", u.String())
	}
}

func TestUser_TouchNeverPrecedesCreation(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	u := NewUser("bob", "b@x.com", "B", "M", "hash", created)

	u.Touch(created.Add(-time.Hour))
	if !u.UpdatedAt.Equal(created) {
		t.Fatalf("expected updated_at clamped to created_at, got %v", u.UpdatedAt)
	}

	later := created.Add(time.Minute)
	u.Touch(later)
	if !u.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at %v, got %v", later, u.UpdatedAt)
	}
	if !u.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed")
	}
}

func TestUser_Role(t *testing.T) {
	cases := []struct {
		user User
		want string
	}{
		{User{}, RoleUser},
		{User{IsStaff: true}, RoleStaff},
		{User{IsStaff: true, IsSuperuser: true}, RoleSuperuser},
		{User{IsSuperuser: true}, RoleSuperuser},
	}
	for _, tc := range cases {
		if got := tc.user.Role(); got != tc.want {
			t.Fatalf("Role() = %s, want %s (%+v)", got, tc.want, tc.user)
		}
	}
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	u := NewUser("carol", "c@x.com", "C", "N", "$2a$10$secret", time.Now())
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "password") {
		t.Fatalf("password hash leaked: %s", raw)
	}
}

func TestValidationError_Collects(t *testing.T) {
	ve := NewValidationError()
	if ve.OrNil() != nil {
		t.Fatalf("empty error should be nil")
	}

	ve.Add("email", "Enter a valid email address.")
	ve.Add("email", "Enter a valid email address.")
	ve.Add("username", "This field is required.")

	if len(ve.Fields["email"]) != 1 {
		t.Fatalf("duplicate message not collapsed: %v", ve.Fields["email"])
	}
	if !ve.Has("username") || ve.Has("password") {
		t.Fatalf("unexpected Has results: %v", ve.Fields)
	}
	if err := ve.OrNil(); err == nil || !strings.Contains(err.Error(), "email: Enter a valid email address.") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
