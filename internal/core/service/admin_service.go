package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/userdesk/accounts-api/internal/core/admin"
	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
	"github.com/userdesk/accounts-api/internal/core/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = math.MaxInt32

	msgReadOnly     = "This field is read-only."
	msgNotEditable  = "This field cannot be changed here."
	msgInvalidBool  = "Must be true or false."
	msgInvalidRange = "Must be one of: today, past_7_days, this_month, this_year."
	msgInvalidPage  = "Invalid page."
)

var editableFields = map[string]struct{}{
	admin.FieldEmail:       {},
	admin.FieldFirstName:   {},
	admin.FieldLastName:    {},
	admin.FieldIsActive:    {},
	admin.FieldIsStaff:     {},
	admin.FieldIsSuperuser: {},
}

// AdminService backs the operator console using admin.UserAdmin.
type AdminService struct {
	repo   ports.UserRepository
	config admin.ModelAdmin
	v      *validator.Validate
	now    func() time.Time
	log    zerolog.Logger
}

func NewAdminService(repo ports.UserRepository, log zerolog.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		config: admin.UserAdmin,
		v:      validation.NewStructValidator(),
		now:    time.Now,
		log:    log,
	}
}

// ListUsers returns one page of accounts filtered, searched and ordered as the
// admin configuration allows. Unrecognised filter values are rejected.
func (s *AdminService) ListUsers(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	ve := domain.NewValidationError()
	filter := ports.ListUsersFilter{
		Search:   in.Search,
		Ordering: s.config.ParseOrdering(in.Ordering),
		Page:     in.Page,
		Limit:    in.Limit,
	}

	filter.IsStaff = s.boolFilter(ve, admin.FieldIsStaff, in.IsStaff)
	filter.IsSuperuser = s.boolFilter(ve, admin.FieldIsSuperuser, in.IsSuperuser)
	filter.IsActive = s.boolFilter(ve, admin.FieldIsActive, in.IsActive)

	if in.CreatedAt != "" && s.config.IsFilterable(admin.FieldCreatedAt) {
		from, to, ok := admin.DateRange(in.CreatedAt, s.now())
		if !ok {
			ve.Add(admin.FieldCreatedAt, msgInvalidRange)
		}
		filter.CreatedFrom, filter.CreatedTo = from, to
	}

	if in.Page > maxPage {
		ve.Add("page", msgInvalidPage)
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser applies an operator edit. Read-only and unknown fields are
// rejected, permission flags need a superuser, and updated_at is refreshed.
func (s *AdminService) UpdateUser(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	ve := domain.NewValidationError()
	for _, field := range in.Fields {
		switch {
		case s.config.IsReadOnly(field):
			ve.Add(field, msgReadOnly)
		case !isEditable(field):
			ve.Add(field, msgNotEditable)
		}
	}

	if in.FirstName != nil {
		s.checkVar(ve, admin.FieldFirstName, *in.FirstName, "required,max=150")
	}
	if in.LastName != nil {
		s.checkVar(ve, admin.FieldLastName, *in.LastName, "required,max=150")
	}
	if in.Email != nil {
		normalized := domain.NormalizeEmail(*in.Email)
		in.Email = &normalized
		s.checkVar(ve, admin.FieldEmail, normalized, "required,max=254,email")
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	if (in.IsStaff != nil || in.IsSuperuser != nil) && in.ActorRole != domain.RoleSuperuser {
		return nil, domain.ErrForbidden
	}

	current, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != current.Email {
		taken, err := s.repo.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("email lookup: %w", err)
		}
		if taken {
			return nil, domain.FieldError(admin.FieldEmail, validation.MsgEmailExists)
		}
	}

	current.Touch(s.now())

	updated, err := s.repo.Update(ctx, in.ID, ports.UserChanges{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    in.IsActive,
		IsStaff:     in.IsStaff,
		IsSuperuser: in.IsSuperuser,
		UpdatedAt:   current.UpdatedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.FieldError(admin.FieldEmail, validation.MsgEmailExists)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", updated.ID).Strs("fields", in.Fields).Msg("user updated by operator")
	return updated, nil
}

func (s *AdminService) boolFilter(ve *domain.ValidationError, field, raw string) *bool {
	if raw == "" || !s.config.IsFilterable(field) {
		return nil
	}
	v, ok := admin.ParseBoolFilter(raw)
	if !ok {
		ve.Add(field, msgInvalidBool)
		return nil
	}
	return &v
}

func (s *AdminService) checkVar(ve *domain.ValidationError, field, value, tag string) {
	err := s.v.Var(value, tag)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Add(field, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		ve.Add(field, validation.Message(fe))
	}
}

func isEditable(field string) bool {
	_, ok := editableFields[field]
	return ok
}
