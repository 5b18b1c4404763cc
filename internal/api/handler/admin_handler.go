package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userdesk/accounts-api/internal/api/metrics"
	"github.com/userdesk/accounts-api/internal/core/admin"
	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

const msgInvalidInteger = "A valid integer is required."

// AdminHandler serves the operator console API for accounts.
type AdminHandler struct {
	service ports.AdminService
	config  admin.ModelAdmin
	log     zerolog.Logger
}

func NewAdminHandler(service ports.AdminService, config admin.ModelAdmin, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{service: service, config: config, log: log}
}

// Config handles GET /admin/users/config.
//
// @Summary      Admin view configuration for accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  admin.ModelAdmin
// @Failure      401  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /admin/users/config [get]
func (h *AdminHandler) Config(c echo.Context) error {
	return c.JSON(http.StatusOK, h.config)
}

// List handles GET /admin/users.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        q             query     string  false  "Search over username, email and names"
// @Param        is_staff      query     bool    false  "Staff flag"
// @Param        is_superuser  query     bool    false  "Superuser flag"
// @Param        is_active     query     bool    false  "Active flag"
// @Param        created_at    query     string  false  "today, past_7_days, this_month or this_year"
// @Param        ordering      query     string  false  "Column, prefixed with - for descending"
// @Param        page          query     int     false  "Page number"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Success      200           {object}  listUsersResponse
// @Failure      400           {object}  envelope
// @Failure      401           {object}  envelope
// @Failure      403           {object}  envelope
// @Router       /admin/users [get]
func (h *AdminHandler) List(c echo.Context) error {
	var page, limit int
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindErrors(); len(err) > 0 {
		ve := domain.NewValidationError()
		for _, e := range err {
			var be *echo.BindingError
			if errors.As(e, &be) {
				ve.Add(be.Field, msgInvalidInteger)
			}
		}
		return validationFailed(c, ve)
	}

	res, err := h.service.ListUsers(c.Request().Context(), ports.ListUsersInput{
		Search:      c.QueryParam("q"),
		IsStaff:     c.QueryParam(admin.FieldIsStaff),
		IsSuperuser: c.QueryParam(admin.FieldIsSuperuser),
		IsActive:    c.QueryParam(admin.FieldIsActive),
		CreatedAt:   c.QueryParam(admin.FieldCreatedAt),
		Ordering:    c.QueryParam("ordering"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListUsersResponse(res))
}

// Get handles GET /admin/users/:id.
//
// @Summary      Get an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  adminUserResponse
// @Failure      401  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminUserResponse(user))
}

// Update handles PATCH /admin/users/:id.
//
// @Summary      Edit an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  adminUserResponse
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /admin/users/{id} [patch]
func (h *AdminHandler) Update(c echo.Context) error {
	role, actorID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	fields, err := decodeObject(c, &req)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), toUpdateInput(c.Param("id"), role, fields, req))
	if err != nil {
		return err
	}

	metrics.AdminUserUpdatesTotal.Inc()
	h.log.Debug().
		Str("user_id", user.ID).
		Str("actor_id", actorID).
		Msg("admin update applied")

	return c.JSON(http.StatusOK, toAdminUserResponse(user))
}
