package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userdesk/accounts-api/internal/api/metrics"
	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

const (
	msgUserCreated  = "User created successfully"
	msgCreateFailed = "Failed to create user"
)

// SignupHandler handles account registration.
type SignupHandler struct {
	service      ports.SignupService
	log          zerolog.Logger
	exposeErrors bool
}

// NewSignupHandler returns a SignupHandler. When exposeErrors is set, 500
// responses carry the underlying error text instead of a generic message.
func NewSignupHandler(service ports.SignupService, log zerolog.Logger, exposeErrors bool) *SignupHandler {
	return &SignupHandler{service: service, log: log, exposeErrors: exposeErrors}
}

// Signup handles POST /signup.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      429   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /signup [post]
func (h *SignupHandler) Signup(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.SignupDuration.Observe(time.Since(start).Seconds()) }()

	var req signupRequest
	keys, err := decodeObject(c, &req)

	h.log.Info().
		Str("remote_ip", c.RealIP()).
		Strs("fields", keys).
		Msg("signup request received")

	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return h.invalid(c, ve)
		}
		return err
	}

	user, err := h.service.Signup(c.Request().Context(), toSignupInput(req))
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return h.invalid(c, ve)
		}
		return h.failed(c, err)
	}

	h.log.Info().
		Str("username", user.Username).
		Str("user_id", user.ID).
		Msg("user created")
	metrics.SignupRequestsTotal.WithLabelValues(metrics.OutcomeCreated).Inc()

	resp := toUserResponse(user)
	return c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: msgUserCreated,
		User:    &resp,
	})
}

func (h *SignupHandler) invalid(c echo.Context, ve *domain.ValidationError) error {
	h.log.Error().
		Interface("errors", ve.Fields).
		Msg("signup validation failed")
	metrics.SignupRequestsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()

	return validationFailed(c, ve)
}

func (h *SignupHandler) failed(c echo.Context, err error) error {
	h.log.Error().
		Err(err).
		Str("error_type", errorType(err)).
		Msg("user creation failed")
	metrics.SignupRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()

	msg := msgInternalError
	if h.exposeErrors {
		msg = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, envelope{
		Success: false,
		Message: msgCreateFailed,
		Error:   msg,
	})
}

// errorType names the innermost wrapped error's type.
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
