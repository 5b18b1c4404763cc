package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userdesk/accounts-api/internal/api/metrics"
	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Login authenticates an account and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return validationFailed(c, domain.FieldError(domain.NonFieldErrors, msgInvalidPayload))
	}
	if err := c.Validate(&req); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return validationFailed(c, ve)
		}
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginFailure).Inc()
			h.log.Warn().
				Str("username", req.Username).
				Str("remote_ip", c.RealIP()).
				Msg("login rejected")
			return c.JSON(http.StatusUnauthorized, envelope{Success: false, Message: "invalid credentials"})
		}
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginError).Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}
