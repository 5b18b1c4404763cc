package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userdesk/accounts-api/internal/core/domain"
)

// RBAC admits requests whose role, as set by Auth, is one of allowedRoles.
// A request without a role never passed Auth and gets a 401.
func RBAC(log zerolog.Logger, allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if slices.Contains(allowedRoles, role) {
				return next(c)
			}

			userID, _ := c.Get(CtxUserID).(string)
			log.Warn().
				Str("user_id", userID).
				Str("role", role).
				Str("path", c.Path()).
				Msg("role not allowed")
			return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error()).SetInternal(domain.ErrForbidden)
		}
	}
}
