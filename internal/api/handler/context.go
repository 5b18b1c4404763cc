package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userdesk/accounts-api/internal/api/middleware"
)

// ctxClaims extracts the auth claims injected by the Auth middleware. An
// empty role means the middleware did not run.
func ctxClaims(c echo.Context) (role, userID string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ = c.Get(middleware.CtxUserID).(string)
	return role, userID, nil
}
