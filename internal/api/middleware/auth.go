package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Context keys populated by Auth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

var errIncompleteClaims = errors.New("token has no subject or role")

// AccessClaims is the payload of the tokens issued by POST /auth/login.
type AccessClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Auth accepts an "Authorization: Bearer" HS256 token signed with jwtSecret.
// Tokens must carry an expiry, a subject and a role; the account id, username
// and role are stored on the context under the Ctx* keys.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	key := []byte(jwtSecret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return echomiddleware.KeyAuthWithConfig(echomiddleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(raw string, c echo.Context) (bool, error) {
			var claims AccessClaims
			if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			}); err != nil {
				return false, err
			}
			if claims.Subject == "" || claims.Role == "" {
				return false, errIncompleteClaims
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)
			return true, nil
		},
		ErrorHandler: func(err error, _ echo.Context) error {
			var missing *echomiddleware.ErrKeyAuthMissing
			if errors.As(err, &missing) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token").SetInternal(err)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
		},
	})
}
