package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Limiter decides whether subject may make another request in the current window.
type Limiter interface {
	Allow(ctx context.Context, subject string) (bool, time.Duration, error)
}

// RateLimit throttles requests per client IP. Limiter failures let the
// request through. throttled, when non-nil, counts rejected requests.
func RateLimit(limiter Limiter, log zerolog.Logger, message string, throttled prometheus.Counter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			ok, retryAfter, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("remote_ip", ip).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if ok {
				return next(c)
			}

			if throttled != nil {
				throttled.Inc()
			}
			log.Warn().Str("remote_ip", ip).Str("path", c.Path()).Msg("request throttled")

			c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"success": false,
				"message": message,
			})
		}
	}
}
