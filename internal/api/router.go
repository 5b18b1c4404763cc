package api

import (
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/userdesk/accounts-api/docs"
	"github.com/userdesk/accounts-api/internal/api/handler"
	"github.com/userdesk/accounts-api/internal/api/metrics"
	"github.com/userdesk/accounts-api/internal/api/middleware"
	"github.com/userdesk/accounts-api/internal/core/admin"
	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

const (
	bodyLimit         = "1M"
	metricsNamespace  = "accounts"
	msgSignupThrottle = "Too many signup attempts"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log                zerolog.Logger
	JWTSecret          string
	ExposeErrorDetails bool
	CORSAllowOrigins   []string

	// TrustedProxies lists the CIDR ranges whose X-Forwarded-For header is
	// honoured when resolving the client address. Empty means the peer
	// address is used as is.
	TrustedProxies []string

	Signup       ports.SignupService
	Auth         ports.AuthService
	Admin        ports.AdminService
	Limiter      middleware.Limiter
	Dependencies []handler.Dependency

	// Registerer and Gatherer back the HTTP metrics. They default to the
	// global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = clientIPExtractor(d.Log, d.TrustedProxies)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSAllowOrigins,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: d.Registerer,
	}))

	// --- Account routes ---
	signupHandler := handler.NewSignupHandler(d.Signup, d.Log, d.ExposeErrorDetails)
	authHandler := handler.NewAuthHandler(d.Auth, d.Log)

	var signupMW []echo.MiddlewareFunc
	if d.Limiter != nil {
		throttled := metrics.SignupRequestsTotal.WithLabelValues(metrics.OutcomeThrottled)
		signupMW = append(signupMW, middleware.RateLimit(d.Limiter, d.Log, msgSignupThrottle, throttled))
	}
	e.POST("/signup", signupHandler.Signup, signupMW...)
	e.POST("/api/auth/signup", signupHandler.Signup, signupMW...)
	e.POST("/auth/login", authHandler.Login)

	// --- Admin routes (staff only) ---
	adminHandler := handler.NewAdminHandler(d.Admin, admin.UserAdmin, d.Log)
	adminGroup := e.Group("/admin/users",
		middleware.Auth(d.JWTSecret),
		middleware.RBAC(d.Log, domain.RoleSuperuser, domain.RoleStaff),
	)
	adminGroup.GET("/config", adminHandler.Config)
	adminGroup.GET("", adminHandler.List)
	adminGroup.GET("/:id", adminHandler.Get)
	adminGroup.PATCH("/:id", adminHandler.Update)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Dependencies...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// clientIPExtractor resolves c.RealIP(). Forwarding headers are only read
// when the peer is one of the trusted proxy ranges.
func clientIPExtractor(log zerolog.Logger, trusted []string) echo.IPExtractor {
	var ranges []echo.TrustOption
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			log.Warn().Err(err).Str("cidr", cidr).Msg("ignoring invalid trusted proxy range")
			continue
		}
		ranges = append(ranges, echo.TrustIPRange(ipNet))
	}
	if len(ranges) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := append([]echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}, ranges...)
	return echo.ExtractIPFromXFFHeader(opts...)
}

// requestLogger feeds echo's request logger into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
