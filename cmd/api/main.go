// @title                       Accounts API
// @version                     1.0
// @description                 Account signup, login and operator administration.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/userdesk/accounts-api/internal/api"
	"github.com/userdesk/accounts-api/internal/api/handler"
	"github.com/userdesk/accounts-api/internal/core/service"
	"github.com/userdesk/accounts-api/internal/core/validation"
	"github.com/userdesk/accounts-api/internal/infrastructure/config"
	mongodb "github.com/userdesk/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/userdesk/accounts-api/internal/infrastructure/db/redis"
	"github.com/userdesk/accounts-api/pkg/logger"
)

const (
	serviceName     = "accounts-api"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Bootstrap logger until the configured level is known.
	boot := logger.New(logger.Options{Service: serviceName})
	cfg := config.Load(boot)

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
	})

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes failed")
	}

	router := api.NewRouter(api.Deps{
		Log:                log,
		JWTSecret:          cfg.JWTSecret,
		ExposeErrorDetails: cfg.ExposeErrorDetails,
		CORSAllowOrigins:   cfg.CORSAllowOrigins,
		TrustedProxies:     cfg.TrustedProxies,
		Signup:             service.NewSignupService(users, validation.NewSignupValidator(users), log),
		Auth:               service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL),
		Admin:              service.NewAdminService(users, log),
		Limiter:            redisdb.NewRateLimiter(rdb, "signup", cfg.Signup.RateLimit, cfg.Signup.RateWindow),
		Dependencies: []handler.Dependency{
			handler.MongoDependency(db),
			handler.RedisDependency(rdb),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("shutdown complete")
}
