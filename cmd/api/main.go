// Command api runs the social network HTTP API.
//
// @title           Social API
// @version         1.0
// @description     Accounts, cookie sessions, posts, follows and notifications.
// @BasePath        /api
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        jwt
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	_ "github.com/sirpyerre/social-api/docs"
	"github.com/sirpyerre/social-api/internal/api"
	"github.com/sirpyerre/social-api/internal/api/handler"
	"github.com/sirpyerre/social-api/internal/api/session"
	"github.com/sirpyerre/social-api/internal/core/ports"
	"github.com/sirpyerre/social-api/internal/core/service"
	"github.com/sirpyerre/social-api/internal/infrastructure/config"
	"github.com/sirpyerre/social-api/internal/infrastructure/db/mongo"
	"github.com/sirpyerre/social-api/internal/infrastructure/db/redis"
	"github.com/sirpyerre/social-api/internal/infrastructure/queue"
	"github.com/sirpyerre/social-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "social-api",
	})

	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "social-api"})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongo.NewUserRepository(db)
	posts := mongo.NewPostRepository(db)
	notifications := mongo.NewNotificationRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, posts, notifications); err != nil {
		return err
	}

	health := map[string]handler.Pinger{"mongodb": handler.MongoPinger(db)}

	var revoker ports.TokenRevoker
	if cfg.Redis.Addr != "" {
		var rdb *goredis.Client
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		revoker = redis.NewRevocationList(rdb)
		health["redis"] = handler.RedisPinger(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set: logout clears the cookie but cannot revoke tokens")
	}

	// --- Services ---
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	authService := service.NewAuthService(users, tokens, revoker, cfg.Auth.BcryptCost, logger.Component("auth"))
	notificationService := service.NewNotificationService(notifications, users, logger.Component("notifications"))

	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, notificationService, logger.Component("dispatcher"))
	dispatcher.Start(context.WithoutCancel(ctx))

	postService := service.NewPostService(posts, users, dispatcher, logger.Component("posts"))
	userService := service.NewUserService(users, dispatcher, cfg.Auth.BcryptCost, logger.Component("users"))

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:           authService,
		Posts:          postService,
		Users:          userService,
		Notifications:  notificationService,
		Transport:      session.NewTransport(cfg.Auth.CookieName, cfg.Auth.JWTTTL, cfg.SecureCookies()),
		Health:         health,
		RequestTimeout: cfg.RequestTimeout,
		Log:            logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("notification dispatcher did not drain")
	}
	return nil
}
