package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sirpyerre/social-api/internal/api/handler"
	"github.com/sirpyerre/social-api/internal/api/middleware"
	"github.com/sirpyerre/social-api/internal/api/session"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

const defaultRequestTimeout = 10 * time.Second

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Auth          ports.AuthService
	Posts         ports.PostService
	Users         ports.UserService
	Notifications ports.NotificationService
	Transport     *session.Transport

	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger

	RequestTimeout time.Duration
	Log            zerolog.Logger

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "social",
		Registerer: registerer,
	}))
	e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{Timeout: timeout}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Transport, deps.Log)
	postHandler := handler.NewPostHandler(deps.Posts)
	userHandler := handler.NewUserHandler(deps.Users)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	healthHandler := handler.NewHealthHandler(deps.Health)
	guard := middleware.Auth(deps.Auth, deps.Transport)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, guard)

	// --- Post routes ---
	posts := api.Group("/posts", guard)
	posts.GET("/all", postHandler.All)
	posts.GET("/following", postHandler.Following)
	posts.GET("/likes/:id", postHandler.Liked)
	posts.GET("/user/:username", postHandler.ByUser)
	posts.POST("/create", postHandler.Create)
	posts.POST("/likes/:id", postHandler.Like)
	posts.POST("/comment/:id", postHandler.Comment)
	posts.DELETE("/delete/:id", postHandler.Delete)

	// --- User routes ---
	users := api.Group("/users", guard)
	users.GET("/profile/:username", userHandler.Profile)
	users.GET("/suggested", userHandler.Suggested)
	users.POST("/follow/:id", userHandler.Follow)
	users.POST("/update", userHandler.Update)

	// --- Notification routes ---
	notifications := api.Group("/notifications", guard)
	notifications.GET("", notificationHandler.List)
	notifications.DELETE("", notificationHandler.DeleteAll)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger feeds one structured line per request into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
