package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/posts-api/docs"
	"github.com/99minutos/posts-api/internal/api/handler"
	"github.com/99minutos/posts-api/internal/api/middleware"
	"github.com/99minutos/posts-api/internal/core/ports"
)

// Deps is everything the HTTP layer needs from bootstrap.
type Deps struct {
	Log     zerolog.Logger
	Users   ports.UserService
	Posts   ports.PostService
	Limiter middleware.Limiter
	Checks  map[string]handler.HealthCheck

	Name    string
	Version string
	// Docs mounts Swagger UI under /documentation.
	Docs bool
	// JWTSecret protects every mutating route when non-empty.
	JWTSecret string
	RateLimit int

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Namespace:  "posts_api",
		Registerer: d.Registerer,
	}))

	// --- Probes, metrics, docs (no auth, no rate limit) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/", handler.Info(d.Name, d.Version))
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	if d.Docs {
		e.GET("/documentation", func(c echo.Context) error {
			return c.Redirect(http.StatusMovedPermanently, "/documentation/index.html")
		})
		e.GET("/documentation/*", echoSwagger.WrapHandler)
	}

	// --- API v1 ---
	v1 := e.Group("/api/v1")
	if d.Limiter != nil {
		v1.Use(middleware.RateLimit(d.Limiter, d.RateLimit, d.Log))
	}

	var guard []echo.MiddlewareFunc
	if d.JWTSecret != "" {
		guard = append(guard, middleware.Auth(d.JWTSecret))
	}

	users := handler.NewUserHandler(d.Users)
	ug := v1.Group("/users")
	ug.POST("", users.Create, guard...)
	ug.GET("", users.List)
	ug.GET("/:id", users.Get)
	ug.PATCH("/:id", users.Update, guard...)
	ug.DELETE("/:id", users.Delete, guard...)

	posts := handler.NewPostHandler(d.Posts)
	pg := v1.Group("/posts")
	pg.POST("", posts.Create, guard...)
	pg.GET("", posts.List)
	pg.GET("/:id", posts.Get)
	pg.PATCH("/:id", posts.Update, guard...)
	pg.DELETE("/:id", posts.Delete, guard...)

	return e
}

// requestLogger writes one zerolog line per request. Server errors are
// logged at error level, everything else at info.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
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
