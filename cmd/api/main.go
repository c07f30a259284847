// Command api serves the posts REST API.
//
// @title                       Posts API
// @version                     1.0
// @description                 CRUD API for users and posts over a reader/writer database split.
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

	"github.com/rs/zerolog"

	"github.com/99minutos/posts-api/internal/api"
	"github.com/99minutos/posts-api/internal/api/handler"
	"github.com/99minutos/posts-api/internal/api/middleware"
	"github.com/99minutos/posts-api/internal/core/ports"
	"github.com/99minutos/posts-api/internal/core/service"
	"github.com/99minutos/posts-api/internal/infrastructure/db/gormdb"
	mongodb "github.com/99minutos/posts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/posts-api/internal/infrastructure/db/redis"
	"github.com/99minutos/posts-api/internal/infrastructure/queue"
	"github.com/99minutos/posts-api/internal/pkg/config"
	"github.com/99minutos/posts-api/pkg/logger"
)

const (
	serviceName     = "posts-api"
	shutdownTimeout = 10 * time.Second
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:    cfg.Log.Level,
		Pretty:   cfg.Log.Pretty,
		FilePath: cfg.Log.File,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := gormdb.Connect(ctx, gormdb.Config{
		Driver:      cfg.DB.Driver,
		WriterDSN:   cfg.DB.WriterURL,
		ReaderDSN:   cfg.DB.ReaderURL,
		Mirror:      cfg.DB.Mirror,
		AutoMigrate: cfg.DB.AutoMigrate,
		Tables: gormdb.Tables{
			Users:       cfg.DB.UsersTable,
			Posts:       cfg.DB.PostsTable,
			ReaderUsers: cfg.DB.ReaderUsersTable,
			ReaderPosts: cfg.DB.ReaderPostsTable,
		},
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		LogLevel:        cfg.Log.Level,
		Logger:          log,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().
		Str("driver", cfg.DB.Driver).
		Bool("separate_reader", store.Reader != store.Writer).
		Bool("mirror", store.Mirrored()).
		Msg("database connected")

	checks := map[string]handler.HealthCheck{
		"writer": store.PingWriter,
		"reader": store.PingReader,
	}

	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.Rate.Limit, cfg.Rate.Window)
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = redisdb.NewFixedWindowLimiter(rdb, cfg.Rate.Limit, cfg.Rate.Window)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis rate limiter enabled")
	}

	var audit ports.AuditRecorder = ports.NopAuditRecorder{}
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit index not created")
		}
		dispatcher := queue.NewDispatcher(cfg.Mongo.AuditWorkers, repo, log.With().Str("component", "audit").Logger())
		dispatcher.Start(ctx)
		// Stop before Disconnect so queued entries are flushed.
		defer dispatcher.Stop()

		audit = dispatcher
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo audit trail enabled")
	}

	deps := api.Deps{
		Log:       log,
		Users:     service.NewUserService(gormdb.NewUserRepository(store), audit, log),
		Posts:     service.NewPostService(gormdb.NewPostRepository(store), audit, log),
		Limiter:   limiter,
		Checks:    checks,
		Name:      serviceName,
		Version:   version,
		Docs:      !cfg.Production(),
		RateLimit: cfg.Rate.Limit,
	}
	if cfg.AuthRequired {
		deps.JWTSecret = cfg.JWTSecret
	}
	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
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
	return e.Shutdown(shutdownCtx)
}
