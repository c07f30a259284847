// Package gormdb is the relational data access layer. It owns a reader and a
// writer connection and the repositories built on top of them.
//
// Lookups go to the reader. Mutations go to the writer and, when the reader is
// a separate store that does not replicate on its own, are mirrored to it.
package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/99minutos/posts-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config captures the settings for opening the reader and writer pools.
type Config struct {
	Driver    string
	WriterDSN string
	// ReaderDSN may be empty, in which case reads share the writer pool.
	ReaderDSN string
	// Mirror copies every write to the reader tables. Leave it off when the
	// reader is a physical replica fed by the database itself.
	Mirror      bool
	AutoMigrate bool
	Tables      Tables

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration

	LogLevel string
	Logger   zerolog.Logger
}

// Tables maps each entity to its table on the writer and on the reader.
// Reader tables default to the writer names.
type Tables struct {
	Users       string
	Posts       string
	ReaderUsers string
	ReaderPosts string
}

func (t Tables) withDefaults() Tables {
	if t.Users == "" {
		t.Users = "users"
	}
	if t.Posts == "" {
		t.Posts = "posts"
	}
	if t.ReaderUsers == "" {
		t.ReaderUsers = t.Users
	}
	if t.ReaderPosts == "" {
		t.ReaderPosts = t.Posts
	}
	return t
}

// Store holds the two named connection handles shared by every repository.
type Store struct {
	Writer *gorm.DB
	Reader *gorm.DB
	Tables Tables

	mirror bool
	log    zerolog.Logger
}

// NewStore wraps already opened handles. Mirroring is forced off when reader
// and writer resolve to the same pool and the same tables, since it would
// write every row twice.
func NewStore(writer, reader *gorm.DB, tables Tables, mirror bool, log zerolog.Logger) *Store {
	if reader == nil {
		reader = writer
	}
	tables = tables.withDefaults()
	sameTarget := reader == writer && tables.Users == tables.ReaderUsers && tables.Posts == tables.ReaderPosts
	return &Store{
		Writer: writer,
		Reader: reader,
		Tables: tables,
		mirror: mirror && !sameTarget,
		log:    log,
	}
}

// Connect opens the writer pool and, when a distinct reader DSN is given, the
// reader pool. Both are pinged before returning.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	writer, err := open(ctx, cfg, cfg.WriterDSN, timeout)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}

	reader := writer
	if cfg.ReaderDSN != "" && cfg.ReaderDSN != cfg.WriterDSN {
		reader, err = open(ctx, cfg, cfg.ReaderDSN, timeout)
		if err != nil {
			closeDB(writer)
			return nil, fmt.Errorf("reader: %w", err)
		}
	}

	store := NewStore(writer, reader, cfg.Tables, cfg.Mirror, cfg.Logger)
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

func open(ctx context.Context, cfg Config, dsn string, timeout time.Duration) (*gorm.DB, error) {
	dialector, err := dialect(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(gormWriter{log: cfg.Logger.With().Str("component", "gorm").Logger()}, logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func dialect(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL, "":
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or widens the writer tables, and the reader tables when
// writes are mirrored. A replica that is not mirrored is read-only to us.
func (s *Store) Migrate(ctx context.Context) error {
	w := s.Writer.WithContext(ctx)
	if err := w.Table(s.Tables.Users).AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("migrate %s: %w", s.Tables.Users, err)
	}
	if err := w.Table(s.Tables.Posts).AutoMigrate(&domain.Post{}); err != nil {
		return fmt.Errorf("migrate %s: %w", s.Tables.Posts, err)
	}
	if !s.mirror {
		return nil
	}

	r := s.Reader.WithContext(ctx)
	if err := r.Table(s.Tables.ReaderUsers).AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("migrate reader %s: %w", s.Tables.ReaderUsers, err)
	}
	if err := r.Table(s.Tables.ReaderPosts).AutoMigrate(&domain.Post{}); err != nil {
		return fmt.Errorf("migrate reader %s: %w", s.Tables.ReaderPosts, err)
	}
	return nil
}

// Mirrored reports whether writes are copied to the reader store.
func (s *Store) Mirrored() bool { return s.mirror }

// Ping checks both pools.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.PingWriter(ctx); err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	if err := s.PingReader(ctx); err != nil {
		return fmt.Errorf("reader: %w", err)
	}
	return nil
}

func (s *Store) PingWriter(ctx context.Context) error { return ping(ctx, s.Writer) }

func (s *Store) PingReader(ctx context.Context) error { return ping(ctx, s.Reader) }

// Close releases both pools.
func (s *Store) Close() error {
	var firstErr error
	if sqlDB, err := s.Writer.DB(); err == nil {
		firstErr = sqlDB.Close()
	}
	if s.Reader != s.Writer {
		if sqlDB, err := s.Reader.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil && firstErr == nil {
				firstErr = cerr
			}
		}
	}
	return firstErr
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// gormWriter forwards GORM's own log lines to zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Info().Msgf(format, args...)
}

// toGormLogLevel maps the application LOG_LEVEL to GORM's logger level.
// Only debug shows individual statements.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
