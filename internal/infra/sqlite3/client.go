package sqlite3

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var (
	defaultConnTimeout     = 10 * time.Second
	defaultMaxOpenConns    = 1
	defaultMaxIdleConns    = 1
	defaultConnMaxLifetime = time.Hour
)

type config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnTimeout     time.Duration
}

type Option func(*config)

func WithDSN(dsn string) Option {
	return func(c *config) {
		c.DSN = dsn
	}
}

// WithPath opens a database file, creating its directory when missing.
func WithPath(path string) Option {
	return func(c *config) {
		c.DSN = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	}
}

func WithMaxOpenConns(maxOpen int) Option {
	return func(c *config) {
		if maxOpen > 0 {
			c.MaxOpenConns = maxOpen
		}
	}
}

func WithMaxIdleConns(maxIdle int) Option {
	return func(c *config) {
		if maxIdle > 0 {
			c.MaxIdleConns = maxIdle
		}
	}
}

func WithConnMaxLifetime(lifetime time.Duration) Option {
	return func(c *config) {
		c.ConnMaxLifetime = lifetime
	}
}

func WithConnTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.ConnTimeout = timeout
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		DSN:             ":memory:",
		MaxOpenConns:    defaultMaxOpenConns,
		MaxIdleConns:    defaultMaxIdleConns,
		ConnMaxLifetime: defaultConnMaxLifetime,
		ConnTimeout:     defaultConnTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// New opens and pings the database. An in-memory database lives as long as its single
// connection, so callers keep MaxOpenConns at 1 for ":memory:".
func New(ctx context.Context, opts ...Option) (*DB, error) {
	cfg := newConfig(opts...)

	db, err := sqlx.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite3 database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite3 database: %w", err)
	}

	return &DB{
		DB: db,
	}, nil
}

// EnsureDir creates the parent directory of a database file.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	return nil
}

type DB struct {
	*sqlx.DB
}

func (d *DB) Close() error {
	return d.DB.Close()
}

// Ping is used by the readiness probe.
func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}
