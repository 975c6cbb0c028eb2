// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/zhenghongliu48-sys/mymap/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// pingTimeout bounds the connectivity check done at startup.
const pingTimeout = 10 * time.Second

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to the database at dsn, applies pending migrations and
// returns a ready store. Queries are traced to logger at debug level.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if err := Migrate(ctx, dsn, logger); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		cfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   tracelog.LoggerFunc(slogAdapter(logger)),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to the database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.logger.Info("closing database connection pool")
	s.pool.Close()
	return nil
}

// Ping checks that a pooled connection can reach the server.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// slogAdapter forwards pgx trace output to slog.
func slogAdapter(logger *slog.Logger) func(context.Context, tracelog.LogLevel, string, map[string]any) {
	return func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		attrs := make([]any, 0, len(data)*2)
		for k, v := range data {
			attrs = append(attrs, k, v)
		}
		switch level {
		case tracelog.LogLevelError:
			logger.ErrorContext(ctx, msg, attrs...)
		case tracelog.LogLevelWarn:
			logger.WarnContext(ctx, msg, attrs...)
		case tracelog.LogLevelInfo:
			logger.InfoContext(ctx, msg, attrs...)
		default:
			logger.DebugContext(ctx, msg, attrs...)
		}
	}
}
