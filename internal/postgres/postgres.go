package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/nodehive/nodehive/internal/config"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/logger"
)

// IClient is the database surface handed to services. Repositories hold the
// concrete DB and pick up the active transaction through GetQuerier.
type IClient interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DB wraps sqlx.DB to provide transaction management
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

var _ IClient = (*DB)(nil)

// Querier defines the database operations repositories rely on.
// Both *sqlx.DB and *sqlx.Tx implement these methods
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// NewDB opens a connection pool against the configured postgres instance
func NewDB(cfg *config.Configuration, logger *logger.Logger) (*DB, error) {
	dsn := cfg.Postgres.GetDSN()
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to connect to postgres").
			Mark(ierr.ErrDatabase)
	}

	maxOpen := cfg.Postgres.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 10
	}
	maxIdle := cfg.Postgres.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	lifetime := cfg.Postgres.ConnMaxLifetimeMinutes
	if lifetime == 0 {
		lifetime = 60
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(time.Duration(lifetime) * time.Minute)

	return &DB{DB: db, logger: logger}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
	}
}

// GetQuerier returns either the transaction from context or the base DB
func (db *DB) GetQuerier(ctx context.Context) Querier {
	if tx, ok := GetTx(ctx); ok {
		return NewTracedQuerier(tx.Tx, db.logger, tx.ID)
	}
	return NewTracedQuerier(db.DB, db.logger, "")
}
