// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finops-assessment/internal/common/config"
	apperrors "finops-assessment/internal/common/errors"

	"github.com/lib/pq"
)

// PostgresClient owns the assessment database pool.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// InTx runs fn inside a transaction, rolling back when fn fails.
func InTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return MapError("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return MapError("commit transaction", err)
	}
	return nil
}

// MapError converts driver errors into StandardErrors. Errors that already
// are StandardErrors pass through.
func MapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(operation)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return apperrors.NewQueryExecutionFailedError(operation,
			fmt.Errorf("%s (%s): %s", pqErr.Code.Name(), pqErr.Code, pqErr.Message))
	}
	return apperrors.NewQueryExecutionFailedError(operation, err)
}
