package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type (
	TxFunc    = func(*sqlx.Tx) error
	TxManager = func(ctx context.Context, fn TxFunc) error
)

// WithTx runs fn in one transaction: committed when fn returns nil, rolled back on an
// error or a panic.
func WithTx(db *sqlx.DB, opts *sql.TxOptions) TxManager {
	return func(ctx context.Context, fn TxFunc) (err error) {
		tx, err := db.BeginTxx(ctx, opts)
		if err != nil {
			return fmt.Errorf("db begin transaction: %w", err)
		}

		committed := false
		defer func() {
			if committed {
				return
			}
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("db rollback: %w", rbErr))
			}
		}()

		if err := fn(tx); err != nil {
			return fmt.Errorf("db transaction error: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("db commit transaction: %w", err)
		}
		committed = true
		return nil
	}
}
