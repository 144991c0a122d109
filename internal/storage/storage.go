package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"canal-panel/internal/infra/sqlite3"
)

type storageImpl struct {
	db     *sqlx.DB
	now    func() time.Time
	withTx sqlite3.TxManager
}

func New(db *sqlx.DB) *storageImpl {
	return &storageImpl{
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
		withTx: sqlite3.WithTx(db, nil),
	}
}

func (s *storageImpl) stmpBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv_snapshots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// Migrate creates the tables the panel needs; it is safe to run on every start.
func (s *storageImpl) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("db.ExecContext: %w", err)
		}
	}
	return nil
}
