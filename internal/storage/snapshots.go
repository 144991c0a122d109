package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const snapshotsTable = "kv_snapshots"

type snapshotRow struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GetSnapshot returns nil when nothing is stored under key.
func (s *storageImpl) GetSnapshot(ctx context.Context, key string) ([]byte, error) {
	q, args, err := s.stmpBuilder().
		Select("key", "value", "updated_at").
		From(snapshotsTable).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row snapshotRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}
	return row.Value, nil
}

func (s *storageImpl) PutSnapshot(ctx context.Context, key string, value []byte) error {
	q, args, err := s.stmpBuilder().
		Insert(snapshotsTable).
		SetMap(map[string]interface{}{
			"key":        key,
			"value":      value,
			"updated_at": s.now(),
		}).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}
	return nil
}

// DeleteSnapshots removes all keys or none.
func (s *storageImpl) DeleteSnapshots(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, key := range keys {
			q, args, err := s.stmpBuilder().
				Delete(snapshotsTable).
				Where(sq.Eq{"key": key}).
				ToSql()
			if err != nil {
				return fmt.Errorf("build sql query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("tx.ExecContext: %w", err)
			}
		}
		return nil
	})
}

// SnapshotInfo describes a stored key without its payload.
type SnapshotInfo struct {
	Key       string    `db:"key"`
	Size      int       `db:"size"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s *storageImpl) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	q, args, err := s.stmpBuilder().
		Select("key", "length(value) AS size", "updated_at").
		From(snapshotsTable).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var out []SnapshotInfo
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}
	return out, nil
}
