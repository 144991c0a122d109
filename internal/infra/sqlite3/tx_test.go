package sqlite3

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
)

func newMemoryDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE items (name TEXT PRIMARY KEY)`); err != nil {
		t.Fatal(err)
	}
	return db
}

func countItems(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items`); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestWithTx(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		fn        TxFunc
		wantErr   error
		wantCount int
	}{
		{
			name: "commit",
			fn: func(tx *sqlx.Tx) error {
				_, err := tx.Exec(`INSERT INTO items (name) VALUES ('a'), ('b')`)
				return err
			},
			wantCount: 2,
		},
		{
			name: "rollback on error",
			fn: func(tx *sqlx.Tx) error {
				if _, err := tx.Exec(`INSERT INTO items (name) VALUES ('a')`); err != nil {
					return err
				}
				return errBoom
			},
			wantErr:   errBoom,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemoryDB(t)
			err := WithTx(db.DB, nil)(context.Background(), tt.fn)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := countItems(t, db); got != tt.wantCount {
				t.Errorf("count = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db := newMemoryDB(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = WithTx(db.DB, nil)(context.Background(), func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(`INSERT INTO items (name) VALUES ('a')`); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	if got := countItems(t, db); got != 0 {
		t.Errorf("count = %d after panic, want 0", got)
	}
}
