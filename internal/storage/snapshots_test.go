package storage

import (
	"context"
	"testing"
	"time"

	"canal-panel/internal/infra/sqlite3"
)

func newTestStorage(t *testing.T) *storageImpl {
	t.Helper()

	db, err := sqlite3.New(context.Background(), sqlite3.WithMaxOpenConns(1))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := New(db.DB)
	s.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSnapshotUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	got, err := s.GetSnapshot(ctx, "dashboard-state")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("missing key = %q, want nil", got)
	}

	if err := s.PutSnapshot(ctx, "dashboard-state", []byte(`{"v":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.PutSnapshot(ctx, "dashboard-state", []byte(`{"v":2}`)); err != nil {
		t.Fatal(err)
	}

	got, err = s.GetSnapshot(ctx, "dashboard-state")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("value = %s, want {\"v\":2}", got)
	}

	infos, err := s.ListSnapshots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Key != "dashboard-state" || infos[0].Size != 7 {
		t.Errorf("infos = %+v", infos)
	}
}

func TestDeleteSnapshots(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, key := range []string{"dashboard-state", "dashboard-session", "other"} {
		if err := s.PutSnapshot(ctx, key, []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeleteSnapshots(ctx, "dashboard-state", "dashboard-session", "absent"); err != nil {
		t.Fatal(err)
	}

	infos, err := s.ListSnapshots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Key != "other" {
		t.Errorf("remaining = %+v", infos)
	}
}
