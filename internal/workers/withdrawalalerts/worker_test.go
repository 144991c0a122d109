package withdrawalalerts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"canal-panel/internal/stories/dashboard"
)

type fakeDashboard struct {
	state dashboard.State
}

func (f *fakeDashboard) State() dashboard.State {
	return f.state
}

type fakeTelegram struct {
	texts []string
	err   error
}

func (f *fakeTelegram) NotifyAdmins(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

type fakeTranslator struct{}

func (fakeTranslator) T(key string, params map[string]interface{}) string {
	return fmt.Sprintf("%s #%v %v", key, params["id"], params["total"])
}

func TestRunAlertsOnlyNewPending(t *testing.T) {
	d := &fakeDashboard{state: dashboard.State{Withdrawals: []dashboard.Withdrawal{
		{ID: 1, Net: 96, Fee: 4, Status: dashboard.WithdrawalPending},
	}}}
	tg := &fakeTelegram{}
	w := NewWorker(d, tg, fakeTranslator{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if n := w.run(context.Background()); n != 0 {
		t.Errorf("first pass sent %d, want 0", n)
	}

	d.state.Withdrawals = append(d.state.Withdrawals,
		dashboard.Withdrawal{ID: 2, Net: 960, Fee: 40, Status: dashboard.WithdrawalPending},
		dashboard.Withdrawal{ID: 3, Net: 10, Fee: 0, Status: dashboard.WithdrawalPaid},
	)

	if n := w.run(context.Background()); n != 1 {
		t.Errorf("second pass sent %d, want 1", n)
	}
	if len(tg.texts) != 1 || tg.texts[0] != "alerts.withdrawal_pending #2 1000.00" {
		t.Errorf("texts = %v", tg.texts)
	}

	if n := w.run(context.Background()); n != 0 {
		t.Errorf("third pass sent %d, want 0", n)
	}
}

func TestRunRetriesFailedAlerts(t *testing.T) {
	d := &fakeDashboard{}
	tg := &fakeTelegram{err: errors.New("telegram down")}
	w := NewWorker(d, tg, fakeTranslator{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.run(context.Background())

	d.state.Withdrawals = []dashboard.Withdrawal{{ID: 5, Status: dashboard.WithdrawalPending}}
	if n := w.run(context.Background()); n != 0 {
		t.Errorf("sent = %d while telegram is down", n)
	}

	tg.err = nil
	if n := w.run(context.Background()); n != 1 {
		t.Errorf("sent = %d after recovery, want 1", n)
	}
}
