package withdrawalalerts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"

	"canal-panel/internal/stories/dashboard"
)

const sendTimeout = 30 * time.Second

// Worker tells admin chats about pending withdrawals it has not reported yet. The first
// pass only records what is already pending so a restart does not repeat old alerts.
type Worker struct {
	dashboard  Dashboard
	telegram   TelegramNotifier
	translator Translator
	logger     *slog.Logger
	cron       *cron.Cron

	mu     sync.Mutex
	seeded bool
	seen   map[int64]struct{}
}

func NewWorker(d Dashboard, telegram TelegramNotifier, translator Translator, logger *slog.Logger) *Worker {
	return &Worker{
		dashboard:  d,
		telegram:   telegram,
		translator: translator,
		logger:     logger,
		cron:       cron.New(),
		seen:       make(map[int64]struct{}),
	}
}

func (w *Worker) Name() string {
	return "withdrawalalerts"
}

func (w *Worker) Start() error {
	_, err := w.cron.AddFunc("@every 1m", func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("Panic in withdrawalalerts worker", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		w.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule withdrawalalerts worker: %w", err)
	}

	w.cron.Start()
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping withdrawalalerts worker")
	<-w.cron.Stop().Done()
}

// run returns the number of alerts sent.
func (w *Worker) run(ctx context.Context) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending := lo.Filter(w.dashboard.State().Withdrawals, func(wd dashboard.Withdrawal, _ int) bool {
		return wd.Status == dashboard.WithdrawalPending
	})

	if !w.seeded {
		for _, wd := range pending {
			w.seen[wd.ID] = struct{}{}
		}
		w.seeded = true
		return 0
	}

	sent := 0
	for _, wd := range pending {
		if _, ok := w.seen[wd.ID]; ok {
			continue
		}

		text := w.translator.T("alerts.withdrawal_pending", map[string]interface{}{
			"id":          wd.ID,
			"client":      wd.ClientName,
			"total":       fmt.Sprintf("%.2f", wd.Total()),
			"net":         fmt.Sprintf("%.2f", wd.Net),
			"fee":         fmt.Sprintf("%.2f", wd.Fee),
			"destination": wd.Destination,
		})
		if err := w.telegram.NotifyAdmins(ctx, text); err != nil {
			// retried on the next tick
			w.logger.Error("Failed to send withdrawal alert", "withdrawal_id", wd.ID, "error", err)
			continue
		}

		w.seen[wd.ID] = struct{}{}
		sent++
	}
	return sent
}
