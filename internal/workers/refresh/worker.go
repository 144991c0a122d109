package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker periodically reloads clients, channels, withdrawals and metrics.
type Worker struct {
	dashboard Dashboard
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewWorker(dashboard Dashboard, interval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		dashboard: dashboard,
		interval:  interval,
		timeout:   interval,
		logger:    logger,
		cron:      cron.New(),
	}
}

func (w *Worker) Name() string {
	return "refresh"
}

func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(fmt.Sprintf("@every %s", w.interval), func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("Panic in refresh worker", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if err := w.run(ctx); err != nil {
			w.logger.Error("Refresh worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh worker: %w", err)
	}

	w.cron.Start()
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping refresh worker")
	<-w.cron.Stop().Done()
}

func (w *Worker) run(ctx context.Context) error {
	w.logger.Debug("Refreshing dashboard state")
	return w.dashboard.Initialize(ctx)
}
