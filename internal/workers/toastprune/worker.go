package toastprune

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Worker drops expired toasts every second.
type Worker struct {
	toasts Toasts
	logger *slog.Logger
	cron   *cron.Cron
}

func NewWorker(toasts Toasts, logger *slog.Logger) *Worker {
	return &Worker{
		toasts: toasts,
		logger: logger,
		cron:   cron.New(),
	}
}

func (w *Worker) Name() string {
	return "toastprune"
}

func (w *Worker) Start() error {
	_, err := w.cron.AddFunc("@every 1s", w.run)
	if err != nil {
		return fmt.Errorf("failed to schedule toastprune worker: %w", err)
	}

	w.cron.Start()
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping toastprune worker")
	<-w.cron.Stop().Done()
}

func (w *Worker) run() {
	if n := w.toasts.Prune(); n > 0 {
		w.logger.Debug("Pruned expired toasts", "count", n)
	}
}
