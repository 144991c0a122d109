package environment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"canal-panel/internal/config"
	"canal-panel/internal/infra/checkout"
	"canal-panel/internal/infra/gateway"
	"canal-panel/internal/localization"
	"canal-panel/internal/notifier"
	"canal-panel/internal/panel"
	"canal-panel/internal/storage"
	"canal-panel/internal/stories/dashboard"
	"canal-panel/internal/stories/reports"
	"canal-panel/internal/workers"
	"canal-panel/internal/workers/refresh"
	"canal-panel/internal/workers/toastprune"
	"canal-panel/internal/workers/withdrawalalerts"
)

// SnapshotStorage is the durable side of the session container.
type SnapshotStorage interface {
	dashboard.Store
	ListSnapshots(ctx context.Context) ([]storage.SnapshotInfo, error)
}

type Services struct {
	Storage      SnapshotStorage
	Dashboard    *dashboard.Service
	Reports      *reports.Service
	Toasts       *notifier.Queue
	Localization *localization.Service
	Panel        *panel.Handler
	Workers      *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	storageImpl := storage.New(clients.SQLiteDB.DB)
	if err := storageImpl.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to migrate storage")
	}
	s.Storage = storageImpl

	tr, err := localization.NewService(cfg.Toast.Language)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load translations")
	}
	s.Localization = tr

	var toastOpts []notifier.Option
	if clients.TelegramBot != nil {
		// error toasts are mirrored to admin chats
		toastOpts = append(toastOpts, notifier.WithSink(notifier.SinkFunc(func(ctx context.Context, t notifier.Toast) error {
			return clients.TelegramBot.NotifyAdmins(ctx, t.Text)
		}), notifier.LevelError))
	}
	s.Toasts = notifier.New(cfg.Toast.TTL, logger.WithGroup("toasts"), toastOpts...)

	s.Dashboard = dashboard.NewService(
		clients.Backend,
		provideCheckout(clients, cfg, logger),
		storageImpl,
		dashboard.Settings{
			WithdrawalFeePercent: cfg.Fees.WithdrawalPercent,
			AdminLogins:          cfg.Auth.AdminLogins,
		},
		logger.WithGroup("dashboard"),
	)
	if err := s.Dashboard.Restore(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to restore dashboard state")
	}

	s.Reports = reports.NewService(clients.Backend, logger.WithGroup("reports"))
	s.Panel = panel.NewHandler(s.Dashboard, s.Reports, s.Toasts, tr, logger.WithGroup("panel"))

	jobs := []workers.Worker{
		refresh.NewWorker(s.Dashboard, cfg.Refresh.Interval, logger.WithGroup("refresh")),
		toastprune.NewWorker(s.Toasts, logger.WithGroup("toastprune")),
	}
	if clients.TelegramBot != nil {
		jobs = append(jobs, withdrawalalerts.NewWorker(s.Dashboard, clients.TelegramBot, tr, logger.WithGroup("withdrawalalerts")))
	}
	s.Workers = workers.NewManager(logger, jobs...)

	return &s, nil
}

// provideCheckout routes payment methods to the payment service providers and YooKassa.
// Methods nobody handles fall back to the configured checkout link.
func provideCheckout(clients *Clients, cfg *config.Config, logger *slog.Logger) *checkout.Router {
	router := checkout.NewRouter(cfg.Gateway.CheckoutURL, logger.WithGroup("checkout"))

	if clients.Gateway != nil {
		router.
			Handle(clients.Gateway.Provider(gateway.MercadoPago), gateway.MercadoPago, "mercado pago").
			Handle(clients.Gateway.Provider(gateway.Stripe), gateway.Stripe, "tarjeta").
			Handle(clients.Gateway.Provider(gateway.Coinbase), gateway.Coinbase, "cripto", "crypto")
	}
	if clients.YooKassa != nil {
		router.Handle(clients.YooKassa, "yookassa")
	}
	return router
}
