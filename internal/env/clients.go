package environment

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"canal-panel/internal/config"
	"canal-panel/internal/infra/backend"
	"canal-panel/internal/infra/gateway"
	"canal-panel/internal/infra/sqlite3"
	"canal-panel/internal/infra/telegram"
	"canal-panel/internal/infra/yookassa"
)

type Clients struct {
	SQLiteDB    *sqlite3.DB
	Backend     *backend.Client
	Gateway     *gateway.Client
	YooKassa    *yookassa.Client
	TelegramBot *telegram.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	sqliteDB, err := provideSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite")
	}

	backendClient, err := backend.NewClient(cfg.Backend, logger.WithGroup("backend"))
	if err != nil {
		sqliteDB.Close()
		return nil, errors.Wrap(err, "backend client")
	}

	telegramBot, err := provideTelegramBot(cfg, logger)
	if err != nil {
		sqliteDB.Close()
		return nil, errors.Wrap(err, "telegram bot")
	}

	clients := &Clients{
		SQLiteDB:    sqliteDB,
		Backend:     backendClient,
		TelegramBot: telegramBot,
	}
	if cfg.Gateway.Enabled {
		clients.Gateway = gateway.NewClient(cfg.Gateway, logger.WithGroup("gateway"))
	}
	if cfg.YooKassa.Enabled() {
		clients.YooKassa = yookassa.NewClient(cfg.YooKassa, logger.WithGroup("yookassa"))
	}
	return clients, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	maxLifetimeStr := cfg.DB.MaxLifetime
	if maxLifetimeStr == "" {
		maxLifetimeStr = "5m"
	}
	maxLifetime, err := time.ParseDuration(maxLifetimeStr)
	if err != nil {
		return nil, err
	}

	if err := sqlite3.EnsureDir(cfg.DB.Path); err != nil {
		return nil, err
	}

	opts := []sqlite3.Option{
		sqlite3.WithPath(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(maxLifetime),
	}

	return sqlite3.New(ctx, opts...)
}

// provideTelegramBot returns nil without a token; alerts are then disabled.
func provideTelegramBot(cfg config.Config, logger *slog.Logger) (*telegram.Client, error) {
	if cfg.Telegram.BotToken == "" {
		return nil, nil
	}
	return telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.AdminIDs, logger.WithGroup("telegram"))
}
