package environment

import (
	"context"
	"fmt"
	"log/slog"

	"canal-panel/internal/config"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type closer func()

type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Servers  *Servers
	Clients  *Clients
	Services *Services

	Closers []closer
}

func Setup(ctx context.Context) (*Env, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg config.Config
	err := envconfig.Process(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("env processing: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	clients, err := newClients(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("newClients: %w", err)
	}

	services, err := newServices(ctx, clients, &cfg, logger)
	if err != nil {
		clients.SQLiteDB.Close()
		return nil, fmt.Errorf("newServices: %w", err)
	}

	servers := newServers(ctx, cfg, logger, clients, services)

	return &Env{
		Config:   &cfg,
		Logger:   logger,
		Servers:  servers,
		Clients:  clients,
		Services: services,
		Closers: []closer{
			services.Toasts.Wait,
			func() {
				if err := clients.SQLiteDB.Close(); err != nil {
					logger.Error("Failed to close database", "error", err)
				}
			},
		},
	}, nil
}

// Close runs closers in order.
func (e *Env) Close() {
	for _, c := range e.Closers {
		c()
	}
}
