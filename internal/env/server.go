package environment

import (
	"context"
	"log/slog"
	"net/http"

	"canal-panel/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
		API           *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, clients *Clients, services *Services) *Servers {
	var servers Servers

	servers.HTTP.API = &http.Server{
		Handler:           services.Panel.Router(),
		Addr:              cfg.Panel.ADDR(),
		ReadTimeout:       cfg.Panel.ReadTimeout,
		WriteTimeout:      cfg.Panel.WriteTimeout,
		IdleTimeout:       cfg.Panel.IdleTimeout,
		ReadHeaderTimeout: cfg.Panel.ReadTimeout,
	}
	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), clients, cfg)

	return &servers
}
