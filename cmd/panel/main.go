package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	environment "canal-panel/internal/env"
	"canal-panel/internal/stories/dashboard"
)

func main() {
	app := &cli.App{
		Name:   "canal-panel",
		Usage:  "Operator panel for paid Telegram channels",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the panel API, workers and observability server",
				Action: serve,
			},
			{
				Name:   "reset",
				Usage:  "Clear the stored state and session",
				Action: reset,
			},
			{
				Name:  "snapshot",
				Usage: "Print a stored snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Value: dashboard.StateKey, Usage: "Snapshot key"},
					&cli.BoolFlag{Name: "list", Aliases: []string{"l"}, Usage: "List stored keys instead"},
				},
				Action: snapshot,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := environment.Setup(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup environment: %w", err)
	}
	defer env.Close()

	logger := env.Logger
	logger.Info("Starting canal-panel")

	// first load; failed slices stay empty until the next refresh
	if err := env.Services.Dashboard.Initialize(ctx); err != nil {
		logger.Warn("Initial load interrupted", slog.Any("error", err))
	}

	listen := func(name string, srv *http.Server) {
		logger.Info("Starting server", slog.String("name", name), slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", slog.String("name", name), slog.Any("error", err))
			stop()
		}
	}
	go listen("observability", env.Servers.HTTP.Observability)
	go listen("panel", env.Servers.HTTP.API)

	if err := env.Services.Workers.Start(); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	logger.Info("Panel started. Press Ctrl+C to stop.")
	<-ctx.Done()

	logger.Info("Shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.Config.ShutdownDuration)
	defer cancel()

	env.Services.Workers.Stop()

	for name, srv := range map[string]*http.Server{
		"panel":         env.Servers.HTTP.API,
		"observability": env.Servers.HTTP.Observability,
	} {
		if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			logger.Error("Server shutdown error", slog.String("name", name), slog.Any("error", err))
		}
	}

	logger.Info("Application stopped")
	return nil
}

func reset(c *cli.Context) error {
	env, err := environment.Setup(c.Context)
	if err != nil {
		return fmt.Errorf("failed to setup environment: %w", err)
	}
	defer env.Close()

	if err := env.Services.Dashboard.Reset(c.Context); err != nil {
		return err
	}
	env.Logger.Info("Stored state cleared")
	return nil
}

func snapshot(c *cli.Context) error {
	env, err := environment.Setup(c.Context)
	if err != nil {
		return fmt.Errorf("failed to setup environment: %w", err)
	}
	defer env.Close()

	store := env.Services.Storage
	out := c.App.Writer

	if c.Bool("list") {
		infos, err := store.ListSnapshots(c.Context)
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Fprintf(out, "%s\t%d bytes\t%s\n", info.Key, info.Size, info.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	raw, err := store.GetSnapshot(c.Context, c.String("key"))
	if err != nil {
		return err
	}
	if raw == nil {
		return cli.Exit(fmt.Sprintf("no snapshot stored under %q", c.String("key")), 1)
	}
	fmt.Fprintln(out, string(raw))
	return nil
}
