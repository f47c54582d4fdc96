// Command corefd serves the resolver over HTTP and reloads its sieve
// configuration when the config file changes.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/oarkflow/coref/nlp/config"
	"github.com/oarkflow/coref/nlp/logging"
	"github.com/oarkflow/coref/nlp/server"
)

func main() {
	configPath := flag.String("config", "coref.yaml", "config file (.yaml, .yml, .bcl or .json)")
	addr := flag.String("addr", "", "HTTP listen address, overrides the config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("err", err.Error()))
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	logger, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		slog.Error("Failed to set up logging", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv, err := server.New(cfg, logger, reg)
	if err != nil {
		slog.Error("Failed to build server", slog.String("err", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.Watch(ctx, *configPath, reloader(srv, logger))
		if err != nil {
			slog.Warn("Config watch disabled", slog.String("err", err.Error()))
		}
	}()

	if err := srv.Listen(ctx); err != nil {
		slog.Error("Server error", slog.String("err", err.Error()))
		closeLog()
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// reloader applies a changed config to srv; a config that fails to build
// leaves the running pipeline in place.
func reloader(srv *server.Server, logger *slog.Logger) func(*config.Config) {
	return func(next *config.Config) {
		if err := srv.Reload(next); err != nil {
			logger.Error("Keeping previous pipeline", slog.String("err", err.Error()))
		}
	}
}
