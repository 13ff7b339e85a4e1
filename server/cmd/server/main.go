package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/zusistats/zusistats/server/internal/alerts"
	"github.com/zusistats/zusistats/server/internal/api"
	"github.com/zusistats/zusistats/server/internal/auth"
	"github.com/zusistats/zusistats/server/internal/config"
	"github.com/zusistats/zusistats/server/internal/ingest"
	"github.com/zusistats/zusistats/server/internal/store"
	"github.com/zusistats/zusistats/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("zusistats-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	alg, err := cfg.Server.Results.ParsedAlgorithm()
	if err != nil {
		slog.Error("invalid algorithm", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"pattern", cfg.Server.Results.Pattern,
		"algorithm", alg,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := store.New(alg)
	alertEngine := alerts.New(cfg.Server.Alerts)

	// Alert rules and webhooks reload live; everything else needs a restart.
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		err := config.Watch(ctx, *configPath, func(c *config.Config) {
			alertEngine.SetConfig(c.Server.Alerts)
		})
		if err != nil {
			slog.Error("config watch stopped", "err", err)
		}
	}()

	hub := ws.New(st, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	in := ingest.New(st, alertEngine, cfg.Server.Results.Pattern, cfg.Server.Results.Debounce)
	in.OnChange(hub.Notify)
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		if err := in.Run(ctx); err != nil {
			slog.Error("result ingest stopped", "err", err)
		}
	}()

	requireKey := auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", requireKey(api.New(st, alertEngine)))
	httpMux.Handle("/metrics", api.Metrics(st))
	httpMux.Handle("/ws/stream", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("zusistats-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck

	// Both raise alerts; stop them before draining webhook deliveries.
	<-ingestDone
	<-watchDone
	alertEngine.Close()
}
