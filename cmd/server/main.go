package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/statflat/internal/api"
	"github.com/dgallion1/statflat/internal/collector"
	"github.com/dgallion1/statflat/internal/config"
	"github.com/dgallion1/statflat/internal/monitor"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := monitor.NewClient(monitor.Options{
		BaseURL:     cfg.MonitorURL,
		Username:    cfg.MonitorUser,
		Password:    cfg.MonitorPassword,
		InsecureTLS: cfg.MonitorInsecureTLS,
		Timeout:     cfg.FetchTimeout,
		Selector:    cfg.MonitorSelector,
	})
	if err != nil {
		log.Error("invalid monitor configuration", "error", err)
		os.Exit(1)
	}

	coll := collector.New(client, log, cfg.PollInterval, cfg.HistorySize)
	coll.Start(ctx)

	srv := api.NewServer(coll, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		coll.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting statflat", "port", cfg.Port, "monitor_url", cfg.MonitorURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
