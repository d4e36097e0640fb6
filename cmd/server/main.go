package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mdview/internal/api"
	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/loader"
	"github.com/dgallion1/mdview/internal/markdown"
	"github.com/dgallion1/mdview/internal/source"
	"github.com/dgallion1/mdview/internal/viewer"
)

func main() {
	cfg, err := config.Load(os.Getenv("MDVIEW_CONFIG"))
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("load configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the document source.
	src, docs, err := source.Open(cfg)
	if err != nil {
		log.Error("open document source", "error", err)
		os.Exit(1)
	}

	md := markdown.New(markdown.Options{LightStyle: cfg.LightStyle, DarkStyle: cfg.DarkStyle})
	l := loader.New(src, md, log)

	// The manifest is required; without it there is nothing to show.
	bootCtx, bootCancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	v, err := viewer.Bootstrap(bootCtx, src, l, viewer.Options{
		Keys:        viewer.KeyMode(cfg.KeyMode),
		MarginLeft:  cfg.MarginLeft,
		MarginRight: cfg.MarginRight,
	}, log)
	bootCancel()
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}

	sessions := viewer.NewSessions(v, cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	// Initialize HTTP server.
	srv := api.NewServer(sessions, md, docs, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if c, ok := src.(*source.HTTP); ok {
			c.Close()
		}
	}()

	log.Info("starting mdview", "port", cfg.Port, "source", cfg.Source, "pages", v.Manifest().Len())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
