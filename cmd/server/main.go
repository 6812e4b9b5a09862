// Command server runs the long-lived HTTP API (spec.md §6.1) alongside
// the cooperative scheduler loop that drives the daily Form 4 scan,
// following the teacher's single-process main-loop shape (cmd/bot) with
// the gin router mounted as a second goroutine.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edgarintel/pipeline/internal/api"
	"github.com/edgarintel/pipeline/internal/logger"
	"github.com/edgarintel/pipeline/internal/scheduler"
	"github.com/edgarintel/pipeline/internal/store"
	"github.com/edgarintel/pipeline/internal/wiring"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		log.Fatal("failed to initialize logger:", err)
	}

	ctx := context.Background()
	ctx, mainSpan := logger.StartSpan(ctx, "pipeline-server-session")
	defer mainSpan.End()

	logger.Info(ctx, "=== EDGAR Intelligence Pipeline Starting ===")

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logger.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down tracer: %v", err)
		}
	}()

	cfg, err := store.LoadConfig(configPath())
	if err != nil {
		logger.ErrorWithErr(ctx, "failed to load config", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := wiring.Build(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "failed to wire application", err)
		os.Exit(1)
	}
	defer app.Close(ctx)

	handler := api.NewHandler(app.Feed, app.Connections, app.Risk, app.Sanctions, app.Citations, app.Scanner, app.MarketScan, app.Graph)
	handler.WithSDNSearcher(api.CachedSDNSearcher{Client: app.OFAC})
	router := api.SetupRouter(handler)

	addr := listenAddr()
	httpServer := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info(ctx, "HTTP API listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
		}
	}()

	loop := scheduler.NewLoop(app.Scanner)
	go loop.Run(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	<-sigc
	logger.Info(ctx, "shutdown signal received — gracefully shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(ctx, "HTTP server shutdown failed", err)
	}

	logger.Info(ctx, "=== EDGAR Intelligence Pipeline Shutdown Complete ===")
}

func configPath() string {
	if v := os.Getenv("PIPELINE_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

func listenAddr() string {
	if v := os.Getenv("PIPELINE_LISTEN_ADDR"); v != "" {
		return v
	}
	return fmt.Sprintf(":%s", defaultPort())
}

func defaultPort() string {
	if v := os.Getenv("PORT"); v != "" {
		return v
	}
	return "8080"
}
