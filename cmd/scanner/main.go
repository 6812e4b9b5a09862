// Command scanner runs a single invocation of the daily Form 4 scan
// (spec.md §4.15 / §6.1), intended to be driven by an external
// scheduler (cron, k8s CronJob) rather than run continuously — use
// cmd/server for the long-lived loop and HTTP surface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

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
	ctx, span := logger.StartSpan(ctx, "form4-scan")
	defer span.End()

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

	app, err := wiring.Build(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "failed to wire application", err)
		os.Exit(1)
	}
	defer app.Close(ctx)

	result, err := app.Scanner.Run(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "scan run failed", err)
		os.Exit(1)
	}

	logger.Info(ctx, "scan complete",
		"status", result.Status,
		"filers_scanned", result.FilersScanned,
		"errors", result.ErrorsCount,
		"affected_ciks", len(result.AffectedCIKs),
	)

	switch result.Status {
	case scheduler.StatusError:
		os.Exit(1)
	default:
		fmt.Println(result.Status)
		os.Exit(0)
	}
}

func configPath() string {
	if v := os.Getenv("PIPELINE_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}
