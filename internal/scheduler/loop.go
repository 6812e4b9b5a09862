package scheduler

import (
	"context"
	"time"

	"github.com/edgarintel/pipeline/internal/logger"
)

// defaultScanInterval matches the teacher's EOD ticker cadence
// (cmd/bot/main.go checks every 60s whether it's time to run). Loop
// calls Form4Scanner.Run() on every tick; Run returns early only on
// weekends, and otherwise discovers filers since the checkpoint the
// previous run advanced.
const defaultScanInterval = 60 * time.Second

// Loop drives the Form4Scanner on a single cooperative event loop, the
// same shape as the teacher's main-loop select over tickers
// (cmd/bot/main.go): one goroutine, blocking work processed in turn,
// no implicit concurrency between ticks.
type Loop struct {
	scanner  *Form4Scanner
	interval time.Duration
}

// NewLoop returns a Loop driving scanner on the default interval.
func NewLoop(scanner *Form4Scanner) *Loop {
	return &Loop{scanner: scanner, interval: defaultScanInterval}
}

// Run blocks, driving the scanner until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	tick := time.NewTicker(l.interval)
	defer tick.Stop()

	logger.Info(ctx, "scheduler: loop started", "interval_seconds", l.interval.Seconds())

	for {
		select {
		case <-tick.C:
			result, err := l.scanner.Run(ctx)
			if err != nil {
				logger.ErrorWithErr(ctx, "scheduler: Form4Scanner run failed", err, "status", result.Status)
				continue
			}
			if result.Status == StatusSkippedWeekend {
				continue
			}
			logger.Info(ctx, "scheduler: Form4Scanner run complete",
				"status", result.Status,
				"filers_scanned", result.FilersScanned,
				"errors", result.ErrorsCount,
				"affected_ciks", len(result.AffectedCIKs),
			)

		case <-ctx.Done():
			logger.Info(ctx, "scheduler: loop stopping", "reason", ctx.Err())
			return
		}
	}
}
