package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/edgarintel/pipeline/internal/logger"
)

// marketScanConcurrency bounds how many companies' 8-K ingestion runs
// concurrently during a full market scan. The teacher's main loop
// (cmd/bot/main.go) processes its symbol universe sequentially inside
// one tick; nothing in the example pack implements a worker pool or
// semaphore (a grep for sync.WaitGroup/errgroup/semaphore across every
// repo found none), so this bounded fan-out is a small hand-written
// channel semaphore rather than an adopted library.
const marketScanConcurrency = 3

// ScanStatus is the MarketScanResult's lifecycle state.
type ScanStatus string

const (
	ScanIdle           ScanStatus = "idle"
	ScanInProgress     ScanStatus = "in_progress"
	ScanCompleted      ScanStatus = "completed"
	ScanError          ScanStatus = "error"
	ScanAlreadyRunning ScanStatus = "already_running"
)

// MarketScanResult is the pollable status of the most recent or running
// market scan, per spec.md §4.15's market scan endpoint.
type MarketScanResult struct {
	Status          ScanStatus
	CompaniesTotal  int
	CompaniesDone   int
	StartedAt       time.Time
	FinishedAt      time.Time
	ErrorsCount     int
	LastError       string
}

// EightKIngester processes one company's recent 8-K filings during a
// market scan.
type EightKIngester interface {
	IngestEightKFilings(ctx context.Context, cik string) error
}

// CompanyUniverse supplies the set of companies a market scan covers.
type CompanyUniverse interface {
	AllCompanyCIKs(ctx context.Context) ([]string, error)
}

// ScanCoordinator is the process-wide singleton tracking the latest
// market scan's status, mirroring the teacher's in-memory
// request-scoped state but held for the life of the process.
type ScanCoordinator struct {
	mu       sync.Mutex
	result   MarketScanResult
	universe CompanyUniverse
	ingester EightKIngester
	now      func() time.Time
}

// NewScanCoordinator returns an idle ScanCoordinator.
func NewScanCoordinator(universe CompanyUniverse, ingester EightKIngester) *ScanCoordinator {
	return &ScanCoordinator{
		result:   MarketScanResult{Status: ScanIdle},
		universe: universe,
		ingester: ingester,
		now:      time.Now,
	}
}

// Status returns a snapshot of the current scan's progress.
func (c *ScanCoordinator) Status() MarketScanResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// StartScan launches a market scan in the background. If a scan is
// already in progress it returns false without starting a second one.
func (c *ScanCoordinator) StartScan(ctx context.Context) bool {
	c.mu.Lock()
	if c.result.Status == ScanInProgress {
		c.mu.Unlock()
		return false
	}
	c.result = MarketScanResult{Status: ScanInProgress, StartedAt: c.now()}
	c.mu.Unlock()

	go c.run(ctx)
	return true
}

func (c *ScanCoordinator) run(ctx context.Context) {
	ciks, err := c.universe.AllCompanyCIKs(ctx)
	if err != nil {
		c.finish(err.Error(), 1)
		return
	}

	c.mu.Lock()
	c.result.CompaniesTotal = len(ciks)
	c.mu.Unlock()

	var wg sync.WaitGroup
	sem := make(chan struct{}, marketScanConcurrency)
	var errCount int32Counter

	for _, cik := range ciks {
		wg.Add(1)
		sem <- struct{}{}
		go func(cik string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := c.ingester.IngestEightKFilings(ctx, cik); err != nil {
				logger.Warn(ctx, "scheduler: market scan company failed", "cik", cik, "error", err)
				errCount.incr()
			}
			c.mu.Lock()
			c.result.CompaniesDone++
			c.mu.Unlock()
		}(cik)
	}
	wg.Wait()

	lastErr := ""
	if errCount.value() > 0 {
		lastErr = fmt.Sprintf("%d of %d companies failed", errCount.value(), len(ciks))
	}
	c.finish(lastErr, errCount.value())
}

func (c *ScanCoordinator) finish(lastError string, errorsCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.FinishedAt = c.now()
	c.result.ErrorsCount = errorsCount
	c.result.LastError = lastError
	if errorsCount > 0 && errorsCount == c.result.CompaniesTotal {
		c.result.Status = ScanError
	} else {
		c.result.Status = ScanCompleted
	}
}

// int32Counter is a tiny mutex-guarded counter, used instead of
// sync/atomic so the zero value is usable without an explicit
// constructor — matches the coordinator's own mutex-first style.
type int32Counter struct {
	mu  sync.Mutex
	val int
}

func (c *int32Counter) incr() {
	c.mu.Lock()
	c.val++
	c.mu.Unlock()
}

func (c *int32Counter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}
