// Package scheduler implements spec.md §4.15: the checkpointed Form 4
// scanner and the singleton, background-driven 8-K market scan.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/edgarintel/pipeline/internal/logger"
)

// investmentVehicleSICs are excluded from Form 4 scanning, per spec.md
// §4.15 step 4.
var investmentVehicleSICs = map[string]bool{
	"6211": true, "6221": true, "6199": true,
	"6722": true, "6726": true, "6770": true,
}

// RunStatus is Run()'s terminal status, per spec.md §4.15 step 9.
type RunStatus string

const (
	StatusSuccess        RunStatus = "success"
	StatusPartialSuccess RunStatus = "partial_success"
	StatusError          RunStatus = "error"
	StatusSkippedWeekend RunStatus = "skipped_weekend"
)

const interCompanyDelay = 500 * time.Millisecond

// Filer is a candidate Form 4 filer discovered via EFTS.
type Filer struct {
	CIK  string
	Name string
	SIC  string
}

// CheckpointStore reads/advances the scanner's last_checkpoint.
type CheckpointStore interface {
	LastCheckpoint(ctx context.Context) (time.Time, error)
	AdvanceCheckpoint(ctx context.Context, newCheckpoint time.Time) error
}

// FilerDiscoverer finds new Form 4 filers since a checkpoint, via EFTS.
type FilerDiscoverer interface {
	DiscoverFilersSince(ctx context.Context, since time.Time) ([]Filer, error)
}

// SICLookup resolves a filer's SIC code, consulting the graph before
// falling back to EDGAR, per spec.md §4.15 step 4.
type SICLookup interface {
	SICForCIK(ctx context.Context, cik string) (string, error)
}

// ExistingTransactionsChecker reports whether a CIK already has
// transactions at or after checkpoint in the graph, per step 5.
type ExistingTransactionsChecker interface {
	HasTransactionsSince(ctx context.Context, cik string, checkpoint time.Time) (bool, error)
}

// InsiderIngester ingests Form 4 filings for one company (limit per
// spec.md step 6).
type InsiderIngester interface {
	IngestInsiderTransactions(ctx context.Context, cik string, limit int) error
}

// ClusterDetector runs insider cluster detection for step 7.
type ClusterDetector interface {
	DetectClusters(ctx context.Context, days int) ([]ClusterHit, error)
}

// ClusterHit is the subset of signal.ClusterResult the scanner needs to
// raise alerts, decoupled from the signal package to avoid a scheduler
// -> signal -> graphstore import chain beyond what's needed here.
type ClusterHit struct {
	CompanyCIK string
	Level      string // "low" | "medium" | "high"
}

// LargePurchase is a single day's large P transaction found for step 8.
type LargePurchase struct {
	CompanyCIK string
	TotalValue float64
}

// LargePurchaseFinder finds large same-day purchases for the affected
// CIK set, per spec.md step 8.
type LargePurchaseFinder interface {
	LargePurchasesToday(ctx context.Context, ciks []string, minValue float64) ([]LargePurchase, error)
}

// AlertCreator creates deduplicated Alert nodes.
type AlertCreator interface {
	CreateAlert(ctx context.Context, alertType, cik, companyName, ticker, title, description, severity string, day time.Time) error
}

const (
	clusterLookbackDays  = 30
	clusterWindow        = 30
	clusterMinLevel      = "medium"
	largePurchaseMinUSD  = 500_000.0
	form4FilingLimit     = 10
)

var levelRank = map[string]int{"low": 0, "medium": 1, "high": 2}

// Form4Scanner implements spec.md §4.15's checkpointed Run() flow.
type Form4Scanner struct {
	checkpoints CheckpointStore
	discoverer  FilerDiscoverer
	sic         SICLookup
	existing    ExistingTransactionsChecker
	ingester    InsiderIngester
	clusters    ClusterDetector
	purchases   LargePurchaseFinder
	alerts      AlertCreator
	now         func() time.Time
}

// NewForm4Scanner wires the Form4Scanner's collaborators.
func NewForm4Scanner(checkpoints CheckpointStore, discoverer FilerDiscoverer, sic SICLookup, existing ExistingTransactionsChecker, ingester InsiderIngester, clusters ClusterDetector, purchases LargePurchaseFinder, alerts AlertCreator) *Form4Scanner {
	return &Form4Scanner{
		checkpoints: checkpoints,
		discoverer:  discoverer,
		sic:         sic,
		existing:    existing,
		ingester:    ingester,
		clusters:    clusters,
		purchases:   purchases,
		alerts:      alerts,
		now:         time.Now,
	}
}

// RunResult reports Run()'s outcome for logging/alerting.
type RunResult struct {
	Status         RunStatus
	FilersScanned  int
	ErrorsCount    int
	AffectedCIKs   []string
}

// Run executes the 9-step scan flow of spec.md §4.15. Checkpoint
// advancement only happens after per-company processing completes
// (spec.md §5's ordering guarantee), so a crash mid-run leaves the
// checkpoint intact.
func (s *Form4Scanner) Run(ctx context.Context) (RunResult, error) {
	today := s.now()
	if today.Weekday() == time.Saturday || today.Weekday() == time.Sunday {
		return RunResult{Status: StatusSkippedWeekend}, nil
	}

	checkpoint, err := s.checkpoints.LastCheckpoint(ctx)
	if err != nil {
		return RunResult{Status: StatusError}, fmt.Errorf("scheduler: LastCheckpoint: %w", err)
	}
	if checkpoint.IsZero() {
		checkpoint = today.AddDate(0, 0, -1)
	}

	filers, err := s.discoverer.DiscoverFilersSince(ctx, checkpoint)
	if err != nil {
		return RunResult{Status: StatusError}, fmt.Errorf("scheduler: DiscoverFilersSince: %w", err)
	}

	var affected []string
	errorsCount := 0

	for _, filer := range filers {
		sic := filer.SIC
		if sic == "" {
			sic, err = s.sic.SICForCIK(ctx, filer.CIK)
			if err != nil {
				logger.Warn(ctx, "scheduler: SIC lookup failed", "cik", filer.CIK, "error", err)
				errorsCount++
				continue
			}
		}
		if investmentVehicleSICs[sic] {
			continue
		}

		hasExisting, err := s.existing.HasTransactionsSince(ctx, filer.CIK, checkpoint)
		if err != nil {
			logger.Warn(ctx, "scheduler: existing-transactions check failed", "cik", filer.CIK, "error", err)
			errorsCount++
			continue
		}
		if hasExisting {
			continue
		}

		if err := s.ingester.IngestInsiderTransactions(ctx, filer.CIK, form4FilingLimit); err != nil {
			logger.Warn(ctx, "scheduler: ingest failed", "cik", filer.CIK, "error", err)
			errorsCount++
			continue
		}

		affected = append(affected, filer.CIK)
		time.Sleep(interCompanyDelay)
	}

	if err := s.raiseClusterAlerts(ctx, affected, today); err != nil {
		logger.Warn(ctx, "scheduler: cluster alerting failed", "error", err)
		errorsCount++
	}

	if err := s.raiseLargePurchaseAlerts(ctx, affected, today); err != nil {
		logger.Warn(ctx, "scheduler: large-purchase alerting failed", "error", err)
		errorsCount++
	}

	if err := s.checkpoints.AdvanceCheckpoint(ctx, today); err != nil {
		return RunResult{Status: StatusError, FilersScanned: len(filers), ErrorsCount: errorsCount, AffectedCIKs: affected},
			fmt.Errorf("scheduler: AdvanceCheckpoint: %w", err)
	}

	status := StatusSuccess
	if errorsCount > 0 {
		status = StatusPartialSuccess
	}
	return RunResult{Status: status, FilersScanned: len(filers), ErrorsCount: errorsCount, AffectedCIKs: affected}, nil
}

func (s *Form4Scanner) raiseClusterAlerts(ctx context.Context, affected []string, today time.Time) error {
	if len(affected) == 0 {
		return nil
	}
	affectedSet := toSet(affected)

	hits, err := s.clusters.DetectClusters(ctx, clusterLookbackDays)
	if err != nil {
		return fmt.Errorf("DetectClusters: %w", err)
	}

	for _, hit := range hits {
		if !affectedSet[hit.CompanyCIK] {
			continue
		}
		if levelRank[hit.Level] < levelRank[clusterMinLevel] {
			continue
		}
		err := s.alerts.CreateAlert(ctx, "insider_cluster", hit.CompanyCIK, "", "",
			"Insider Buying Cluster Detected",
			fmt.Sprintf("cluster level %s detected for CIK %s", hit.Level, hit.CompanyCIK),
			hit.Level, today)
		if err != nil {
			return fmt.Errorf("CreateAlert(insider_cluster): %w", err)
		}
	}
	return nil
}

func (s *Form4Scanner) raiseLargePurchaseAlerts(ctx context.Context, affected []string, today time.Time) error {
	if len(affected) == 0 {
		return nil
	}
	purchases, err := s.purchases.LargePurchasesToday(ctx, affected, largePurchaseMinUSD)
	if err != nil {
		return fmt.Errorf("LargePurchasesToday: %w", err)
	}
	for _, p := range purchases {
		err := s.alerts.CreateAlert(ctx, "large_purchase", p.CompanyCIK, "", "",
			"Large Insider Purchase",
			fmt.Sprintf("purchase of $%.0f reported for CIK %s", p.TotalValue, p.CompanyCIK),
			"medium", today)
		if err != nil {
			return fmt.Errorf("CreateAlert(large_purchase): %w", err)
		}
	}
	return nil
}

func toSet(ciks []string) map[string]bool {
	set := make(map[string]bool, len(ciks))
	for _, c := range ciks {
		set[c] = true
	}
	return set
}
