package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type fakeCheckpoints struct {
	last time.Time
}

func (f *fakeCheckpoints) LastCheckpoint(ctx context.Context) (time.Time, error) {
	return f.last, nil
}

func (f *fakeCheckpoints) AdvanceCheckpoint(ctx context.Context, newCheckpoint time.Time) error {
	f.last = newCheckpoint
	return nil
}

type fakeDiscoverer struct {
	filers []Filer
}

func (f fakeDiscoverer) DiscoverFilersSince(ctx context.Context, since time.Time) ([]Filer, error) {
	return f.filers, nil
}

type fakeSIC struct {
	byCIK map[string]string
}

func (f fakeSIC) SICForCIK(ctx context.Context, cik string) (string, error) {
	return f.byCIK[cik], nil
}

type fakeExisting struct {
	ciksWithTx map[string]bool
}

func (f fakeExisting) HasTransactionsSince(ctx context.Context, cik string, checkpoint time.Time) (bool, error) {
	return f.ciksWithTx[cik], nil
}

type fakeIngester struct {
	ingested []string
	failCIK  string
}

func (f *fakeIngester) IngestInsiderTransactions(ctx context.Context, cik string, limit int) error {
	if cik == f.failCIK {
		return errors.New("ingest failed")
	}
	f.ingested = append(f.ingested, cik)
	return nil
}

type fakeClusters struct {
	hits []ClusterHit
}

func (f fakeClusters) DetectClusters(ctx context.Context, days int) ([]ClusterHit, error) {
	return f.hits, nil
}

type fakePurchaseFinder struct {
	purchases []LargePurchase
}

func (f fakePurchaseFinder) LargePurchasesToday(ctx context.Context, ciks []string, minValue float64) ([]LargePurchase, error) {
	return f.purchases, nil
}

type fakeAlerts struct {
	created []string
}

func (f *fakeAlerts) CreateAlert(ctx context.Context, alertType, cik, companyName, ticker, title, description, severity string, day time.Time) error {
	f.created = append(f.created, alertType+":"+cik)
	return nil
}

func weekday(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func TestRunSkipsWeekend(t *testing.T) {
	s := NewForm4Scanner(&fakeCheckpoints{}, fakeDiscoverer{}, fakeSIC{}, fakeExisting{}, &fakeIngester{}, fakeClusters{}, fakePurchaseFinder{}, &fakeAlerts{})
	saturday, _ := time.Parse("2006-01-02", "2026-08-01")
	s.now = func() time.Time { return saturday }

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSkippedWeekend {
		t.Errorf("expected skipped_weekend, got %q", result.Status)
	}
}

func TestRunFiltersInvestmentVehiclesAndExistingTransactions(t *testing.T) {
	discoverer := fakeDiscoverer{filers: []Filer{
		{CIK: "1", Name: "Acme Corp"},
		{CIK: "2", Name: "Acme Fund"},
		{CIK: "3", Name: "Acme Holdings"},
	}}
	sic := fakeSIC{byCIK: map[string]string{"1": "7372", "2": "6221", "3": "7372"}}
	existing := fakeExisting{ciksWithTx: map[string]bool{"3": true}}
	ingester := &fakeIngester{}

	s := NewForm4Scanner(&fakeCheckpoints{}, discoverer, sic, existing, ingester, fakeClusters{}, fakePurchaseFinder{}, &fakeAlerts{})
	s.now = func() time.Time { return weekday("2026-08-03") }

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ingester.ingested) != 1 || ingester.ingested[0] != "1" {
		t.Errorf("expected only CIK 1 ingested, got %+v", ingester.ingested)
	}
	if result.Status != StatusSuccess {
		t.Errorf("expected success, got %q", result.Status)
	}
	if len(result.AffectedCIKs) != 1 || result.AffectedCIKs[0] != "1" {
		t.Errorf("expected affected ciks [1], got %+v", result.AffectedCIKs)
	}
}

func TestRunAdvancesCheckpointOnlyAfterProcessing(t *testing.T) {
	checkpoints := &fakeCheckpoints{}
	discoverer := fakeDiscoverer{filers: []Filer{{CIK: "1", SIC: "7372"}}}
	s := NewForm4Scanner(checkpoints, discoverer, fakeSIC{}, fakeExisting{}, &fakeIngester{}, fakeClusters{}, fakePurchaseFinder{}, &fakeAlerts{})
	today := weekday("2026-08-03")
	s.now = func() time.Time { return today }

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !checkpoints.last.Equal(today) {
		t.Errorf("expected checkpoint advanced to %v, got %v", today, checkpoints.last)
	}
}

func TestRunReturnsPartialSuccessOnIngestFailure(t *testing.T) {
	discoverer := fakeDiscoverer{filers: []Filer{{CIK: "1", SIC: "7372"}, {CIK: "2", SIC: "7372"}}}
	ingester := &fakeIngester{failCIK: "2"}
	s := NewForm4Scanner(&fakeCheckpoints{}, discoverer, fakeSIC{}, fakeExisting{}, ingester, fakeClusters{}, fakePurchaseFinder{}, &fakeAlerts{})
	s.now = func() time.Time { return weekday("2026-08-03") }

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusPartialSuccess {
		t.Errorf("expected partial_success, got %q", result.Status)
	}
	if result.ErrorsCount != 1 {
		t.Errorf("expected 1 error recorded, got %d", result.ErrorsCount)
	}
}

func TestRunCreatesClusterAlertsOnlyForAffectedCIKsAtOrAboveMinLevel(t *testing.T) {
	discoverer := fakeDiscoverer{filers: []Filer{{CIK: "1", SIC: "7372"}}}
	clusters := fakeClusters{hits: []ClusterHit{
		{CompanyCIK: "1", Level: "high"},
		{CompanyCIK: "1", Level: "low"},
		{CompanyCIK: "99", Level: "high"},
	}}
	alerts := &fakeAlerts{}
	s := NewForm4Scanner(&fakeCheckpoints{}, discoverer, fakeSIC{}, fakeExisting{}, &fakeIngester{}, clusters, fakePurchaseFinder{}, alerts)
	s.now = func() time.Time { return weekday("2026-08-03") }

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.created) != 1 || alerts.created[0] != "insider_cluster:1" {
		t.Errorf("expected exactly one insider_cluster alert for CIK 1, got %+v", alerts.created)
	}
}

func TestFileCheckpointStoreRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewFileCheckpointStore(path)

	zero, err := store.LastCheckpoint(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !zero.IsZero() {
		t.Errorf("expected zero time for missing file, got %v", zero)
	}

	want := weekday("2026-08-03")
	if err := store.AdvanceCheckpoint(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded := NewFileCheckpointStore(path)
	got, err := reloaded.LastCheckpoint(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
