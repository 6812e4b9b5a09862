package signal

import (
	"context"
	"testing"
	"time"
)

func tx(cik, insider string, dateStr, code string, value float64) ClusterTransaction {
	return ClusterTransaction{CompanyCIK: cik, InsiderName: insider, TransactionDate: day(dateStr), Code: code, TotalValue: value}
}

func TestDetectClustersHighWithThreeBuyers(t *testing.T) {
	txs := []ClusterTransaction{
		tx("1", "A", "2026-06-01", "P", 100_000),
		tx("1", "B", "2026-06-05", "P", 50_000),
		tx("1", "C", "2026-06-10", "P", 20_000),
	}
	results := detectClusters(txs)
	if len(results) != 1 {
		t.Fatalf("expected 1 cluster result, got %d", len(results))
	}
	if results[0].Level != ClusterHigh {
		t.Errorf("expected high cluster with 3 buyers, got %q", results[0].Level)
	}
	if results[0].NumBuyers != 3 {
		t.Errorf("expected 3 buyers, got %d", results[0].NumBuyers)
	}
}

func TestDetectClustersMediumByValue(t *testing.T) {
	txs := []ClusterTransaction{
		tx("1", "A", "2026-06-01", "P", 600_000),
	}
	results := detectClusters(txs)
	if len(results) != 1 || results[0].Level != ClusterMedium {
		t.Fatalf("expected single-buyer high-value cluster to be medium, got %+v", results)
	}
}

func TestDetectClustersLowSingleSmallBuyer(t *testing.T) {
	txs := []ClusterTransaction{
		tx("1", "A", "2026-06-01", "P", 10_000),
	}
	results := detectClusters(txs)
	if len(results) != 1 || results[0].Level != ClusterLow {
		t.Fatalf("expected low cluster, got %+v", results)
	}
}

func TestDetectClustersDropsZeroValueExercises(t *testing.T) {
	txs := []ClusterTransaction{
		tx("1", "A", "2026-06-01", "M", 0),
	}
	results := detectClusters(txs)
	if len(results) != 0 {
		t.Fatalf("expected routine $0 exercise to be dropped entirely, got %+v", results)
	}
}

func TestDetectClustersExcludesTradesOutside30DayWindow(t *testing.T) {
	txs := []ClusterTransaction{
		tx("1", "A", "2026-06-01", "P", 100_000),
		tx("1", "B", "2026-06-05", "P", 50_000),
		tx("1", "C", "2026-01-01", "P", 20_000), // far before window_end, excluded
	}
	results := detectClusters(txs)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].NumBuyers != 2 {
		t.Errorf("expected 2 buyers within 30-day window, got %d", results[0].NumBuyers)
	}
}

type fakeTxSource struct {
	txs    []ClusterTransaction
	maCIKs map[string]bool
}

func (f fakeTxSource) TransactionsSince(ctx context.Context, since time.Time) ([]ClusterTransaction, error) {
	return f.txs, nil
}

func (f fakeTxSource) MASignalCIKsSince(ctx context.Context, since time.Time) (map[string]bool, error) {
	return f.maCIKs, nil
}

func TestDetectClustersExcluding8KFiltersMASignalCIKs(t *testing.T) {
	source := fakeTxSource{
		txs: []ClusterTransaction{
			tx("1", "A", "2026-06-01", "P", 100_000),
			tx("2", "B", "2026-06-01", "P", 100_000),
		},
		maCIKs: map[string]bool{"1": true},
	}
	engine := NewEngine(source)

	results, err := engine.DetectClustersExcluding8K(context.Background(), 90, day("2026-01-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.CompanyCIK == "1" {
			t.Error("expected CIK with M&A signal event to be excluded")
		}
	}
	if len(results) != 1 || results[0].CompanyCIK != "2" {
		t.Fatalf("expected only CIK 2 to remain, got %+v", results)
	}
}
