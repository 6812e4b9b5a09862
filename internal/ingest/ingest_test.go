package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/edgarintel/pipeline/internal/scheduler"
	"github.com/edgarintel/pipeline/internal/signal"
)

type fakeSICLookup struct {
	value string
	err   error
	calls int
}

func (f *fakeSICLookup) SICForCIK(ctx context.Context, cik string) (string, error) {
	f.calls++
	return f.value, f.err
}

func TestGraphThenEDGARSICPrefersGraph(t *testing.T) {
	graph := &fakeSICLookup{value: "7372"}
	edgar := &fakeSICLookup{value: "9999"}
	lookup := &GraphThenEDGARSIC{Graph: graph, EDGAR: edgar}

	sic, err := lookup.SICForCIK(context.Background(), "0000320193")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sic != "7372" {
		t.Errorf("expected graph's SIC, got %q", sic)
	}
	if edgar.calls != 0 {
		t.Errorf("expected EDGAR fallback not to be called when graph has an answer")
	}
}

func TestGraphThenEDGARSICFallsBackWhenGraphEmpty(t *testing.T) {
	graph := &fakeSICLookup{value: ""}
	edgar := &fakeSICLookup{value: "6211"}
	lookup := &GraphThenEDGARSIC{Graph: graph, EDGAR: edgar}

	sic, err := lookup.SICForCIK(context.Background(), "0000320193")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sic != "6211" {
		t.Errorf("expected EDGAR fallback's SIC, got %q", sic)
	}
	if edgar.calls != 1 {
		t.Errorf("expected EDGAR fallback to be called exactly once, got %d", edgar.calls)
	}
}

type fakeTransactionSource struct {
	txs []signal.ClusterTransaction
}

func (f fakeTransactionSource) TransactionsSince(ctx context.Context, since time.Time) ([]signal.ClusterTransaction, error) {
	return f.txs, nil
}

func (f fakeTransactionSource) MASignalCIKsSince(ctx context.Context, since time.Time) (map[string]bool, error) {
	return nil, nil
}

func TestClusterAdapterTranslatesResults(t *testing.T) {
	now := time.Now()
	source := fakeTransactionSource{txs: []signal.ClusterTransaction{
		{CompanyCIK: "1", InsiderName: "A", TransactionDate: now, Code: "P", TotalValue: 100_000},
		{CompanyCIK: "1", InsiderName: "B", TransactionDate: now, Code: "P", TotalValue: 100_000},
		{CompanyCIK: "1", InsiderName: "C", TransactionDate: now, Code: "P", TotalValue: 100_000},
	}}
	adapter := NewClusterAdapter(signal.NewEngine(source))

	hits, err := adapter.DetectClusters(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 cluster hit, got %d", len(hits))
	}
	if hits[0] != (scheduler.ClusterHit{CompanyCIK: "1", Level: "high"}) {
		t.Errorf("expected high-level cluster hit for CIK 1, got %+v", hits[0])
	}
}
