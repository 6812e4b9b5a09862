package accuracy

import (
	"context"
	"testing"
	"time"
)

func d(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

type fakePrices struct {
	closes []PriceClose
}

func (f fakePrices) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]PriceClose, error) {
	return f.closes, nil
}

type fakeEvents struct {
	followed bool
}

func (f fakeEvents) HasEightKSince(ctx context.Context, cik string, since time.Time) (bool, error) {
	return f.followed, nil
}

func TestScoreSignalHitOn8KFollowUp(t *testing.T) {
	engine := New(fakePrices{closes: []PriceClose{{Date: d("2026-01-01"), Close: 100}}}, fakeEvents{followed: true})
	sig := PastSignal{CompanyCIK: "1", Ticker: "ACME", Level: "high", WindowEnd: d("2026-01-01"), SignalAge: 40 * 24 * time.Hour}

	scored, err := engine.scoreSignal(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored.Verdict != VerdictHit {
		t.Errorf("expected hit due to 8-K follow-up, got %q", scored.Verdict)
	}
}

func TestScoreSignalHitOnReturnThreshold(t *testing.T) {
	closes := []PriceClose{
		{Date: d("2026-01-01"), Close: 100},
		{Date: d("2026-01-31"), Close: 115},
	}
	engine := New(fakePrices{closes: closes}, fakeEvents{followed: false})
	sig := PastSignal{CompanyCIK: "1", Ticker: "ACME", Level: "high", WindowEnd: d("2026-01-01"), SignalAge: 120 * 24 * time.Hour}

	scored, err := engine.scoreSignal(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored.Verdict != VerdictHit {
		t.Errorf("expected hit from >=10%% return, got %q (%+v)", scored.Verdict, scored)
	}
}

func TestScoreSignalMissOnNegativeReturn(t *testing.T) {
	closes := []PriceClose{
		{Date: d("2026-01-01"), Close: 100},
		{Date: d("2026-01-31"), Close: 80},
	}
	engine := New(fakePrices{closes: closes}, fakeEvents{followed: false})
	sig := PastSignal{CompanyCIK: "1", Ticker: "ACME", Level: "high", WindowEnd: d("2026-01-01"), SignalAge: 120 * 24 * time.Hour}

	scored, err := engine.scoreSignal(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored.Verdict != VerdictMiss {
		t.Errorf("expected miss from negative return, got %q", scored.Verdict)
	}
}

func TestScoreSignalNoDataWithoutCloses(t *testing.T) {
	engine := New(fakePrices{closes: nil}, fakeEvents{followed: false})
	sig := PastSignal{CompanyCIK: "1", Ticker: "ACME", Level: "high", WindowEnd: d("2026-01-01"), SignalAge: 40 * 24 * time.Hour}

	scored, err := engine.scoreSignal(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored.Verdict != VerdictNoData {
		t.Errorf("expected no_data with zero closes, got %q", scored.Verdict)
	}
}

func TestGetAccuracyCachesResult(t *testing.T) {
	closes := []PriceClose{{Date: d("2026-01-01"), Close: 100}}
	engine := New(fakePrices{closes: closes}, fakeEvents{followed: true})
	signals := []PastSignal{{CompanyCIK: "1", Ticker: "ACME", Level: "high", WindowEnd: d("2026-01-01"), SignalAge: 40 * 24 * time.Hour}}

	first, err := engine.GetAccuracy(context.Background(), signals, 90, 30, "medium")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || first[0].HitRate != 1.0 {
		t.Fatalf("expected single high-level aggregate with hit_rate 1.0, got %+v", first)
	}

	cached, ok := engine.cache.get(cacheKey{lookbackDays: 90, minAgeDays: 30, minLevel: "medium"})
	if !ok {
		t.Fatal("expected result to be cached")
	}
	if len(cached) != len(first) {
		t.Errorf("expected cached result to match computed result")
	}
}

func TestGetAccuracyExcludesSignalsYoungerThanMinAge(t *testing.T) {
	engine := New(fakePrices{}, fakeEvents{})
	signals := []PastSignal{{CompanyCIK: "1", Level: "high", SignalAge: 5 * 24 * time.Hour}}

	aggregates, err := engine.GetAccuracy(context.Background(), signals, 90, 30, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aggregates) != 0 {
		t.Errorf("expected no aggregates for a too-young signal, got %+v", aggregates)
	}
}
