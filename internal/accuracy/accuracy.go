// Package accuracy implements the AccuracyEngine of spec.md §4.14:
// retroactive scoring of past cluster signals against subsequent 8-K
// events and price moves, aggregated by level and cached for 4 hours.
package accuracy

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	defaultMinSignalAgeDays = 30
	cacheTTL                = 4 * time.Hour
	hitReturnThreshold      = 10.0
	priceToleranceDays      = 7
)

// Verdict is the outcome of scoring a single past cluster signal, per
// spec.md §4.14 step 4.
type Verdict string

const (
	VerdictHit        Verdict = "hit"
	VerdictPartialHit Verdict = "partial_hit"
	VerdictMiss       Verdict = "miss"
	VerdictPending    Verdict = "pending"
	VerdictNoData     Verdict = "no_data"
)

// PastSignal is one historical cluster signal to be retroactively scored.
type PastSignal struct {
	CompanyCIK string
	Ticker     string
	Level      string
	WindowEnd  time.Time
	SignalAge  time.Duration
}

// PriceClose is a single daily close from PriceProvider.
type PriceClose struct {
	Date  time.Time
	Close float64
}

// PriceProvider supplies daily closes for a ticker, per spec.md §4.14
// step 2.
type PriceProvider interface {
	DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]PriceClose, error)
}

// EventSource reports whether an 8-K event followed a past signal for
// the given CIK after windowEnd, per spec.md §4.14 step 1.
type EventSource interface {
	HasEightKSince(ctx context.Context, cik string, since time.Time) (bool, error)
}

// ScoredSignal is a single past signal's scoring result.
type ScoredSignal struct {
	Signal         PastSignal
	FollowedBy8K   bool
	Return30d      float64
	Return60d      float64
	Return90d      float64
	BestReturn     float64
	Verdict        Verdict
}

// LevelAggregate summarizes scoring outcomes for one signal level, per
// spec.md §4.14 step 5.
type LevelAggregate struct {
	Level          string
	Count          int
	HitRate        float64
	AvgReturn30d   float64
	AvgReturn60d   float64
	AvgReturn90d   float64
	EightKFollowRate float64
}

// Engine scores past signals and caches aggregate results.
type Engine struct {
	prices PriceProvider
	events EventSource
	cache  *resultCache
}

// New returns an accuracy Engine backed by prices/events.
func New(prices PriceProvider, events EventSource) *Engine {
	return &Engine{prices: prices, events: events, cache: newResultCache(cacheTTL)}
}

// cacheKey identifies one GetAccuracy call for the 4-hour TTL cache of
// spec.md §4.14 step 6.
type cacheKey struct {
	lookbackDays int
	minAgeDays   int
	minLevel     string
}

// resultCache is the in-memory key -> (timestamp, value) cache, grounded
// on the teacher's sentimentCache (internal/news/service.go).
type resultCache struct {
	mu   sync.RWMutex
	data map[cacheKey]cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	value     []LevelAggregate
	timestamp time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{data: map[cacheKey]cacheEntry{}, ttl: ttl}
}

func (c *resultCache) get(key cacheKey) ([]LevelAggregate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *resultCache) set(key cacheKey, value []LevelAggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheEntry{value: value, timestamp: time.Now()}
}

// GetAccuracy scores every past signal older than minAgeDays (default 30)
// at or above minLevel, within lookbackDays, and aggregates by level.
// Results are cached for 4 hours keyed by (lookback, min_age, min_level).
func (e *Engine) GetAccuracy(ctx context.Context, signals []PastSignal, lookbackDays, minAgeDays int, minLevel string) ([]LevelAggregate, error) {
	if minAgeDays <= 0 {
		minAgeDays = defaultMinSignalAgeDays
	}
	key := cacheKey{lookbackDays: lookbackDays, minAgeDays: minAgeDays, minLevel: minLevel}
	if cached, ok := e.cache.get(key); ok {
		return cached, nil
	}

	levelRank := map[string]int{"low": 1, "medium": 2, "high": 3}
	var scored []ScoredSignal
	for _, sig := range signals {
		if sig.SignalAge < time.Duration(minAgeDays)*24*time.Hour {
			continue
		}
		if lookbackDays > 0 && sig.SignalAge > time.Duration(lookbackDays)*24*time.Hour {
			continue
		}
		if minLevel != "" && levelRank[sig.Level] < levelRank[minLevel] {
			continue
		}
		result, err := e.scoreSignal(ctx, sig)
		if err != nil {
			return nil, err
		}
		scored = append(scored, result)
	}

	aggregates := aggregateByLevel(scored)
	e.cache.set(key, aggregates)
	return aggregates, nil
}

func (e *Engine) scoreSignal(ctx context.Context, sig PastSignal) (ScoredSignal, error) {
	followedBy8K, err := e.events.HasEightKSince(ctx, sig.CompanyCIK, sig.WindowEnd)
	if err != nil {
		return ScoredSignal{}, fmt.Errorf("accuracy: HasEightKSince: %w", err)
	}

	closes, err := e.prices.DailyCloses(ctx, sig.Ticker, sig.WindowEnd.AddDate(0, 0, -priceToleranceDays), sig.WindowEnd.AddDate(0, 0, 90+priceToleranceDays))
	if err != nil {
		return ScoredSignal{}, fmt.Errorf("accuracy: DailyCloses: %w", err)
	}
	noPriceVerdict := VerdictNoData
	if followedBy8K {
		noPriceVerdict = VerdictHit
	}
	if len(closes) == 0 {
		return ScoredSignal{Signal: sig, FollowedBy8K: followedBy8K, Verdict: noPriceVerdict}, nil
	}

	baseClose, ok := closestClose(closes, sig.WindowEnd)
	if !ok {
		return ScoredSignal{Signal: sig, FollowedBy8K: followedBy8K, Verdict: noPriceVerdict}, nil
	}

	ret30, ok30 := percentChangeNear(closes, sig.WindowEnd.AddDate(0, 0, 30), baseClose.Close)
	ret60, ok60 := percentChangeNear(closes, sig.WindowEnd.AddDate(0, 0, 60), baseClose.Close)
	ret90, ok90 := percentChangeNear(closes, sig.WindowEnd.AddDate(0, 0, 90), baseClose.Close)

	if !ok30 && !ok60 && !ok90 {
		if !followedBy8K && sig.SignalAge < 90*24*time.Hour {
			return ScoredSignal{Signal: sig, FollowedBy8K: followedBy8K, Verdict: VerdictPending}, nil
		}
		return ScoredSignal{Signal: sig, FollowedBy8K: followedBy8K, Verdict: noPriceVerdict}, nil
	}

	best := bestOf(ret30, ok30, ret60, ok60, ret90, ok90)

	verdict := VerdictMiss
	switch {
	case followedBy8K || best >= hitReturnThreshold:
		verdict = VerdictHit
	case best >= 0:
		verdict = VerdictPartialHit
	}

	return ScoredSignal{
		Signal:       sig,
		FollowedBy8K: followedBy8K,
		Return30d:    ret30,
		Return60d:    ret60,
		Return90d:    ret90,
		BestReturn:   best,
		Verdict:      verdict,
	}, nil
}

func closestClose(closes []PriceClose, target time.Time) (PriceClose, bool) {
	var best PriceClose
	bestDiff := time.Duration(1<<63 - 1)
	found := false
	for _, c := range closes {
		diff := absDuration(c.Date.Sub(target))
		if diff < bestDiff {
			bestDiff = diff
			best = c
			found = true
		}
	}
	if !found || bestDiff > priceToleranceDays*24*time.Hour {
		return PriceClose{}, false
	}
	return best, true
}

func percentChangeNear(closes []PriceClose, target time.Time, baseClose float64) (float64, bool) {
	c, ok := closestClose(closes, target)
	if !ok || baseClose == 0 {
		return 0, false
	}
	return (c.Close - baseClose) / baseClose * 100, true
}

func bestOf(r30 float64, ok30 bool, r60 float64, ok60 bool, r90 float64, ok90 bool) float64 {
	best := 0.0
	found := false
	consider := func(v float64, ok bool) {
		if !ok {
			return
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	consider(r30, ok30)
	consider(r60, ok60)
	consider(r90, ok90)
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func aggregateByLevel(scored []ScoredSignal) []LevelAggregate {
	byLevel := map[string][]ScoredSignal{}
	var order []string
	for _, s := range scored {
		if _, ok := byLevel[s.Signal.Level]; !ok {
			order = append(order, s.Signal.Level)
		}
		byLevel[s.Signal.Level] = append(byLevel[s.Signal.Level], s)
	}

	aggregates := make([]LevelAggregate, 0, len(order))
	for _, level := range order {
		group := byLevel[level]
		agg := LevelAggregate{Level: level, Count: len(group)}
		var hits, eightKs int
		var sum30, sum60, sum90 float64
		for _, s := range group {
			if s.Verdict == VerdictHit {
				hits++
			}
			if s.FollowedBy8K {
				eightKs++
			}
			sum30 += s.Return30d
			sum60 += s.Return60d
			sum90 += s.Return90d
		}
		n := float64(len(group))
		agg.HitRate = float64(hits) / n
		agg.EightKFollowRate = float64(eightKs) / n
		agg.AvgReturn30d = sum30 / n
		agg.AvgReturn60d = sum60 / n
		agg.AvgReturn90d = sum90 / n
		aggregates = append(aggregates, agg)
	}
	return aggregates
}
