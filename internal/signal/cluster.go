package signal

import (
	"context"
	"fmt"
	"time"
)

// ClusterLevel is the severity bucket InsiderClusterEngine assigns, per
// spec.md §4.9 step 6.
type ClusterLevel string

const (
	ClusterNone   ClusterLevel = "none"
	ClusterLow    ClusterLevel = "low"
	ClusterMedium ClusterLevel = "medium"
	ClusterHigh   ClusterLevel = "high"
)

const (
	clusterWindowDays        = 30
	clusterMediumBuyValue    = 500_000.0
	defaultClusterLookbackDays = 90
)

// ClusterTransaction is the subset of InsiderTransaction fields the
// cluster engine needs.
type ClusterTransaction struct {
	CompanyCIK      string
	InsiderName     string
	TransactionDate time.Time
	Code            string
	TotalValue      float64
}

// BuyerAggregate summarizes one buyer's activity within the 30-day
// cluster window.
type BuyerAggregate struct {
	InsiderName string
	TotalValue  float64
	TradeCount  int
}

// ClusterResult is a single CIK's insider-cluster verdict.
type ClusterResult struct {
	CompanyCIK    string
	Level         ClusterLevel
	NumBuyers     int
	TotalBuyValue float64
	WindowStart   time.Time
	WindowEnd     time.Time
	Buyers        []BuyerAggregate
}

// TransactionSource supplies the raw P/M transactions and M&A-signal
// event dates the cluster engine needs, decoupling it from a live graph
// store for testing.
type TransactionSource interface {
	TransactionsSince(ctx context.Context, since time.Time) ([]ClusterTransaction, error)
	MASignalCIKsSince(ctx context.Context, since time.Time) (map[string]bool, error)
}

// Engine runs insider-cluster detection over a TransactionSource.
type Engine struct {
	source TransactionSource
}

// NewEngine returns a cluster Engine backed by source.
func NewEngine(source TransactionSource) *Engine {
	return &Engine{source: source}
}

// DetectClusters implements spec.md §4.9's 6-step cluster algorithm over
// a lookback of days (0 defaults to 90).
func (e *Engine) DetectClusters(ctx context.Context, days int) ([]ClusterResult, error) {
	if days <= 0 {
		days = defaultClusterLookbackDays
	}
	since := windowSince(days)

	txs, err := e.source.TransactionsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("signal: cluster TransactionsSince: %w", err)
	}

	return detectClusters(txs), nil
}

// DetectClustersExcluding8K additionally filters out CIKs carrying an
// is_ma_signal Event since sinceDate, per spec.md §4.9 step 7.
func (e *Engine) DetectClustersExcluding8K(ctx context.Context, days int, sinceDate time.Time) ([]ClusterResult, error) {
	results, err := e.DetectClusters(ctx, days)
	if err != nil {
		return nil, err
	}

	maCIKs, err := e.source.MASignalCIKsSince(ctx, sinceDate)
	if err != nil {
		return nil, fmt.Errorf("signal: cluster MASignalCIKsSince: %w", err)
	}

	filtered := make([]ClusterResult, 0, len(results))
	for _, r := range results {
		if maCIKs[r.CompanyCIK] {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func windowSince(days int) time.Time {
	return time.Now().AddDate(0, 0, -days)
}

// detectClusters runs steps 2-6 of spec.md §4.9 over an already-fetched
// P/M transaction set (step 1's fetch is the caller's TransactionSource
// call).
func detectClusters(txs []ClusterTransaction) []ClusterResult {
	byCIK := map[string][]ClusterTransaction{}
	for _, tx := range txs {
		byCIK[tx.CompanyCIK] = append(byCIK[tx.CompanyCIK], tx)
	}

	results := make([]ClusterResult, 0, len(byCIK))
	for cik, group := range byCIK {
		result := detectClusterForCompany(cik, group)
		if result != nil {
			results = append(results, *result)
		}
	}
	return results
}

func detectClusterForCompany(cik string, group []ClusterTransaction) *ClusterResult {
	trades := make([]Trade, len(group))
	for i, tx := range group {
		trades[i] = Trade{InsiderName: tx.InsiderName, TransactionDate: tx.TransactionDate, Code: tx.Code}
	}
	types := ClassifyAll(trades)

	// Step 3: keep only bullish trades with total_value > 0.
	type bullishTx struct {
		ClusterTransaction
	}
	var bullish []bullishTx
	var maxDate time.Time
	for i, tx := range group {
		if !IsBullish(types[i]) || tx.TotalValue <= 0 {
			continue
		}
		bullish = append(bullish, bullishTx{tx})
		if tx.TransactionDate.After(maxDate) {
			maxDate = tx.TransactionDate
		}
	}
	if len(bullish) == 0 {
		return nil
	}

	// Step 4
	windowEnd := maxDate
	windowStart := windowEnd.AddDate(0, 0, -clusterWindowDays)

	// Step 5
	aggByBuyer := map[string]*BuyerAggregate{}
	var order []string
	for _, b := range bullish {
		if b.TransactionDate.Before(windowStart) || b.TransactionDate.After(windowEnd) {
			continue
		}
		agg, ok := aggByBuyer[b.InsiderName]
		if !ok {
			agg = &BuyerAggregate{InsiderName: b.InsiderName}
			aggByBuyer[b.InsiderName] = agg
			order = append(order, b.InsiderName)
		}
		agg.TotalValue += b.TotalValue
		agg.TradeCount++
	}

	if len(order) == 0 {
		return nil
	}

	buyers := make([]BuyerAggregate, 0, len(order))
	var totalBuyValue float64
	for _, name := range order {
		buyers = append(buyers, *aggByBuyer[name])
		totalBuyValue += aggByBuyer[name].TotalValue
	}

	numBuyers := len(buyers)

	// Step 6
	var level ClusterLevel
	switch {
	case numBuyers >= 3:
		level = ClusterHigh
	case numBuyers >= 2 || totalBuyValue >= clusterMediumBuyValue:
		level = ClusterMedium
	default:
		level = ClusterLow
	}

	return &ClusterResult{
		CompanyCIK:    cik,
		Level:         level,
		NumBuyers:     numBuyers,
		TotalBuyValue: totalBuyValue,
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
		Buyers:        buyers,
	}
}
