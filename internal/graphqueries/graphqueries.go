// Package graphqueries implements the read-side queries that glue the
// graph store to the signal and scheduler packages: the feed's event and
// insider-trade sources, the cluster engine's transaction source, and
// the Form 4 scanner's SIC/existing-transaction/company-universe checks.
// None of these are MERGE writers (entityloader/alertstore own those);
// this package only ever runs Store.ExecuteQuery.
package graphqueries

import (
	"context"
	"fmt"
	"time"

	"github.com/edgarintel/pipeline/internal/graphmodel"
	"github.com/edgarintel/pipeline/internal/graphstore"
	"github.com/edgarintel/pipeline/internal/scheduler"
	"github.com/edgarintel/pipeline/internal/signal"
)

// Reader answers every read query the feed, cluster engine and scheduler
// need against the graph.
type Reader struct {
	store *graphstore.Store
}

// New returns a Reader backed by store.
func New(store *graphstore.Store) *Reader {
	return &Reader{store: store}
}

// MASignalEventsSince implements signal.EventSource: every is_ma_signal
// Event filed within the last days, grouped back into one FeedEvent per
// accession_number (EnsureEvent stores one node per item_number).
func (r *Reader) MASignalEventsSince(ctx context.Context, days int, cikFilter string) ([]signal.FeedEvent, error) {
	since := time.Now().AddDate(0, 0, -days)

	cypher := `
MATCH (co:Company)-[:FILED_EVENT]->(e:Event)
WHERE e.is_ma_signal = true AND e.filing_date >= $since
  AND ($cikFilter = '' OR e.company_cik = $cikFilter)
RETURN e.accession_number AS accession, e.company_cik AS cik,
       max(e.filing_date) AS filingDate,
       collect(DISTINCT e.item_number) AS items,
       collect(DISTINCT e.raw_text)[0] AS rawText,
       collect(e.persons_mentioned) AS personsMentioned
ORDER BY filingDate DESC`

	rows, err := r.store.ExecuteQuery(ctx, cypher, map[string]any{
		"since":     since.Format(time.RFC3339),
		"cikFilter": cikFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("graphqueries: MASignalEventsSince: %w", err)
	}

	out := make([]signal.FeedEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, signal.FeedEvent{
			CompanyCIK:       stringOr(row, "cik"),
			AccessionNumber:  stringOr(row, "accession"),
			FilingDate:       timeOr(row, "filingDate"),
			ItemNumbers:      stringsOr(row, "items"),
			RawText:          stringOr(row, "rawText"),
			PersonsMentioned: flattenPersons(row["personsMentioned"]),
		})
	}
	return out, nil
}

// InsiderTradesForCIK implements signal.InsiderTradeSource.
func (r *Reader) InsiderTradesForCIK(ctx context.Context, cik string) ([]signal.InsiderTrade, error) {
	cypher := `
MATCH (t:InsiderTransaction {company_cik: $cik})
RETURN t.insider_name AS insiderName, t.insider_title AS insiderTitle,
       t.transaction_date AS transactionDate, t.transaction_code AS code,
       t.transaction_type AS transactionType, t.total_value AS totalValue`

	rows, err := r.store.ExecuteQuery(ctx, cypher, map[string]any{"cik": graphmodel.NormalizeCIK(cik)})
	if err != nil {
		return nil, fmt.Errorf("graphqueries: InsiderTradesForCIK: %w", err)
	}

	out := make([]signal.InsiderTrade, 0, len(rows))
	for _, row := range rows {
		out = append(out, signal.InsiderTrade{
			InsiderName:     stringOr(row, "insiderName"),
			InsiderTitle:    stringOr(row, "insiderTitle"),
			TransactionDate: timeOr(row, "transactionDate"),
			Code:            stringOr(row, "code"),
			TransactionType: stringOr(row, "transactionType"),
			TotalValue:      floatOr(row, "totalValue"),
		})
	}
	return out, nil
}

// TransactionsSince implements signal.TransactionSource for the cluster
// engine: every P/M transaction filed since the given time.
func (r *Reader) TransactionsSince(ctx context.Context, since time.Time) ([]signal.ClusterTransaction, error) {
	cypher := `
MATCH (t:InsiderTransaction)
WHERE t.transaction_date >= $since AND t.transaction_code IN ['P', 'M']
RETURN t.company_cik AS cik, t.insider_name AS insiderName,
       t.transaction_date AS transactionDate, t.transaction_code AS code,
       t.total_value AS totalValue`

	rows, err := r.store.ExecuteQuery(ctx, cypher, map[string]any{"since": since.Format(time.RFC3339)})
	if err != nil {
		return nil, fmt.Errorf("graphqueries: TransactionsSince: %w", err)
	}

	out := make([]signal.ClusterTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, signal.ClusterTransaction{
			CompanyCIK:      stringOr(row, "cik"),
			InsiderName:     stringOr(row, "insiderName"),
			TransactionDate: timeOr(row, "transactionDate"),
			Code:            stringOr(row, "code"),
			TotalValue:      floatOr(row, "totalValue"),
		})
	}
	return out, nil
}

// MASignalCIKsSince implements the other half of signal.TransactionSource.
func (r *Reader) MASignalCIKsSince(ctx context.Context, since time.Time) (map[string]bool, error) {
	cypher := `
MATCH (e:Event)
WHERE e.is_ma_signal = true AND e.filing_date >= $since
RETURN DISTINCT e.company_cik AS cik`

	rows, err := r.store.ExecuteQuery(ctx, cypher, map[string]any{"since": since.Format(time.RFC3339)})
	if err != nil {
		return nil, fmt.Errorf("graphqueries: MASignalCIKsSince: %w", err)
	}

	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		out[stringOr(row, "cik")] = true
	}
	return out, nil
}

// SICForCIK implements scheduler.SICLookup: consult the graph first, per
// spec.md §4.15 step 4, and report "" (not an error) when unknown so the
// caller can fall back to EDGAR.
func (r *Reader) SICForCIK(ctx context.Context, cik string) (string, error) {
	cypher := `MATCH (c:Company {cik: $cik}) RETURN c.sic AS sic`
	rows, err := r.store.ExecuteQuery(ctx, cypher, map[string]any{"cik": graphmodel.NormalizeCIK(cik)})
	if err != nil {
		return "", fmt.Errorf("graphqueries: SICForCIK: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return stringOr(rows[0], "sic"), nil
}

// HasTransactionsSince implements scheduler.ExistingTransactionsChecker.
func (r *Reader) HasTransactionsSince(ctx context.Context, cik string, checkpoint time.Time) (bool, error) {
	cypher := `
MATCH (t:InsiderTransaction {company_cik: $cik})
WHERE t.transaction_date >= $checkpoint
RETURN count(t) AS n`
	rows, err := r.store.ExecuteQuery(ctx, cypher, map[string]any{
		"cik":        graphmodel.NormalizeCIK(cik),
		"checkpoint": checkpoint.Format(time.RFC3339),
	})
	if err != nil {
		return false, fmt.Errorf("graphqueries: HasTransactionsSince: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	return intOr(rows[0], "n") > 0, nil
}

// LargePurchasesToday implements scheduler.LargePurchaseFinder: the
// same-day sum of P transactions per CIK, filtered to minValue.
func (r *Reader) LargePurchasesToday(ctx context.Context, ciks []string, minValue float64) ([]scheduler.LargePurchase, error) {
	if len(ciks) == 0 {
		return nil, nil
	}
	today := time.Now().Format("2006-01-02")

	cypher := `
MATCH (t:InsiderTransaction)
WHERE t.company_cik IN $ciks AND t.transaction_code = 'P'
  AND left(t.transaction_date, 10) = $today
WITH t.company_cik AS cik, sum(t.total_value) AS total
WHERE total >= $minValue
RETURN cik, total`

	rows, err := r.store.ExecuteQuery(ctx, cypher, map[string]any{
		"ciks":     ciks,
		"today":    today,
		"minValue": minValue,
	})
	if err != nil {
		return nil, fmt.Errorf("graphqueries: LargePurchasesToday: %w", err)
	}

	out := make([]scheduler.LargePurchase, 0, len(rows))
	for _, row := range rows {
		out = append(out, scheduler.LargePurchase{CompanyCIK: stringOr(row, "cik"), TotalValue: floatOr(row, "total")})
	}
	return out, nil
}

// AllCompanyCIKs implements scheduler.CompanyUniverse, supplying the
// market scan's company set from every Company node on file.
func (r *Reader) AllCompanyCIKs(ctx context.Context) ([]string, error) {
	rows, err := r.store.ExecuteQuery(ctx, `MATCH (c:Company) WHERE c.cik IS NOT NULL RETURN c.cik AS cik`, nil)
	if err != nil {
		return nil, fmt.Errorf("graphqueries: AllCompanyCIKs: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, stringOr(row, "cik"))
	}
	return out, nil
}

func stringOr(row graphstore.Row, key string) string {
	s, _ := row[key].(string)
	return s
}

func stringsOr(row graphstore.Row, key string) []string {
	raw, ok := row[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func flattenPersons(raw any) []string {
	outer, ok := raw.([]any)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, v := range outer {
		inner, ok := v.([]any)
		if !ok {
			continue
		}
		for _, p := range inner {
			if s, ok := p.(string); ok && s != "" && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func floatOr(row graphstore.Row, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func intOr(row graphstore.Row, key string) int {
	switch v := row[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func timeOr(row graphstore.Row, key string) time.Time {
	s, ok := row[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
