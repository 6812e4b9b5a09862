package entityloader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const maxEventRawTextChars = 1000

// EventInput is the subset of extract.EventRecord needed to load an
// Event node, kept local so entityloader does not import extract.
type EventInput struct {
	AccessionNumber  string
	ItemNumber       string
	ItemName         string
	IsMASignal       bool
	FilingDate       time.Time
	PersonsMentioned []string
	RawText          string
}

// EnsureEvent MERGEs an Event node by its (accession_number, item_number)
// natural key, per spec.md §3.3.2's "exactly one Event per pair"
// invariant, and creates the FILED_EVENT edge from the filing company.
func (l *Loader) EnsureEvent(ctx context.Context, companyID uuid.UUID, companyCIK string, in EventInput) (uuid.UUID, error) {
	rawText := in.RawText
	if len(rawText) > maxEventRawTextChars {
		rawText = rawText[:maxEventRawTextChars]
	}

	cypher := `
MATCH (co:Company {id: $companyId})
MERGE (e:Event {accession_number: $accession, item_number: $itemNumber})
ON CREATE SET e.id = $newId, e.filing_date = $filingDate, e.item_name = $itemName,
              e.is_ma_signal = $isMaSignal, e.persons_mentioned = $personsMentioned,
              e.raw_text = $rawText, e.company_id = $companyId, e.company_cik = $companyCik
MERGE (co)-[:FILED_EVENT]->(e)
RETURN e.id AS id`

	rows, err := l.store.ExecuteWriteQuery(ctx, cypher, map[string]any{
		"newId":            uuid.New().String(),
		"companyId":        companyID.String(),
		"companyCik":       companyCIK,
		"accession":        in.AccessionNumber,
		"itemNumber":       in.ItemNumber,
		"filingDate":       in.FilingDate.Format(time.RFC3339),
		"itemName":         in.ItemName,
		"isMaSignal":       in.IsMASignal,
		"personsMentioned": in.PersonsMentioned,
		"rawText":          rawText,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("entityloader: EnsureEvent: %w", err)
	}
	return idFromRows(rows)
}

// InsiderTransactionInput is the subset of extract.Form4Record needed to
// load an InsiderTransaction node.
type InsiderTransactionInput struct {
	AccessionNumber        string
	Index                  int
	CompanyCIK             string
	InsiderName            string
	InsiderTitle           string
	TransactionDate        time.Time
	TransactionCode        string
	TransactionType        string
	SecurityTitle          string
	Shares                 float64
	PricePerShare          float64
	TotalValue             float64
	SharesAfterTransaction float64
	OwnershipType          string
	IsDerivative           bool
}

func (in InsiderTransactionInput) naturalKey() string {
	return fmt.Sprintf("%s_%d", in.AccessionNumber, in.Index)
}

// EnsureInsiderTransaction MERGEs an InsiderTransaction node by its
// "{accession_number}_{index}" natural key (immutable once loaded, per
// spec.md §3.3's node catalog), and creates the INSIDER_TRADE_OF and
// TRADED_BY edges to the issuer company and insider person.
func (l *Loader) EnsureInsiderTransaction(ctx context.Context, companyID, personID uuid.UUID, in InsiderTransactionInput) (uuid.UUID, error) {
	cypher := `
MATCH (co:Company {id: $companyId})
MERGE (t:InsiderTransaction {natural_key: $naturalKey})
ON CREATE SET t.id = $newId, t.accession_number = $accession, t.index = $index,
              t.company_cik = $companyCik, t.transaction_date = $transactionDate,
              t.transaction_code = $code, t.transaction_type = $type,
              t.security_title = $securityTitle, t.shares = $shares,
              t.price_per_share = $pricePerShare, t.total_value = $totalValue,
              t.shares_after_transaction = $sharesAfter, t.ownership_type = $ownershipType,
              t.is_derivative = $isDerivative, t.insider_name = $insiderName,
              t.insider_title = $insiderTitle
MERGE (co)-[:INSIDER_TRADE_OF]->(t)
WITH t
MATCH (p:Person {id: $personId})
MERGE (p)-[:TRADED_BY]->(t)
RETURN t.id AS id`

	rows, err := l.store.ExecuteWriteQuery(ctx, cypher, map[string]any{
		"newId":           uuid.New().String(),
		"companyId":       companyID.String(),
		"personId":        personID.String(),
		"naturalKey":      in.naturalKey(),
		"accession":       in.AccessionNumber,
		"index":           in.Index,
		"companyCik":      in.CompanyCIK,
		"transactionDate": in.TransactionDate.Format(time.RFC3339),
		"code":            in.TransactionCode,
		"type":            in.TransactionType,
		"securityTitle":   in.SecurityTitle,
		"shares":          in.Shares,
		"pricePerShare":   in.PricePerShare,
		"totalValue":      in.TotalValue,
		"sharesAfter":     in.SharesAfterTransaction,
		"ownershipType":   in.OwnershipType,
		"isDerivative":    in.IsDerivative,
		"insiderName":     in.InsiderName,
		"insiderTitle":    in.InsiderTitle,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("entityloader: EnsureInsiderTransaction: %w", err)
	}
	return idFromRows(rows)
}
