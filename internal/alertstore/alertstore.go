// Package alertstore creates and deduplicates Alert nodes. Alert creation
// is idempotent on spec.md §3.1's daily dedup key
// "{cik}_{alert_type}_{YYYY-MM-DD}", so a scanner can be replayed safely.
package alertstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edgarintel/pipeline/internal/graphmodel"
	"github.com/edgarintel/pipeline/internal/graphstore"
)

// Store writes Alert nodes through a graphstore.Store.
type Store struct {
	store *graphstore.Store
}

// New returns an alertstore Store backed by store.
func New(store *graphstore.Store) *Store {
	return &Store{store: store}
}

// CreateAlert MERGEs an Alert by its daily dedup key, so creating the
// same alert twice on the same day is a no-op.
func (s *Store) CreateAlert(ctx context.Context, alertType, cik, companyName, ticker, title, description, severity string, day time.Time) (uuid.UUID, error) {
	dedupKey := graphmodel.DedupKey(cik, alertType, day)

	cypher := `
MERGE (a:Alert {dedup_key: $dedupKey})
ON CREATE SET a.id = $newId, a.alert_type = $alertType, a.company_cik = $cik,
              a.company_name = $companyName, a.ticker = $ticker, a.title = $title,
              a.description = $description, a.severity = $severity,
              a.created_at = datetime(), a.acknowledged = false
WITH a
MATCH (c:Company {cik: $cik})
MERGE (a)-[:ALERT_FOR]->(c)
RETURN a.id AS id`

	rows, err := s.store.ExecuteWriteQuery(ctx, cypher, map[string]any{
		"dedupKey":    dedupKey,
		"newId":       uuid.New().String(),
		"alertType":   alertType,
		"cik":         cik,
		"companyName": companyName,
		"ticker":      ticker,
		"title":       title,
		"description": description,
		"severity":    severity,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("alertstore: CreateAlert: %w", err)
	}
	return idFromRows(rows)
}

func idFromRows(rows []graphstore.Row) (uuid.UUID, error) {
	if len(rows) == 0 {
		return uuid.Nil, fmt.Errorf("alertstore: MERGE returned no row")
	}
	raw, ok := rows[0]["id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("alertstore: id field missing or not a string")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("alertstore: parse id: %w", err)
	}
	return id, nil
}
