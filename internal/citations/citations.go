// Package citations answers "where did this fact come from" queries
// against the provenance properties every sourced edge carries, per
// spec.md §3.2 and §3.3.2.
package citations

import (
	"context"
	"fmt"

	"github.com/edgarintel/pipeline/internal/graphstore"
)

// Citation is one sourced edge's provenance, flattened for API output.
type Citation struct {
	RelationshipType string  `json:"relationship_type"`
	FromName         string  `json:"from_name"`
	ToName           string  `json:"to_name"`
	SourceFiling     string  `json:"source_filing,omitempty"`
	SourceSection    string  `json:"source_section,omitempty"`
	SourceTable      string  `json:"source_table,omitempty"`
	RawText          string  `json:"raw_text,omitempty"`
	ExtractionMethod string  `json:"extraction_method"`
	Confidence       float64 `json:"confidence"`
}

// Service answers citation queries over a graphstore.Store.
type Service struct {
	store *graphstore.Store
}

// New returns a citations Service backed by store.
func New(store *graphstore.Store) *Service {
	return &Service{store: store}
}

// ForEntity returns every sourced edge touching the entity with the
// given id, in either direction.
func (s *Service) ForEntity(ctx context.Context, entityID string) ([]Citation, error) {
	cypher := `
MATCH (e {id: $entityID})-[r]-(other)
WHERE r.extraction_method IS NOT NULL
RETURN type(r) AS relType, e.name AS fromName, other.name AS toName,
       r.source_filing AS sourceFiling, r.source_section AS sourceSection,
       r.source_table AS sourceTable, r.raw_text AS rawText,
       r.extraction_method AS extractionMethod, r.confidence AS confidence`

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"entityID": entityID})
	if err != nil {
		return nil, fmt.Errorf("citations: ForEntity: %w", err)
	}
	return citationsFromRows(rows), nil
}

// ForRelationship returns the sourced edges of the given type directly
// between from and to.
func (s *Service) ForRelationship(ctx context.Context, relType, fromID, toID string) ([]Citation, error) {
	cypher := fmt.Sprintf(`
MATCH (a {id: $fromID})-[r:%s]->(b {id: $toID})
RETURN type(r) AS relType, a.name AS fromName, b.name AS toName,
       r.source_filing AS sourceFiling, r.source_section AS sourceSection,
       r.source_table AS sourceTable, r.raw_text AS rawText,
       r.extraction_method AS extractionMethod, r.confidence AS confidence`, relType)

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"fromID": fromID, "toID": toID})
	if err != nil {
		return nil, fmt.Errorf("citations: ForRelationship: %w", err)
	}
	return citationsFromRows(rows), nil
}

// ForFiling returns every edge sourced from the given filing accession
// number.
func (s *Service) ForFiling(ctx context.Context, accession string) ([]Citation, error) {
	cypher := `
MATCH (f:Filing {accession_number: $accession})<-[r]-(e)
WHERE r.source_filing IS NOT NULL
RETURN type(r) AS relType, e.name AS fromName, f.accession_number AS toName,
       r.source_filing AS sourceFiling, r.source_section AS sourceSection,
       r.source_table AS sourceTable, r.raw_text AS rawText,
       r.extraction_method AS extractionMethod, r.confidence AS confidence`

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"accession": accession})
	if err != nil {
		return nil, fmt.Errorf("citations: ForFiling: %w", err)
	}
	return citationsFromRows(rows), nil
}

func citationsFromRows(rows []graphstore.Row) []Citation {
	citations := make([]Citation, 0, len(rows))
	for _, row := range rows {
		citations = append(citations, Citation{
			RelationshipType: stringOr(row["relType"]),
			FromName:         stringOr(row["fromName"]),
			ToName:           stringOr(row["toName"]),
			SourceFiling:     stringOr(row["sourceFiling"]),
			SourceSection:    stringOr(row["sourceSection"]),
			SourceTable:      stringOr(row["sourceTable"]),
			RawText:          stringOr(row["rawText"]),
			ExtractionMethod: stringOr(row["extractionMethod"]),
			Confidence:       floatOr(row["confidence"]),
		})
	}
	return citations
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

func floatOr(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}
