package citations

import (
	"testing"

	"github.com/edgarintel/pipeline/internal/graphstore"
)

func TestCitationsFromRowsFlattensKnownFields(t *testing.T) {
	rows := []graphstore.Row{
		{
			"relType":          "OFFICER_OF",
			"fromName":         "Jane Doe",
			"toName":           "Acme Corp",
			"sourceFiling":     "0000320193-24-000001",
			"sourceSection":    "Item 5.02",
			"sourceTable":      nil,
			"rawText":          "Jane Doe was appointed CFO",
			"extractionMethod": "llm",
			"confidence":       0.92,
		},
	}

	got := citationsFromRows(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(got))
	}
	c := got[0]
	if c.RelationshipType != "OFFICER_OF" || c.FromName != "Jane Doe" || c.ToName != "Acme Corp" {
		t.Errorf("unexpected identity fields: %+v", c)
	}
	if c.SourceFiling != "0000320193-24-000001" || c.SourceSection != "Item 5.02" {
		t.Errorf("unexpected source fields: %+v", c)
	}
	if c.SourceTable != "" {
		t.Errorf("expected empty source table for nil value, got %q", c.SourceTable)
	}
	if c.ExtractionMethod != "llm" {
		t.Errorf("expected extraction method llm, got %q", c.ExtractionMethod)
	}
	if c.Confidence != 0.92 {
		t.Errorf("expected confidence 0.92, got %v", c.Confidence)
	}
}

func TestCitationsFromRowsHandlesIntConfidence(t *testing.T) {
	rows := []graphstore.Row{
		{"relType": "DIRECTOR_OF", "confidence": int64(1)},
	}
	got := citationsFromRows(rows)
	if len(got) != 1 || got[0].Confidence != 1 {
		t.Fatalf("expected confidence 1 from int64 row value, got %+v", got)
	}
}

func TestCitationsFromRowsEmpty(t *testing.T) {
	got := citationsFromRows(nil)
	if len(got) != 0 {
		t.Errorf("expected no citations for empty rows, got %d", len(got))
	}
}
