package graphqueries

import (
	"testing"
	"time"

	"github.com/edgarintel/pipeline/internal/graphstore"
)

func TestStringOrMissingKey(t *testing.T) {
	row := graphstore.Row{"cik": "0000320193"}
	if got := stringOr(row, "cik"); got != "0000320193" {
		t.Errorf("expected 0000320193, got %q", got)
	}
	if got := stringOr(row, "missing"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}
}

func TestStringsOrFiltersEmptyAndNonString(t *testing.T) {
	row := graphstore.Row{"items": []any{"1.01", "", "5.02", 7}}
	got := stringsOr(row, "items")
	want := []string{"1.01", "5.02"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestStringsOrNotAList(t *testing.T) {
	row := graphstore.Row{"items": "not-a-list"}
	if got := stringsOr(row, "items"); got != nil {
		t.Errorf("expected nil for non-list value, got %v", got)
	}
}

func TestFlattenPersonsDedupesAcrossGroups(t *testing.T) {
	raw := []any{
		[]any{"Jane Doe", "John Smith"},
		[]any{"Jane Doe", ""},
	}
	got := flattenPersons(raw)
	want := []string{"Jane Doe", "John Smith"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestFlattenPersonsNilInput(t *testing.T) {
	if got := flattenPersons(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestFloatOrHandlesNeo4jNumericTypes(t *testing.T) {
	row := graphstore.Row{"a": float64(1.5), "b": int64(3), "c": "not a number"}
	if got := floatOr(row, "a"); got != 1.5 {
		t.Errorf("expected 1.5, got %v", got)
	}
	if got := floatOr(row, "b"); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
	if got := floatOr(row, "c"); got != 0 {
		t.Errorf("expected 0 for unsupported type, got %v", got)
	}
}

func TestIntOrHandlesNeo4jNumericTypes(t *testing.T) {
	row := graphstore.Row{"a": int64(4), "b": float64(2.9)}
	if got := intOr(row, "a"); got != 4 {
		t.Errorf("expected 4, got %v", got)
	}
	if got := intOr(row, "b"); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestTimeOrParsesRFC3339(t *testing.T) {
	row := graphstore.Row{"filingDate": "2024-03-15T00:00:00Z"}
	got := timeOr(row, "filingDate")
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTimeOrInvalidOrMissing(t *testing.T) {
	row := graphstore.Row{"filingDate": "not-a-date"}
	if got := timeOr(row, "filingDate"); !got.IsZero() {
		t.Errorf("expected zero time for invalid date, got %v", got)
	}
	if got := timeOr(row, "missing"); !got.IsZero() {
		t.Errorf("expected zero time for missing key, got %v", got)
	}
}
