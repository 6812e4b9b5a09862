package partylinker

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/edgarintel/pipeline/internal/graphmodel"
)

func zeroEvent() graphmodel.Event {
	return graphmodel.Event{ID: uuid.New(), AccessionNumber: "0000320193-26-000042"}
}

func TestNormalizeDropsSuffixAndArticle(t *testing.T) {
	cases := map[string]string{
		"Apple Inc.":            "apple",
		"The Walt Disney Company": "walt disney company",
		"Acme Corp":             "acme",
		"Globex, LLC":           "globex",
		"Initech":               "initech",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShortestNameMatchAvoidsLongerSupersetName(t *testing.T) {
	candidates := []companyMatch{
		{Name: "Apple Hospitality REIT, Inc."},
		{Name: "Apple Inc."},
	}
	got := shortestNameMatch(candidates)
	if got.Name != "Apple Inc." {
		t.Errorf("expected shortest match 'Apple Inc.', got %q", got.Name)
	}
}

type fakeLookup struct {
	matches []companyMatch
}

func (f fakeLookup) FindByNameContains(ctx context.Context, normalizedQuery string) ([]companyMatch, error) {
	return f.matches, nil
}

func TestLinkEventSkipsSelfReference(t *testing.T) {
	filerID := uuid.New()
	lookup := fakeLookup{matches: []companyMatch{{ID: filerID, CIK: "0000320193", Name: "Apple Inc."}}}
	linker := New(lookup, nil)

	results, err := linker.LinkEvent(context.Background(), zeroEvent(), filerID, "0000320193", []string{"Apple Inc."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || !results[0].Skipped {
		t.Fatalf("expected self-reference to be skipped, got %+v", results)
	}
}

func TestLinkEventNoCandidatesYieldsUnmatched(t *testing.T) {
	linker := New(fakeLookup{}, nil)

	results, err := linker.LinkEvent(context.Background(), zeroEvent(), uuid.New(), "0000320193", []string{"Unknown Co"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Matched || results[0].Skipped {
		t.Fatalf("expected unmatched result, got %+v", results)
	}
}
