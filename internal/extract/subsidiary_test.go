package extract

import (
	"context"
	"testing"
)

const sampleExhibit21 = `<html><body>
<table>
<tr><th>Name</th><th>Jurisdiction</th><th>% Owned</th></tr>
<tr><td>Acme Manufacturing, Inc.</td><td>DE</td><td>100%</td></tr>
<tr><td>Acme International Ltd.</td><td>UK</td><td>85%</td></tr>
</table>
</body></html>`

func TestSubsidiaryFromTable(t *testing.T) {
	result, err := Subsidiary(context.Background(), sampleExhibit21, "acc", "url", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 subsidiaries, got %d: %+v", len(result.Records), result.Records)
	}
	if result.Records[0].Jurisdiction != "Delaware" {
		t.Errorf("expected Delaware, got %q", result.Records[0].Jurisdiction)
	}
	if !result.Records[0].IsWhollyOwned {
		t.Error("expected 100%% subsidiary to be wholly owned")
	}
	if result.Records[1].Jurisdiction != "United Kingdom" {
		t.Errorf("expected United Kingdom, got %q", result.Records[1].Jurisdiction)
	}
	if result.Records[1].IsWhollyOwned {
		t.Error("expected 85%% subsidiary not to be wholly owned")
	}
}

func TestSubsidiaryFromNarrativeText(t *testing.T) {
	text := "Acme Holdings (Delaware)\nAcme Europe, a Luxembourg corporation"
	records, warnings := subsidiaryFromText(text)
	if len(records) != 2 {
		t.Fatalf("expected 2 records from narrative text, got %d (%v)", len(records), warnings)
	}
}

func TestNormalizeJurisdictionUnknownTitleCased(t *testing.T) {
	if got := normalizeJurisdiction("brazil"); got != "Brazil" {
		t.Errorf("expected title-cased unknown jurisdiction, got %q", got)
	}
}
