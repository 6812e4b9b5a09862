package extract

import (
	"context"
	"strings"
	"testing"
)

const sample8K = `<html><body>
<p>Item 1.01 Entry into a Material Definitive Agreement.</p>
<p>On July 1, 2026, the Company entered into a material agreement with Acme Corp.</p>
<p>Item 5.02 Departure of Directors or Certain Officers.</p>
<p>On July 2, 2026, Jane Smith resigned as Chief Financial Officer.</p>
<p>Item 9.01 Financial Statements and Exhibits.</p>
<p>See attached exhibits.</p>
</body></html>`

func TestEventFindsAllItemsDeduplicated(t *testing.T) {
	result, err := Event(context.Background(), sample8K, "0000320193-26-000001", "https://example.com/filing.htm", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(result.Records), result.Records)
	}

	if result.Records[0].ItemNumber != "1.01" || !result.Records[0].IsMASignal {
		t.Errorf("expected first record to be 1.01 and MA signal, got %+v", result.Records[0])
	}
	if result.Records[1].ItemNumber != "5.02" || !result.Records[1].IsMASignal {
		t.Errorf("expected second record to be 5.02 and MA signal, got %+v", result.Records[1])
	}
	if result.Records[2].ItemNumber != "9.01" || result.Records[2].IsMASignal {
		t.Errorf("expected third record to be 9.01 and not an MA signal, got %+v", result.Records[2])
	}
}

func TestEventNoItemsYieldsWarning(t *testing.T) {
	result, err := Event(context.Background(), "<html><body><p>Nothing here.</p></body></html>", "acc", "url", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(result.Records))
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning when no items are found")
	}
}

func TestLookupItemFallback(t *testing.T) {
	info := lookupItem("99.99")
	if info.IsMASignal {
		t.Error("unclassified items should never be MA signals")
	}
	if !strings.Contains(info.Name, "99.99") {
		t.Errorf("expected fallback name to mention the item number, got %q", info.Name)
	}
}
