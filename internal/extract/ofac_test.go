package extract

import (
	"context"
	"testing"
)

const sampleSDN = `<?xml version="1.0"?>
<sdnList>
  <publshInformation>
    <Publish_Date>2026-07-20</Publish_Date>
  </publshInformation>
  <sdnEntry>
    <uid>12345</uid>
    <firstName>John</firstName>
    <lastName>Doe</lastName>
    <sdnType>Individual</sdnType>
    <programList>
      <program>SDGT</program>
    </programList>
    <akaList>
      <aka>
        <firstName>Johnny</firstName>
        <lastName>D</lastName>
      </aka>
    </akaList>
    <addressList>
      <address>
        <city>Anytown</city>
        <country>Freedonia</country>
      </address>
    </addressList>
    <nationality>Freedonia</nationality>
    <remarks>Test entry.</remarks>
  </sdnEntry>
</sdnList>`

func TestOFACParsesEntry(t *testing.T) {
	result, err := OFAC(context.Background(), []byte(sampleSDN), "https://example.com/sdn.xml", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 SDN entry, got %d", len(result.Records))
	}

	rec := result.Records[0]
	if rec.UID != "12345" {
		t.Errorf("expected uid 12345, got %q", rec.UID)
	}
	if rec.Name != "John Doe" {
		t.Errorf("expected name 'John Doe', got %q", rec.Name)
	}
	if rec.EntityType != "individual" {
		t.Errorf("expected entity_type individual, got %q", rec.EntityType)
	}
	if len(rec.Programs) != 1 || rec.Programs[0] != "SDGT" {
		t.Errorf("expected programs [SDGT], got %v", rec.Programs)
	}
	if len(rec.Aliases) != 1 || rec.Aliases[0] != "Johnny D" {
		t.Errorf("expected aliases [Johnny D], got %v", rec.Aliases)
	}
	if rec.PublishDate.Format("2006-01-02") != "2026-07-20" {
		t.Errorf("expected publish date from document, got %v", rec.PublishDate)
	}
	if len(rec.RawTextHashShort) != 16 {
		t.Errorf("expected 16-char raw text hash, got %q", rec.RawTextHashShort)
	}
}

func TestParseISODateRejectsNonISO(t *testing.T) {
	if got := parseISODate("07/20/2026"); !got.IsZero() {
		t.Errorf("expected non-ISO date to yield zero time, got %v", got)
	}
	if got := parseISODate("2026-07-20"); got.IsZero() {
		t.Error("expected ISO date to parse successfully")
	}
}
