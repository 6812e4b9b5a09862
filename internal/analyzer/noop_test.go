package analyzer

import (
	"context"
	"testing"
)

func TestNoopProducesNoRecords(t *testing.T) {
	n := NewNoop()
	ctx := context.Background()

	if raw, err := n.Analyze(ctx, "anything"); raw != "" || err != nil {
		t.Errorf("Analyze = (%q, %v), want (\"\", nil)", raw, err)
	}

	own, err := n.ExtractOwnership(ctx, "<html></html>")
	if err != nil || len(own.Records) != 0 {
		t.Errorf("ExtractOwnership = (%+v, %v), want no records, no error", own, err)
	}

	sub, err := n.ExtractSubsidiary(ctx, "<html></html>")
	if err != nil || len(sub.Records) != 0 {
		t.Errorf("ExtractSubsidiary = (%+v, %v), want no records, no error", sub, err)
	}

	off, err := n.ExtractOfficer(ctx, "<html></html>")
	if err != nil || len(off.Records) != 0 {
		t.Errorf("ExtractOfficer = (%+v, %v), want no records, no error", off, err)
	}

	ev, err := n.ExtractEvent(ctx, "some item text")
	if err != nil || ev.Summary != "" {
		t.Errorf("ExtractEvent = (%+v, %v), want zero value, no error", ev, err)
	}
}
