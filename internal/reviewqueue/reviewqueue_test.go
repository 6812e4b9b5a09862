package reviewqueue

import (
	"context"
	"path/filepath"
	"testing"
)

func TestAddAndGetPending(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "queue.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := store.Add(context.Background(), Item{
		Accession:      "0000320193-26-000042",
		FilingType:     "SC 13D",
		CompanyCIK:     "0000320193",
		CompanyName:    "Apple Inc.",
		ExtractionType: ExtractionOwnership,
		RawText:        "some extracted text",
		FailureReason:  "no table found",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := store.GetPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("expected 1 pending item with matching id, got %+v", pending)
	}
	if pending[0].Status != StatusPending {
		t.Errorf("expected status pending, got %q", pending[0].Status)
	}
}

func TestApproveWithCorrectionsMarksModified(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(filepath.Join(dir, "queue.json"))

	id, _ := store.Add(context.Background(), Item{CompanyCIK: "1", ExtractionType: ExtractionOfficer})
	if err := store.Approve(context.Background(), id, "analyst1", `{"name":"fixed"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := store.GetById(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != StatusModified {
		t.Errorf("expected status modified when corrections supplied, got %q", item.Status)
	}
	if item.Reviewer != "analyst1" {
		t.Errorf("expected reviewer recorded, got %q", item.Reviewer)
	}
}

func TestApproveWithoutCorrectionsMarksApproved(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(filepath.Join(dir, "queue.json"))

	id, _ := store.Add(context.Background(), Item{CompanyCIK: "1", ExtractionType: ExtractionOfficer})
	if err := store.Approve(context.Background(), id, "analyst1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, _ := store.GetById(context.Background(), id)
	if item.Status != StatusApproved {
		t.Errorf("expected status approved, got %q", item.Status)
	}
}

func TestRejectUnknownItemErrors(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(filepath.Join(dir, "queue.json"))

	if err := store.Reject(context.Background(), [16]byte{}, "analyst1"); err == nil {
		t.Error("expected error rejecting unknown item")
	}
}

func TestGetByCompanyFiltersAndLimits(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(filepath.Join(dir, "queue.json"))

	for i := 0; i < 3; i++ {
		store.Add(context.Background(), Item{CompanyCIK: "0000320193", ExtractionType: ExtractionOwnership})
	}
	store.Add(context.Background(), Item{CompanyCIK: "9999999999", ExtractionType: ExtractionOwnership})

	items, err := store.GetByCompany(context.Background(), "0000320193", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected limit of 2 items, got %d", len(items))
	}
	for _, it := range items {
		if it.CompanyCIK != "0000320193" {
			t.Errorf("unexpected company in results: %q", it.CompanyCIK)
		}
	}
}

func TestStatsCountsByStatusAndType(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(filepath.Join(dir, "queue.json"))

	id1, _ := store.Add(context.Background(), Item{CompanyCIK: "1", ExtractionType: ExtractionOwnership})
	store.Add(context.Background(), Item{CompanyCIK: "2", ExtractionType: ExtractionOfficer})
	store.Reject(context.Background(), id1, "analyst1")

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("expected 2 total items, got %d", stats.Total)
	}
	if stats.ByStatus[StatusRejected] != 1 || stats.ByStatus[StatusPending] != 1 {
		t.Errorf("unexpected status breakdown: %+v", stats.ByStatus)
	}
	if stats.ByType[ExtractionOwnership] != 1 || stats.ByType[ExtractionOfficer] != 1 {
		t.Errorf("unexpected type breakdown: %+v", stats.ByType)
	}
}

func TestReloadPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queue.json")

	store1, _ := NewFileStore(path)
	id, _ := store1.Add(context.Background(), Item{CompanyCIK: "1", ExtractionType: ExtractionOwnership})

	store2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item, err := store2.GetById(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item == nil {
		t.Fatal("expected item to survive reload from disk")
	}
}

func TestRawTextTruncatedTo100KB(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(filepath.Join(dir, "queue.json"))

	huge := make([]byte, maxRawTextBytes+500)
	for i := range huge {
		huge[i] = 'x'
	}
	id, _ := store.Add(context.Background(), Item{CompanyCIK: "1", RawText: string(huge)})

	item, _ := store.GetById(context.Background(), id)
	if len(item.RawText) != maxRawTextBytes {
		t.Errorf("expected raw text truncated to %d bytes, got %d", maxRawTextBytes, len(item.RawText))
	}
}
