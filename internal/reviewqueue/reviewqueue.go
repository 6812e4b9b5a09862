// Package reviewqueue implements the embedded human-review store of
// spec.md §4.4: a local JSON file holding items that extraction could not
// resolve with confidence, awaiting an analyst's approve/reject decision.
package reviewqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status enumerates the lifecycle of a review item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusModified Status = "modified"
)

// ExtractionType enumerates the extractor kinds that can enqueue a review
// item, per spec.md §4.4.
type ExtractionType string

const (
	ExtractionOwnership  ExtractionType = "ownership"
	ExtractionSubsidiary ExtractionType = "subsidiary"
	ExtractionOfficer    ExtractionType = "officer"
)

const maxRawTextBytes = 100 * 1024

// Item is a single review-queue entry.
type Item struct {
	ID              uuid.UUID       `json:"id"`
	Accession       string          `json:"accession"`
	FilingType      string          `json:"filing_type"`
	CompanyCIK      string          `json:"company_cik"`
	CompanyName     string          `json:"company_name"`
	ExtractionType  ExtractionType  `json:"extraction_type"`
	RawText         string          `json:"raw_text"`
	AttemptedJSON   string          `json:"attempted_extraction_json,omitempty"`
	FailureReason   string          `json:"failure_reason,omitempty"`
	Confidence      *float64        `json:"confidence,omitempty"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	Reviewer         string         `json:"reviewer,omitempty"`
	Corrections      string         `json:"corrections,omitempty"`
}

// Stats summarizes queue composition, per spec.md §4.4 Stats().
type Stats struct {
	Total     int            `json:"total"`
	ByStatus  map[Status]int `json:"by_status"`
	ByType    map[ExtractionType]int `json:"by_type"`
}

// Store is the public ReviewQueue contract.
type Store interface {
	Add(ctx context.Context, item Item) (uuid.UUID, error)
	GetPending(ctx context.Context, limit int) ([]Item, error)
	GetById(ctx context.Context, id uuid.UUID) (*Item, error)
	GetByCompany(ctx context.Context, cik string, limit int) ([]Item, error)
	Approve(ctx context.Context, id uuid.UUID, reviewer string, corrections string) error
	Reject(ctx context.Context, id uuid.UUID, reviewer string) error
	Stats(ctx context.Context) (Stats, error)
}

// FileStore is the default Store implementation: a JSON file under
// storePath, guarded by a mutex for concurrent access, per spec.md §4.4's
// "embedded key/value store (local file OK)".
type FileStore struct {
	mu        sync.Mutex
	storePath string
	items     map[uuid.UUID]Item
}

// NewFileStore loads (or initializes) the JSON-backed queue at storePath.
func NewFileStore(storePath string) (*FileStore, error) {
	fs := &FileStore{storePath: storePath, items: map[uuid.UUID]Item{}}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.storePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var list []Item
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("reviewqueue: corrupt store at %s: %w", fs.storePath, err)
	}
	for _, it := range list {
		fs.items[it.ID] = it
	}
	return nil
}

// persist must be called with fs.mu held.
func (fs *FileStore) persist() error {
	list := make([]Item, 0, len(fs.items))
	for _, it := range fs.items {
		list = append(list, it)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(fs.storePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(fs.storePath, data, 0o644)
}

func (fs *FileStore) Add(ctx context.Context, item Item) (uuid.UUID, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.Status == "" {
		item.Status = StatusPending
	}
	if len(item.RawText) > maxRawTextBytes {
		item.RawText = item.RawText[:maxRawTextBytes]
	}

	fs.items[item.ID] = item
	if err := fs.persist(); err != nil {
		return uuid.Nil, err
	}
	return item.ID, nil
}

func (fs *FileStore) GetPending(ctx context.Context, limit int) ([]Item, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var out []Item
	for _, it := range fs.items {
		if it.Status == StatusPending {
			out = append(out, it)
		}
	}
	sortByCreatedAtDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (fs *FileStore) GetById(ctx context.Context, id uuid.UUID) (*Item, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	it, ok := fs.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (fs *FileStore) GetByCompany(ctx context.Context, cik string, limit int) ([]Item, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var out []Item
	for _, it := range fs.items {
		if it.CompanyCIK == cik {
			out = append(out, it)
		}
	}
	sortByCreatedAtDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (fs *FileStore) Approve(ctx context.Context, id uuid.UUID, reviewer string, corrections string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	it, ok := fs.items[id]
	if !ok {
		return fmt.Errorf("reviewqueue: item %s not found", id)
	}
	now := time.Now()
	it.Status = StatusApproved
	if corrections != "" {
		it.Status = StatusModified
		it.Corrections = corrections
	}
	it.Reviewer = reviewer
	it.ReviewedAt = &now
	fs.items[id] = it
	return fs.persist()
}

func (fs *FileStore) Reject(ctx context.Context, id uuid.UUID, reviewer string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	it, ok := fs.items[id]
	if !ok {
		return fmt.Errorf("reviewqueue: item %s not found", id)
	}
	now := time.Now()
	it.Status = StatusRejected
	it.Reviewer = reviewer
	it.ReviewedAt = &now
	fs.items[id] = it
	return fs.persist()
}

func (fs *FileStore) Stats(ctx context.Context) (Stats, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	stats := Stats{ByStatus: map[Status]int{}, ByType: map[ExtractionType]int{}}
	for _, it := range fs.items {
		stats.Total++
		stats.ByStatus[it.Status]++
		stats.ByType[it.ExtractionType]++
	}
	return stats, nil
}

func sortByCreatedAtDesc(items []Item) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].CreatedAt.After(items[j-1].CreatedAt); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
