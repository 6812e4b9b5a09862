// Package extract implements the rule-based-first, LLM-fallback-second
// extractors of spec.md §4.2: Ownership, Subsidiary, Officer, Event, Form4
// and OFAC parsers, each returning a typed ExtractionResult.
package extract

import (
	"github.com/edgarintel/pipeline/internal/graphmodel"
)

// Metadata carries the provenance summary attached to an ExtractionResult,
// per spec.md §4.2: "{method, confidence, source_filing_id, source_url,
// section_name?, table_name?}".
type Metadata struct {
	Method         graphmodel.ExtractionMethod
	Confidence     float64
	SourceFilingID string
	SourceURL      string
	SectionName    string
	TableName      string
}

// Result is the common envelope every extractor returns.
type Result[T any] struct {
	Records    []T
	Metadata   Metadata
	Warnings   []string
	FilingDate string
	FilingURL  string
}

// NeedsReview reports whether this result should be enqueued to the
// ReviewQueue: either it produced nothing (failure) or it landed below the
// 0.9 confidence threshold (low-confidence), per spec.md §4.2 rules 3-4.
func (r Result[T]) NeedsReview() bool {
	return len(r.Records) == 0 || r.Metadata.Confidence < 0.9
}

// FailureReason returns the reason text to attach to a ReviewQueue item
// when Records is empty, or "" when there's nothing to explain.
func (r Result[T]) FailureReason() string {
	if len(r.Records) > 0 {
		return ""
	}
	if len(r.Warnings) > 0 {
		return r.Warnings[len(r.Warnings)-1]
	}
	return "no records extracted by rule-based or LLM fallback"
}

// truncate clips s to at most n runes, used for raw_text snippets (<=300
// chars on records, <=1000 on cached raw filing text).
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
