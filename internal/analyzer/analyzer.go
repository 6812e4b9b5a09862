// Package analyzer implements the opaque TextAnalyzer fallback used by
// internal/extract whenever rule-based parsing falls short, per spec.md
// §4.2 and §6.4 ("Opaque providers: ... TextAnalyzer.Analyze(prompt) →
// json"). A missing API key disables the LLM fallback without failing
// scans (spec.md §6.5): callers get the Noop implementation instead.
package analyzer

import "context"

// OwnershipResponse is the typed LLM response for beneficial-ownership
// extraction, mirrored from extract.OwnershipRecord.
type OwnershipResponse struct {
	Records    []OwnershipRecordDTO
	Confidence float64
}

// OwnershipRecordDTO avoids an import cycle between internal/analyzer and
// internal/extract; internal/extract maps this onto its own record type.
type OwnershipRecordDTO struct {
	OwnerName  string
	OwnerType  string
	Shares     float64
	Percentage float64
	RawText    string
}

// SubsidiaryResponse is the typed LLM response for Exhibit 21 extraction.
type SubsidiaryResponse struct {
	Records    []SubsidiaryRecordDTO
	Confidence float64
}

type SubsidiaryRecordDTO struct {
	Name          string
	Jurisdiction  string
	IsWhollyOwned bool
	RawText       string
}

// OfficerResponse is the typed LLM response for officer/director extraction.
type OfficerResponse struct {
	Records    []OfficerRecordDTO
	Confidence float64
}

type OfficerRecordDTO struct {
	Name        string
	Title       string
	Age         int
	IsOfficer   bool
	IsDirector  bool
	IsExecutive bool
	RawText     string
}

// EventResponse is the typed LLM response used to augment an Event with a
// summary, agreement type, parties, key terms and forward-looking language,
// per the Event.EventAnalyzerCache fields.
type EventResponse struct {
	Summary             string   `json:"summary"`
	AgreementType       string   `json:"agreement_type"`
	Parties             []string `json:"parties"`
	KeyTerms            []string `json:"key_terms"`
	ForwardLooking      string   `json:"forward_looking"`
	MarketImplications  string   `json:"market_implications"`
	Confidence          float64  `json:"confidence"`
}

// TextAnalyzer is the opaque LLM-backed fallback contract. Analyze is the
// low-level entry point from spec.md §6.4; the typed Extract* methods wrap
// it with per-extractor prompts and response schemas.
type TextAnalyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
	ExtractOwnership(ctx context.Context, html string) (OwnershipResponse, error)
	ExtractSubsidiary(ctx context.Context, html string) (SubsidiaryResponse, error)
	ExtractOfficer(ctx context.Context, html string) (OfficerResponse, error)
	ExtractEvent(ctx context.Context, itemText string) (EventResponse, error)
}
