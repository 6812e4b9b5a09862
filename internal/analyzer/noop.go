package analyzer

import "context"

// Noop is the TextAnalyzer used when no provider key is configured. Every
// extractor treats its zero-confidence, zero-record responses exactly like
// "rule-based found nothing and the LLM fallback also found nothing",
// which is the documented, non-fatal behavior of spec.md §6.5.
type Noop struct{}

// NewNoop returns a TextAnalyzer that never produces records, mirroring the
// teacher's internal/llm NoopDecider fallback.
func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Analyze(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func (n *Noop) ExtractOwnership(ctx context.Context, html string) (OwnershipResponse, error) {
	return OwnershipResponse{}, nil
}

func (n *Noop) ExtractSubsidiary(ctx context.Context, html string) (SubsidiaryResponse, error) {
	return SubsidiaryResponse{}, nil
}

func (n *Noop) ExtractOfficer(ctx context.Context, html string) (OfficerResponse, error) {
	return OfficerResponse{}, nil
}

func (n *Noop) ExtractEvent(ctx context.Context, itemText string) (EventResponse, error) {
	return EventResponse{}, nil
}
