package ingest

import (
	"context"
	"fmt"

	"github.com/edgarintel/pipeline/internal/analyzer"
	"github.com/edgarintel/pipeline/internal/edgar"
	"github.com/edgarintel/pipeline/internal/entityloader"
	"github.com/edgarintel/pipeline/internal/extract"
)

const eightKFilingLimit = 10

// EightKPipeline ingests a single company's recent 8-K filings: fetch the
// primary document, split it into per-item Event records via
// extract.Event, and load each as an Event node.
type EightKPipeline struct {
	edgar    *edgar.Client
	loader   *entityloader.Loader
	analyzer analyzer.TextAnalyzer
}

// NewEightKPipeline returns an EightKPipeline backed by client and
// loader. llm may be nil; a *analyzer.Noop is used in that case so every
// Event is loaded rule-based-only, per spec.md §6.4's fallback contract.
func NewEightKPipeline(client *edgar.Client, loader *entityloader.Loader, llm analyzer.TextAnalyzer) *EightKPipeline {
	if llm == nil {
		llm = analyzer.NewNoop()
	}
	return &EightKPipeline{edgar: client, loader: loader, analyzer: llm}
}

// IngestEightKFilings implements scheduler.EightKIngester for the market
// scan: fetch recent 8-Ks, load an Event node per item.
func (p *EightKPipeline) IngestEightKFilings(ctx context.Context, cik string) error {
	info, err := p.edgar.GetCompanyInfo(ctx, cik)
	if err != nil {
		return fmt.Errorf("ingest: GetCompanyInfo: %w", err)
	}
	companyID, err := p.loader.EnsureCompany(ctx, cik, info.Name, info.StateOfIncorporation)
	if err != nil {
		return fmt.Errorf("ingest: EnsureCompany: %w", err)
	}

	filings, err := p.edgar.GetCompanyFilings(ctx, cik, []string{"8-K"}, eightKFilingLimit)
	if err != nil {
		return fmt.Errorf("ingest: GetCompanyFilings: %w", err)
	}

	for _, filing := range filings {
		if err := p.ingestOneFiling(ctx, cik, companyID, filing); err != nil {
			return fmt.Errorf("ingest: filing %s: %w", filing.AccessionNumber, err)
		}
	}
	return nil
}

func (p *EightKPipeline) ingestOneFiling(ctx context.Context, cik string, companyID interface{ String() string }, filing edgar.FilingRef) error {
	html, err := p.edgar.GetFilingDocument(ctx, cik, filing)
	if err != nil {
		return fmt.Errorf("GetFilingDocument: %w", err)
	}

	result, err := extract.Event(ctx, string(html), filing.AccessionNumber, "", p.analyzer)
	if err != nil {
		return fmt.Errorf("extract.Event: %w", err)
	}

	companyUUID, err := parseUUID(companyID.String())
	if err != nil {
		return err
	}

	for _, rec := range result.Records {
		_, err := p.loader.EnsureEvent(ctx, companyUUID, cik, entityloader.EventInput{
			AccessionNumber:  filing.AccessionNumber,
			ItemNumber:       rec.ItemNumber,
			ItemName:         rec.ItemName,
			IsMASignal:       rec.IsMASignal,
			FilingDate:       filing.FilingDate,
			PersonsMentioned: rec.Analysis.Parties,
			RawText:          rec.RawText,
		})
		if err != nil {
			return fmt.Errorf("EnsureEvent(%s#%s): %w", filing.AccessionNumber, rec.ItemNumber, err)
		}
	}
	return nil
}
