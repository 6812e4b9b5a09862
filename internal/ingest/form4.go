// Package ingest wires edgar.Client, the extract parsers and
// entityloader together into the concrete collaborators
// internal/scheduler drives: fetch-parse-load pipelines per filing type,
// plus the small EDGAR-backed adapters (filer discovery, SIC fallback)
// the scanner needs beyond what the graph alone can answer.
package ingest

import (
	"context"
	"fmt"

	"github.com/edgarintel/pipeline/internal/edgar"
	"github.com/edgarintel/pipeline/internal/entityloader"
	"github.com/edgarintel/pipeline/internal/extract"
)

// Form4Pipeline ingests a single company's recent Form 4 filings: fetch
// via edgar.Client, parse via extract.Form4, load via entityloader.
type Form4Pipeline struct {
	edgar  *edgar.Client
	loader *entityloader.Loader
}

// NewForm4Pipeline returns a Form4Pipeline backed by client and loader.
func NewForm4Pipeline(client *edgar.Client, loader *entityloader.Loader) *Form4Pipeline {
	return &Form4Pipeline{edgar: client, loader: loader}
}

// IngestInsiderTransactions implements scheduler.InsiderIngester: fetch
// up to limit recent Form 4 filings for cik, parse, and load every
// transaction row into the graph.
func (p *Form4Pipeline) IngestInsiderTransactions(ctx context.Context, cik string, limit int) error {
	info, err := p.edgar.GetCompanyInfo(ctx, cik)
	if err != nil {
		return fmt.Errorf("ingest: GetCompanyInfo: %w", err)
	}
	companyID, err := p.loader.EnsureCompany(ctx, cik, info.Name, info.StateOfIncorporation)
	if err != nil {
		return fmt.Errorf("ingest: EnsureCompany: %w", err)
	}

	filings, err := p.edgar.GetCompanyFilings(ctx, cik, []string{"4"}, limit)
	if err != nil {
		return fmt.Errorf("ingest: GetCompanyFilings: %w", err)
	}

	for _, filing := range filings {
		if err := p.ingestOneFiling(ctx, cik, companyID.String(), filing); err != nil {
			return fmt.Errorf("ingest: filing %s: %w", filing.AccessionNumber, err)
		}
	}
	return nil
}

func (p *Form4Pipeline) ingestOneFiling(ctx context.Context, cik, companyID string, filing edgar.FilingRef) error {
	raw, err := p.edgar.GetForm4Xml(ctx, cik, filing)
	if err != nil {
		return fmt.Errorf("GetForm4Xml: %w", err)
	}

	result, err := extract.Form4(ctx, raw, filing.AccessionNumber)
	if err != nil {
		return fmt.Errorf("extract.Form4: %w", err)
	}

	companyUUID, err := parseUUID(companyID)
	if err != nil {
		return err
	}

	for i, rec := range result.Records {
		personID, ok, err := p.loader.EnsurePerson(ctx, rec.OwnerName)
		if err != nil {
			return fmt.Errorf("EnsurePerson(%s): %w", rec.OwnerName, err)
		}
		if !ok {
			continue
		}

		_, err = p.loader.EnsureInsiderTransaction(ctx, companyUUID, personID, entityloader.InsiderTransactionInput{
			AccessionNumber:        filing.AccessionNumber,
			Index:                  i,
			CompanyCIK:             cik,
			InsiderName:            rec.OwnerName,
			InsiderTitle:           rec.OwnerTitle,
			TransactionDate:        rec.TransactionDate,
			TransactionCode:        rec.TransactionCode,
			TransactionType:        rec.TransactionType,
			SecurityTitle:          rec.SecurityTitle,
			Shares:                 rec.Shares,
			PricePerShare:          rec.PricePerShare,
			TotalValue:             rec.TotalValue,
			SharesAfterTransaction: rec.SharesAfterTransaction,
			OwnershipType:          rec.OwnershipType,
			IsDerivative:           rec.IsDerivative,
		})
		if err != nil {
			return fmt.Errorf("EnsureInsiderTransaction: %w", err)
		}
	}
	return nil
}
