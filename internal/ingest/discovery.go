package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edgarintel/pipeline/internal/edgar"
	"github.com/edgarintel/pipeline/internal/scheduler"
)

// FilerDiscovery implements scheduler.FilerDiscoverer over EFTS full-text
// search.
type FilerDiscovery struct {
	edgar *edgar.Client
}

// NewFilerDiscovery returns a FilerDiscovery backed by client.
func NewFilerDiscovery(client *edgar.Client) *FilerDiscovery {
	return &FilerDiscovery{edgar: client}
}

const maxDiscoveredFilersPerRun = 200

// DiscoverFilersSince implements scheduler.FilerDiscoverer.
func (d *FilerDiscovery) DiscoverFilersSince(ctx context.Context, since time.Time) ([]scheduler.Filer, error) {
	filers, err := d.edgar.GetRecentForm4Filers(ctx, since, maxDiscoveredFilersPerRun)
	if err != nil {
		return nil, fmt.Errorf("ingest: GetRecentForm4Filers: %w", err)
	}
	out := make([]scheduler.Filer, 0, len(filers))
	for _, f := range filers {
		out = append(out, scheduler.Filer{CIK: f.CIK, Name: f.Name})
	}
	return out, nil
}

// EightKUniverse implements scheduler.CompanyUniverse by discovering
// recent 8-K filers rather than requiring a pre-seeded graph, so a
// market scan can bootstrap an empty graph.
type EightKUniverse struct {
	edgar        *edgar.Client
	lookbackDays int
}

// NewEightKUniverse returns an EightKUniverse covering the last
// lookbackDays of 8-K filers (0 defaults to 7).
func NewEightKUniverse(client *edgar.Client, lookbackDays int) *EightKUniverse {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	return &EightKUniverse{edgar: client, lookbackDays: lookbackDays}
}

// AllCompanyCIKs implements scheduler.CompanyUniverse.
func (u *EightKUniverse) AllCompanyCIKs(ctx context.Context) ([]string, error) {
	filers, err := u.edgar.GetRecent8KFilers(ctx, u.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("ingest: GetRecent8KFilers: %w", err)
	}
	out := make([]string, 0, len(filers))
	for _, f := range filers {
		out = append(out, f.CIK)
	}
	return out, nil
}

// SICFallback implements scheduler.SICLookup as an EDGAR-only source, for
// wiring behind graphqueries.Reader.SICForCIK when the graph has no
// record yet (spec.md §4.15 step 4's "consult graph, else EDGAR").
type SICFallback struct {
	edgar *edgar.Client
}

// NewSICFallback returns a SICFallback backed by client.
func NewSICFallback(client *edgar.Client) *SICFallback {
	return &SICFallback{edgar: client}
}

// SICForCIK implements scheduler.SICLookup.
func (f *SICFallback) SICForCIK(ctx context.Context, cik string) (string, error) {
	info, err := f.edgar.GetCompanyInfo(ctx, cik)
	if err != nil {
		return "", fmt.Errorf("ingest: GetCompanyInfo: %w", err)
	}
	return info.SIC, nil
}

// GraphThenEDGARSIC tries a graph-backed SICLookup first and falls back
// to EDGAR only when the graph has no answer, implementing the ordering
// spec.md §4.15 step 4 requires.
type GraphThenEDGARSIC struct {
	Graph  scheduler.SICLookup
	EDGAR  scheduler.SICLookup
}

// SICForCIK implements scheduler.SICLookup.
func (g *GraphThenEDGARSIC) SICForCIK(ctx context.Context, cik string) (string, error) {
	sic, err := g.Graph.SICForCIK(ctx, cik)
	if err != nil {
		return "", err
	}
	if sic != "" {
		return sic, nil
	}
	return g.EDGAR.SICForCIK(ctx, cik)
}

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ingest: parse id %q: %w", s, err)
	}
	return id, nil
}
