// Package partylinker implements spec.md §4.7: resolving an Event's LLM-
// extracted counterparty names against known Companies, and wiring the
// COUNTERPARTY_IN/DEAL_WITH edges that connect a filer to its deal
// counterparty.
package partylinker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/edgarintel/pipeline/internal/graphmodel"
	"github.com/edgarintel/pipeline/internal/graphstore"
	"github.com/edgarintel/pipeline/internal/logger"
)

var trailingSuffixes = []string{
	", Inc.", ", Inc", " Inc.", " Inc",
	", Corp.", ", Corp", " Corp.", " Corp",
	", Corporation", " Corporation",
	", LLC", " LLC", ", L.L.C.", " L.L.C.",
	", Ltd.", ", Ltd", " Ltd.", " Ltd",
	", Co.", " Co.",
	", plc", " plc",
}

// Normalize drops trailing entity suffixes and a leading "The ", then
// lowercases, per spec.md §4.7 step 1.
func Normalize(name string) string {
	n := strings.TrimSpace(name)
	for _, suffix := range trailingSuffixes {
		if strings.HasSuffix(n, suffix) {
			n = strings.TrimSuffix(n, suffix)
			n = strings.TrimSpace(n)
		}
	}
	n = strings.TrimPrefix(n, "The ")
	n = strings.TrimPrefix(n, "the ")
	return strings.ToLower(strings.TrimSpace(n))
}

// companyMatch is the subset of Company fields needed to pick the
// shortest-name match and to detect self-reference.
type companyMatch struct {
	ID   uuid.UUID
	CIK  string
	Name string
}

// CompanyLookup resolves a normalized-name substring query against known
// companies. Implemented by graphstore-backed lookups in production, and
// fakeable in tests.
type CompanyLookup interface {
	FindByNameContains(ctx context.Context, normalizedQuery string) ([]companyMatch, error)
}

// GraphCompanyLookup is the graphstore-backed CompanyLookup.
type GraphCompanyLookup struct {
	Store *graphstore.Store
}

func (g *GraphCompanyLookup) FindByNameContains(ctx context.Context, normalizedQuery string) ([]companyMatch, error) {
	cypher := `
MATCH (c:Company)
WHERE toLower(c.name) CONTAINS $query
RETURN c.id AS id, c.cik AS cik, c.name AS name`

	rows, err := g.Store.ExecuteQuery(ctx, cypher, map[string]any{"query": normalizedQuery})
	if err != nil {
		return nil, fmt.Errorf("partylinker: lookup: %w", err)
	}

	matches := make([]companyMatch, 0, len(rows))
	for _, row := range rows {
		idStr, _ := row["id"].(string)
		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			continue
		}
		cik, _ := row["cik"].(string)
		name, _ := row["name"].(string)
		matches = append(matches, companyMatch{ID: id, CIK: cik, Name: name})
	}
	return matches, nil
}

// Linker resolves Event counterparties and writes the linking edges.
type Linker struct {
	lookup CompanyLookup
	store  *graphstore.Store
}

// New returns a Linker backed by the given lookup and write store.
func New(lookup CompanyLookup, store *graphstore.Store) *Linker {
	return &Linker{lookup: lookup, store: store}
}

// LinkResult reports what LinkEvent resolved for a single party name, for
// logging/testing visibility.
type LinkResult struct {
	PartyName string
	Matched   bool
	Skipped   bool // self-reference
	TargetID  uuid.UUID
}

// LinkEvent resolves every party in llmParties against known companies and
// creates COUNTERPARTY_IN/DEAL_WITH edges for each non-self match, per
// spec.md §4.7.
func (l *Linker) LinkEvent(ctx context.Context, event graphmodel.Event, filerID uuid.UUID, filerCIK string, llmParties []string) ([]LinkResult, error) {
	results := make([]LinkResult, 0, len(llmParties))

	for _, party := range llmParties {
		normalized := Normalize(party)
		if normalized == "" {
			continue
		}

		candidates, err := l.lookup.FindByNameContains(ctx, normalized)
		if err != nil {
			return results, err
		}
		if len(candidates) == 0 {
			results = append(results, LinkResult{PartyName: party})
			continue
		}

		target := shortestNameMatch(candidates)

		if target.CIK != "" && target.CIK == filerCIK {
			results = append(results, LinkResult{PartyName: party, Skipped: true})
			continue
		}

		if err := l.writeLinks(ctx, event, filerID, target.ID); err != nil {
			return results, err
		}
		logger.Debug(ctx, "partylinker resolved counterparty", "party", party, "target", target.Name)
		results = append(results, LinkResult{PartyName: party, Matched: true, TargetID: target.ID})
	}

	return results, nil
}

func shortestNameMatch(candidates []companyMatch) companyMatch {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.Name) < len(best.Name) {
			best = c
		}
	}
	return best
}

func (l *Linker) writeLinks(ctx context.Context, event graphmodel.Event, filerID, targetID uuid.UUID) error {
	cypher := `
MATCH (filer:Company {id: $filerId}), (target:Company {id: $targetId}), (e:Event {id: $eventId})
MERGE (filer)-[:COUNTERPARTY_IN {role: 'filer'}]->(e)
MERGE (target)-[:COUNTERPARTY_IN {role: 'counterparty'}]->(e)
MERGE (filer)-[d:DEAL_WITH]->(target)
ON CREATE SET d.created_at = datetime()
SET d.accession_number = $accession, d.agreement_type = $agreementType,
    d.filing_date = $filingDate, d.source_quote = $sourceQuote`

	eventID := event.ID
	_, err := l.store.ExecuteWrite(ctx, cypher, map[string]any{
		"filerId":       filerID.String(),
		"targetId":      targetID.String(),
		"eventId":       eventID.String(),
		"accession":     event.AccessionNumber,
		"agreementType": event.LLMAgreementType,
		"filingDate":    event.FilingDate.Format("2006-01-02"),
		"sourceQuote":   truncate(event.RawText, 500),
	})
	if err != nil {
		return fmt.Errorf("partylinker: writeLinks: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
