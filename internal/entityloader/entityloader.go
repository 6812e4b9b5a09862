// Package entityloader implements the idempotent MERGE primitives of
// spec.md §4.6: EnsureCompany, EnsurePerson, EnsureFiling, and the
// provenance-preserving edge writers (CreateOwnership, CreateOfficer,
// CreateDirector, CreateSubsidiary).
package entityloader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edgarintel/pipeline/internal/graphmodel"
	"github.com/edgarintel/pipeline/internal/graphstore"
	"github.com/edgarintel/pipeline/internal/namevalidator"
)

// NilPersonID is the no-op sentinel returned by EnsurePerson when the
// candidate name fails NameValidator, per spec.md §4.6: "skip otherwise
// and return a no-op sentinel."
var NilPersonID = uuid.Nil

// Loader writes Company/Person/Filing nodes and their provenance-bearing
// edges through a graphstore.Store.
type Loader struct {
	store *graphstore.Store
}

// New returns a Loader backed by store.
func New(store *graphstore.Store) *Loader {
	return &Loader{store: store}
}

// EnsureCompany MERGEs a Company node by CIK when available, else by
// normalized name, per spec.md §4.6.
func (l *Loader) EnsureCompany(ctx context.Context, cik, name, jurisdiction string) (uuid.UUID, error) {
	normalized := graphmodel.NormalizeName(name)
	if cik != "" {
		cik = graphmodel.NormalizeCIK(cik)
	}

	matchClause := "{normalized_name: $normalizedName}"
	if cik != "" {
		matchClause = "{cik: $cik}"
	}

	cypher := fmt.Sprintf(`
MERGE (c:Company %s)
ON CREATE SET c.id = $newId, c.name = $name, c.normalized_name = $normalizedName,
              c.cik = $cik, c.jurisdiction = $jurisdiction,
              c.created_at = datetime(), c.updated_at = datetime()
ON MATCH SET c.updated_at = datetime(),
             c.name = CASE WHEN $name <> '' THEN $name ELSE c.name END,
             c.jurisdiction = CASE WHEN $jurisdiction <> '' THEN $jurisdiction ELSE c.jurisdiction END
RETURN c.id AS id`, matchClause)

	rows, err := l.store.ExecuteWriteQuery(ctx, cypher, map[string]any{
		"newId":          uuid.New().String(),
		"name":           name,
		"normalizedName": normalized,
		"cik":            cik,
		"jurisdiction":   jurisdiction,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("entityloader: EnsureCompany: %w", err)
	}
	return idFromRows(rows)
}

// EnsurePerson MERGEs a Person node by normalized name, after passing
// NameValidator. Returns NilPersonID, false when the name is rejected.
func (l *Loader) EnsurePerson(ctx context.Context, name string) (uuid.UUID, bool, error) {
	if !namevalidator.Valid(name) {
		return NilPersonID, false, nil
	}
	normalized := graphmodel.NormalizeName(name)

	cypher := `
MERGE (p:Person {normalized_name: $normalizedName})
ON CREATE SET p.id = $newId, p.name = $name,
              p.created_at = datetime(), p.updated_at = datetime()
ON MATCH SET p.updated_at = datetime()
RETURN p.id AS id`

	rows, err := l.store.ExecuteWriteQuery(ctx, cypher, map[string]any{
		"newId":          uuid.New().String(),
		"name":           name,
		"normalizedName": normalized,
	})
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("entityloader: EnsurePerson: %w", err)
	}
	id, err := idFromRows(rows)
	return id, true, err
}

// EnsureFiling MERGEs a Filing node by accession number and creates the
// (:Company)-[:FILED]->(:Filing) edge, per spec.md §4.6.
func (l *Loader) EnsureFiling(ctx context.Context, accession, formType string, companyID uuid.UUID, method graphmodel.ExtractionMethod, filingDate time.Time, url string) (uuid.UUID, error) {
	cypher := `
MATCH (co:Company {id: $companyId})
MERGE (f:Filing {accession_number: $accession})
ON CREATE SET f.id = $newId, f.form_type = $formType, f.filing_date = $filingDate,
              f.filing_url = $url, f.extraction_method = $method, f.extracted_at = datetime()
ON MATCH SET f.extraction_method = $method
MERGE (co)-[:FILED]->(f)
RETURN f.id AS id`

	rows, err := l.store.ExecuteWriteQuery(ctx, cypher, map[string]any{
		"newId":      uuid.New().String(),
		"companyId":  companyID.String(),
		"accession":  accession,
		"formType":   formType,
		"filingDate": filingDate.Format(time.RFC3339),
		"url":        url,
		"method":     string(method),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("entityloader: EnsureFiling: %w", err)
	}
	return idFromRows(rows)
}

// ProvenanceInput is the common citation payload passed to every edge
// writer below, per spec.md §3.2.
type ProvenanceInput struct {
	SourceFiling     uuid.UUID
	RawText          string
	SourceSection    string
	SourceTable      string
	ExtractionMethod graphmodel.ExtractionMethod
	Confidence       float64
}

func (p ProvenanceInput) params() map[string]any {
	raw := p.RawText
	if len(raw) > 500 {
		raw = raw[:500]
	}
	return map[string]any{
		"sourceFiling":     p.SourceFiling.String(),
		"rawText":          raw,
		"sourceSection":    p.SourceSection,
		"sourceTable":      p.SourceTable,
		"extractionMethod": string(p.ExtractionMethod),
		"confidence":       p.Confidence,
	}
}

// CreateOwnership MERGEs the OWNS edge between ownerID and companyID,
// preserving created_at and overwriting mutable attributes.
func (l *Loader) CreateOwnership(ctx context.Context, ownerID, companyID uuid.UUID, shares, percentage float64, isDirect bool, prov ProvenanceInput) error {
	cypher := `
MATCH (owner {id: $ownerId}), (co:Company {id: $companyId})
MERGE (owner)-[r:OWNS]->(co)
ON CREATE SET r.created_at = datetime()
SET r.shares = $shares, r.percentage = $percentage, r.is_direct = $isDirect,
    r.is_wholly_owned = $percentage >= 100.0,
    r.source_filing = $sourceFiling, r.raw_text = $rawText,
    r.source_section = $sourceSection, r.source_table = $sourceTable,
    r.extraction_method = $extractionMethod, r.confidence = $confidence,
    r.updated_at = datetime()`

	params := prov.params()
	params["ownerId"] = ownerID.String()
	params["companyId"] = companyID.String()
	params["shares"] = shares
	params["percentage"] = percentage
	params["isDirect"] = isDirect

	_, err := l.store.ExecuteWrite(ctx, cypher, params)
	if err != nil {
		return fmt.Errorf("entityloader: CreateOwnership: %w", err)
	}
	return nil
}

// CreateOfficer MERGEs the OFFICER_OF edge.
func (l *Loader) CreateOfficer(ctx context.Context, personID, companyID uuid.UUID, title string, isExecutive bool, prov ProvenanceInput) error {
	cypher := `
MATCH (p:Person {id: $personId}), (co:Company {id: $companyId})
MERGE (p)-[r:OFFICER_OF]->(co)
ON CREATE SET r.created_at = datetime()
SET r.title = $title, r.is_executive = $isExecutive,
    r.source_filing = $sourceFiling, r.raw_text = $rawText,
    r.source_section = $sourceSection, r.source_table = $sourceTable,
    r.extraction_method = $extractionMethod, r.confidence = $confidence,
    r.updated_at = datetime()`

	params := prov.params()
	params["personId"] = personID.String()
	params["companyId"] = companyID.String()
	params["title"] = title
	params["isExecutive"] = isExecutive

	_, err := l.store.ExecuteWrite(ctx, cypher, params)
	if err != nil {
		return fmt.Errorf("entityloader: CreateOfficer: %w", err)
	}
	return nil
}

// CreateDirector MERGEs the DIRECTOR_OF edge.
func (l *Loader) CreateDirector(ctx context.Context, personID, companyID uuid.UUID, prov ProvenanceInput) error {
	cypher := `
MATCH (p:Person {id: $personId}), (co:Company {id: $companyId})
MERGE (p)-[r:DIRECTOR_OF]->(co)
ON CREATE SET r.created_at = datetime()
SET r.source_filing = $sourceFiling, r.raw_text = $rawText,
    r.source_section = $sourceSection, r.source_table = $sourceTable,
    r.extraction_method = $extractionMethod, r.confidence = $confidence,
    r.updated_at = datetime()`

	params := prov.params()
	params["personId"] = personID.String()
	params["companyId"] = companyID.String()

	_, err := l.store.ExecuteWrite(ctx, cypher, params)
	if err != nil {
		return fmt.Errorf("entityloader: CreateDirector: %w", err)
	}
	return nil
}

// CreateSubsidiary MERGEs an OWNS edge from parent to subsidiary,
// modelling the Exhibit 21 ownership hierarchy the same way as
// CreateOwnership (a subsidiary is owned capital, not a distinct edge
// type, per spec.md §3.2's OWNS definition).
func (l *Loader) CreateSubsidiary(ctx context.Context, parentID, subsidiaryID uuid.UUID, percentage float64, isWhollyOwned bool, prov ProvenanceInput) error {
	cypher := `
MATCH (parent:Company {id: $parentId}), (sub:Company {id: $subsidiaryId})
MERGE (parent)-[r:OWNS]->(sub)
ON CREATE SET r.created_at = datetime()
SET r.percentage = $percentage, r.is_wholly_owned = $isWhollyOwned, r.is_direct = true,
    r.source_filing = $sourceFiling, r.raw_text = $rawText,
    r.source_section = $sourceSection, r.source_table = $sourceTable,
    r.extraction_method = $extractionMethod, r.confidence = $confidence,
    r.updated_at = datetime()`

	params := prov.params()
	params["parentId"] = parentID.String()
	params["subsidiaryId"] = subsidiaryID.String()
	params["percentage"] = percentage
	params["isWhollyOwned"] = isWhollyOwned

	_, err := l.store.ExecuteWrite(ctx, cypher, params)
	if err != nil {
		return fmt.Errorf("entityloader: CreateSubsidiary: %w", err)
	}
	return nil
}

func idFromRows(rows []graphstore.Row) (uuid.UUID, error) {
	if len(rows) == 0 {
		return uuid.Nil, fmt.Errorf("entityloader: MERGE returned no row")
	}
	raw, ok := rows[0]["id"]
	if !ok {
		return uuid.Nil, fmt.Errorf("entityloader: MERGE row missing id")
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("entityloader: id field is not a string: %T", raw)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("entityloader: parse id: %w", err)
	}
	return id, nil
}
