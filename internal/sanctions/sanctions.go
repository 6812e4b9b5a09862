// Package sanctions implements the SanctionsEngine of spec.md §4.13:
// direct/1-hop/N-hop exposure checks over the graph, plus an offline OFAC
// matcher (exact, alias, and reviewed Jaro-Winkler fuzzy tiers).
package sanctions

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgarintel/pipeline/internal/graphstore"
)

const fuzzyMatchThreshold = 0.9

// RiskLevel is the exposure severity of spec.md §4.13.
type RiskLevel string

const (
	RiskNone     RiskLevel = "NONE"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
)

// Exposure is SanctionsEngine's result for one entity.
type Exposure struct {
	Direct          bool
	OwnersSanctioned []string
	DirectorsOfficersSanctioned []string
	NHopMatches     []HopMatch
	MinHops         int
	Level           RiskLevel
}

// HopMatch is a sanctioned entity found along an N-hop path.
type HopMatch struct {
	EntityID   string
	EntityName string
	Hops       int
}

// Engine runs exposure checks over a graphstore.Store.
type Engine struct {
	store *graphstore.Store
}

// New returns a sanctions Engine backed by store.
func New(store *graphstore.Store) *Engine {
	return &Engine{store: store}
}

// CheckExposure implements spec.md §4.13's direct/1-hop/N-hop checks and
// risk-level bucketing for the entity identified by id.
func (e *Engine) CheckExposure(ctx context.Context, id string, maxHops int) (Exposure, error) {
	if maxHops <= 0 {
		maxHops = 3
	}

	direct, err := e.directCheck(ctx, id)
	if err != nil {
		return Exposure{}, err
	}

	owners, err := e.sanctionedOwners(ctx, id)
	if err != nil {
		return Exposure{}, err
	}

	directorsOfficers, err := e.sanctionedDirectorsOfficers(ctx, id)
	if err != nil {
		return Exposure{}, err
	}

	hopMatches, err := e.nHopMatches(ctx, id, maxHops)
	if err != nil {
		return Exposure{}, err
	}

	minHops := 0
	if len(hopMatches) > 0 {
		minHops = hopMatches[0].Hops
		for _, m := range hopMatches[1:] {
			if m.Hops < minHops {
				minHops = m.Hops
			}
		}
	}

	exposure := Exposure{
		Direct:                      direct,
		OwnersSanctioned:            owners,
		DirectorsOfficersSanctioned: directorsOfficers,
		NHopMatches:                 hopMatches,
		MinHops:                     minHops,
	}
	exposure.Level = riskLevel(exposure)
	return exposure, nil
}

func riskLevel(e Exposure) RiskLevel {
	switch {
	case e.Direct:
		return RiskHigh
	case len(e.OwnersSanctioned) > 0 || len(e.DirectorsOfficersSanctioned) > 0:
		return RiskHigh
	case len(e.NHopMatches) == 0:
		return RiskNone
	case e.MinHops <= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

func (e *Engine) directCheck(ctx context.Context, id string) (bool, error) {
	cypher := `
MATCH (n {id: $id})
OPTIONAL MATCH (n)-[:SANCTIONED_AS]->(s)
RETURN coalesce(n.is_sanctioned, false) OR s IS NOT NULL AS sanctioned`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return false, fmt.Errorf("sanctions: directCheck: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	sanctioned, _ := rows[0]["sanctioned"].(bool)
	return sanctioned, nil
}

func (e *Engine) sanctionedOwners(ctx context.Context, id string) ([]string, error) {
	cypher := `
MATCH (owner)-[:OWNS]->(n {id: $id})
WHERE owner.is_sanctioned = true
RETURN owner.name AS name`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("sanctions: sanctionedOwners: %w", err)
	}
	return namesFromRows(rows), nil
}

func (e *Engine) sanctionedDirectorsOfficers(ctx context.Context, id string) ([]string, error) {
	cypher := `
MATCH (p:Person)-[:DIRECTOR_OF|OFFICER_OF]->(n {id: $id})
WHERE p.is_sanctioned = true
RETURN p.name AS name`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("sanctions: sanctionedDirectorsOfficers: %w", err)
	}
	return namesFromRows(rows), nil
}

func (e *Engine) nHopMatches(ctx context.Context, id string, maxHops int) ([]HopMatch, error) {
	cypher := fmt.Sprintf(`
MATCH (start {id: $id}), (sanctioned)
WHERE sanctioned.is_sanctioned = true AND sanctioned.id <> $id
MATCH p = shortestPath((start)-[*1..%d]-(sanctioned))
RETURN sanctioned.id AS id, sanctioned.name AS name, length(p) AS hops
ORDER BY hops ASC`, maxHops)

	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("sanctions: nHopMatches: %w", err)
	}

	out := make([]HopMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, HopMatch{
			EntityID:   stringOr(row["id"]),
			EntityName: stringOr(row["name"]),
			Hops:       intOr(row["hops"]),
		})
	}
	return out, nil
}

// MatchTier is the OFAC matcher's confidence tier, per spec.md §4.13.
type MatchTier string

const (
	MatchExact MatchTier = "exact"
	MatchAlias MatchTier = "alias"
	MatchFuzzy MatchTier = "fuzzy"
	MatchNone  MatchTier = "none"
)

// OFACMatch is a single candidate-to-SDN comparison result.
type OFACMatch struct {
	Tier            MatchTier
	MatchedOn       string
	Score           float64
	RequiresReview  bool
}

// SDNCandidate is the subset of an SDN entry the matcher compares
// against, per spec.md §4.13.
type SDNCandidate struct {
	Name    string
	Aliases []string
}

// MatchOFAC runs the exact/alias/fuzzy matcher of spec.md §4.13 against a
// single candidate name and SDN entry. Exact and alias matches never
// require review; fuzzy matches always do.
func MatchOFAC(candidateName string, sdn SDNCandidate) OFACMatch {
	normalizedCandidate := normalizeForMatch(candidateName)

	if normalizedCandidate == normalizeForMatch(sdn.Name) {
		return OFACMatch{Tier: MatchExact, MatchedOn: sdn.Name, Score: 1.0}
	}

	for _, alias := range sdn.Aliases {
		if normalizedCandidate == normalizeForMatch(alias) {
			return OFACMatch{Tier: MatchAlias, MatchedOn: alias, Score: 1.0}
		}
	}

	best := jaroWinkler(normalizedCandidate, normalizeForMatch(sdn.Name))
	bestOn := sdn.Name
	for _, alias := range sdn.Aliases {
		score := jaroWinkler(normalizedCandidate, normalizeForMatch(alias))
		if score > best {
			best = score
			bestOn = alias
		}
	}
	if best >= fuzzyMatchThreshold {
		return OFACMatch{Tier: MatchFuzzy, MatchedOn: bestOn, Score: best, RequiresReview: true}
	}

	return OFACMatch{Tier: MatchNone, Score: best}
}

func normalizeForMatch(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func namesFromRows(rows []graphstore.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if n, ok := row["name"].(string); ok && n != "" {
			out = append(out, n)
		}
	}
	return out
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

func intOr(v any) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	case float64:
		return int(t)
	default:
		return 0
	}
}
