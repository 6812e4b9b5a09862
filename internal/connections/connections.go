// Package connections implements the ConnectionService of spec.md §4.11:
// shortest-path evidence chains, shared-connection pairs, and the
// multi-layer (directors/executives/ownership/subsidiaries) summary used
// to explain how two entities relate.
package connections

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgarintel/pipeline/internal/graphstore"
)

// EdgeHop is one hop of a resolved path, with enough detail to render a
// human sentence and to roll up overall_confidence.
type EdgeHop struct {
	Type       string // e.g. "OWNS", "OFFICER_OF"
	FromName   string
	ToName     string
	Percentage float64 // OWNS only
	Title      string  // OFFICER_OF/DIRECTOR_OF only
	Confidence float64
}

// Sentence renders each edge type into a fixed human sentence,
// per spec.md §4.11.
func (h EdgeHop) Sentence() string {
	switch h.Type {
	case "OWNS":
		return fmt.Sprintf("%s owns %.1f%% of %s", h.FromName, h.Percentage, h.ToName)
	case "OFFICER_OF":
		title := h.Title
		if title == "" {
			title = "an officer"
		}
		return fmt.Sprintf("%s is %s of %s", h.FromName, title, h.ToName)
	case "DIRECTOR_OF":
		return fmt.Sprintf("%s is a director of %s", h.FromName, h.ToName)
	case "DEAL_WITH":
		return fmt.Sprintf("%s has a deal relationship with %s", h.FromName, h.ToName)
	case "COUNTERPARTY_IN":
		return fmt.Sprintf("%s is a counterparty in an event involving %s", h.FromName, h.ToName)
	case "SANCTIONED_AS":
		return fmt.Sprintf("%s is sanctioned as %s", h.FromName, h.ToName)
	default:
		return fmt.Sprintf("%s is connected to %s via %s", h.FromName, h.ToName, strings.ToLower(h.Type))
	}
}

// EvidenceChain is the unrolled shortest path between two entities.
type EvidenceChain struct {
	Hops             []EdgeHop
	Sentences        []string
	OverallConfidence float64
}

// Service implements FindConnectionWithEvidence / FindSharedConnections /
// FindMultiLayerConnections over a graphstore.Store.
type Service struct {
	store *graphstore.Store
}

// New returns a connections Service backed by store.
func New(store *graphstore.Store) *Service {
	return &Service{store: store}
}

// FindConnectionWithEvidence finds the shortest path between aID and bID
// (up to maxHops) and assembles an EvidenceChain with
// overall_confidence = min(edge.confidence), per spec.md §4.11.
func (s *Service) FindConnectionWithEvidence(ctx context.Context, aID, bID string, maxHops int) (*EvidenceChain, error) {
	if maxHops <= 0 {
		maxHops = 6
	}

	cypher := fmt.Sprintf(`
MATCH p = shortestPath((a {id: $aId})-[*1..%d]-(b {id: $bId}))
RETURN [r IN relationships(p) | {
  type: type(r), confidence: coalesce(r.confidence, 1.0),
  percentage: coalesce(r.percentage, 0.0), title: coalesce(r.title, ''),
  from_name: coalesce(startNode(r).name, ''), to_name: coalesce(endNode(r).name, '')
}] AS hops`, maxHops)

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"aId": aID, "bId": bID})
	if err != nil {
		return nil, fmt.Errorf("connections: FindConnectionWithEvidence: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	hops := parseHops(rows[0]["hops"])
	if len(hops) == 0 {
		return nil, nil
	}

	chain := &EvidenceChain{Hops: hops, OverallConfidence: 1.0}
	for _, h := range hops {
		chain.Sentences = append(chain.Sentences, h.Sentence())
		if h.Confidence < chain.OverallConfidence {
			chain.OverallConfidence = h.Confidence
		}
	}
	return chain, nil
}

// SharedConnection is a pair of edges (A)-[r1]-(X)-[r2]-(B).
type SharedConnection struct {
	ViaName string
	HopA    EdgeHop
	HopB    EdgeHop
}

// FindSharedConnections finds entities X connected to both aID and bID,
// deduped via id(A) < id(B) ordering, per spec.md §4.11.
func (s *Service) FindSharedConnections(ctx context.Context, aID, bID string, limit int) ([]SharedConnection, error) {
	if limit <= 0 {
		limit = 25
	}

	cypher := `
MATCH (a {id: $aId})-[r1]-(x)-[r2]-(b {id: $bId})
WHERE a.id < b.id AND a.id <> x.id AND b.id <> x.id
RETURN x.name AS via_name,
       type(r1) AS r1_type, coalesce(r1.confidence, 1.0) AS r1_confidence,
       type(r2) AS r2_type, coalesce(r2.confidence, 1.0) AS r2_confidence
LIMIT $limit`

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"aId": aID, "bId": bID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("connections: FindSharedConnections: %w", err)
	}

	out := make([]SharedConnection, 0, len(rows))
	for _, row := range rows {
		via, _ := row["via_name"].(string)
		out = append(out, SharedConnection{
			ViaName: via,
			HopA:    EdgeHop{Type: stringOr(row["r1_type"]), Confidence: floatOr(row["r1_confidence"])},
			HopB:    EdgeHop{Type: stringOr(row["r2_type"]), Confidence: floatOr(row["r2_confidence"])},
		})
	}
	return out, nil
}

// Strength buckets the multi-layer connection summary, per spec.md §4.11.
type Strength string

const (
	StrengthNone     Strength = "none"
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// MultiLayerSummary aggregates the four independent relationship
// queries between two companies identified by name.
type MultiLayerSummary struct {
	SharedDirectors     []string
	ExecutiveOverlaps   []string
	OwnershipPaths      int
	SharedSubsidiaries  []string
	Strength            Strength
}

// FindMultiLayerConnections runs the four queries of spec.md §4.11 and
// aggregates them into a strength-bucketed summary.
func (s *Service) FindMultiLayerConnections(ctx context.Context, nameA, nameB string) (*MultiLayerSummary, error) {
	directors, err := s.namesOverlap(ctx, nameA, nameB, "DIRECTOR_OF")
	if err != nil {
		return nil, err
	}
	executives, err := s.namesOverlap(ctx, nameA, nameB, "OFFICER_OF")
	if err != nil {
		return nil, err
	}
	ownershipPaths, err := s.ownershipPathCount(ctx, nameA, nameB)
	if err != nil {
		return nil, err
	}
	subsidiaries, err := s.sharedSubsidiaries(ctx, nameA, nameB)
	if err != nil {
		return nil, err
	}

	total := len(directors) + len(executives) + ownershipPaths + len(subsidiaries)
	summary := &MultiLayerSummary{
		SharedDirectors:    directors,
		ExecutiveOverlaps:  executives,
		OwnershipPaths:     ownershipPaths,
		SharedSubsidiaries: subsidiaries,
		Strength:           bucketStrength(total),
	}
	return summary, nil
}

func bucketStrength(total int) Strength {
	switch {
	case total == 0:
		return StrengthNone
	case total <= 2:
		return StrengthWeak
	case total <= 5:
		return StrengthModerate
	default:
		return StrengthStrong
	}
}

func (s *Service) namesOverlap(ctx context.Context, nameA, nameB, edgeType string) ([]string, error) {
	cypher := fmt.Sprintf(`
MATCH (ca:Company {name: $nameA})<-[:%s]-(p:Person)-[:%s]->(cb:Company {name: $nameB})
RETURN DISTINCT p.name AS name`, edgeType, edgeType)

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"nameA": nameA, "nameB": nameB})
	if err != nil {
		return nil, fmt.Errorf("connections: namesOverlap(%s): %w", edgeType, err)
	}
	return namesFromRows(rows), nil
}

func (s *Service) ownershipPathCount(ctx context.Context, nameA, nameB string) (int, error) {
	cypher := `
MATCH p = (ca:Company {name: $nameA})-[:OWNS*1..4]-(cb:Company {name: $nameB})
RETURN count(p) AS total`

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"nameA": nameA, "nameB": nameB})
	if err != nil {
		return 0, fmt.Errorf("connections: ownershipPathCount: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return intOr(rows[0]["total"]), nil
}

func (s *Service) sharedSubsidiaries(ctx context.Context, nameA, nameB string) ([]string, error) {
	cypher := `
MATCH (ca:Company {name: $nameA})-[:OWNS]->(sub:Company)<-[:OWNS]-(cb:Company {name: $nameB})
RETURN DISTINCT sub.name AS name`

	rows, err := s.store.ExecuteQuery(ctx, cypher, map[string]any{"nameA": nameA, "nameB": nameB})
	if err != nil {
		return nil, fmt.Errorf("connections: sharedSubsidiaries: %w", err)
	}
	return namesFromRows(rows), nil
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

func parseHops(raw any) []EdgeHop {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	hops := make([]EdgeHop, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		hops = append(hops, EdgeHop{
			Type:       stringOr(m["type"]),
			FromName:   stringOr(m["from_name"]),
			ToName:     stringOr(m["to_name"]),
			Percentage: floatOr(m["percentage"]),
			Title:      stringOr(m["title"]),
			Confidence: floatOr(m["confidence"]),
		})
	}
	return hops
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

func floatOr(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	default:
		return 0
	}
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
