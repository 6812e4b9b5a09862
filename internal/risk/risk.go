// Package risk implements the RiskEngine of spec.md §4.12: seven
// weighted factor detectors whose sum buckets a company into a LOW through
// CRITICAL risk level.
package risk

import (
	"context"
	"fmt"

	"github.com/edgarintel/pipeline/internal/graphstore"
)

// FactorName enumerates the seven detectors of spec.md §4.12.
type FactorName string

const (
	FactorSecrecyJurisdiction   FactorName = "secrecy_jurisdiction"
	FactorMassRegistration      FactorName = "mass_registration_address"
	FactorCircularOwnership     FactorName = "circular_ownership"
	FactorLongOwnershipChain    FactorName = "long_ownership_chain"
	FactorNomineeDirector       FactorName = "nominee_director"
	FactorPEPConnection         FactorName = "pep_connection"
	FactorSanctionedConnection  FactorName = "sanctioned_connection"
)

const (
	weightSecrecyBase        = 20.0
	weightSecrecyHighScore   = 30.0
	secrecyHighScoreThreshold = 70.0
	secrecyScoreThreshold    = 50.0
	weightMassRegistration   = 15.0
	massRegistrationThreshold = 50
	weightCircularOwnership  = 25.0
	weightLongOwnershipChain = 10.0
	longChainHopThreshold    = 4
	weightNomineeDirector    = 15.0
	nomineeBoardThreshold    = 10
	weightPEPConnection      = 20.0
	weightSanctionedConnection = 40.0
)

const (
	BucketLow      = "LOW"
	BucketMedium   = "MEDIUM"
	BucketHigh     = "HIGH"
	BucketCritical = "CRITICAL"
)

// RiskFactor is a single triggered detector with its evidence sentence.
type RiskFactor struct {
	Name       FactorName
	Weight     float64
	Evidence   string
	Confidence float64
}

// Assessment is RiskEngine's output for one company.
type Assessment struct {
	Factors          []RiskFactor
	Score            float64
	Bucket           string
	OverallConfidence float64
}

// Bucket applies spec.md §4.12's thresholds to a risk score.
func Bucket(score float64) string {
	switch {
	case score <= 20:
		return BucketLow
	case score <= 50:
		return BucketMedium
	case score <= 75:
		return BucketHigh
	default:
		return BucketCritical
	}
}

// Engine runs the seven factor detectors over a graphstore.Store.
type Engine struct {
	store *graphstore.Store
}

// New returns a risk Engine backed by store.
func New(store *graphstore.Store) *Engine {
	return &Engine{store: store}
}

// Assess runs every detector against companyID and buckets the result.
func (e *Engine) Assess(ctx context.Context, companyID string) (Assessment, error) {
	detectors := []func(context.Context, string) (*RiskFactor, error){
		e.secrecyJurisdiction,
		e.massRegistrationAddress,
		e.circularOwnership,
		e.longOwnershipChain,
		e.nomineeDirector,
		e.pepConnection,
		e.sanctionedConnection,
	}

	var factors []RiskFactor
	var score float64
	for _, d := range detectors {
		factor, err := d(ctx, companyID)
		if err != nil {
			return Assessment{}, err
		}
		if factor != nil {
			factors = append(factors, *factor)
			score += factor.Weight
		}
	}

	var confidenceSum float64
	for _, f := range factors {
		confidenceSum += f.Confidence
	}
	overall := 1.0
	if len(factors) > 0 {
		overall = confidenceSum / float64(len(factors))
	}

	return Assessment{Factors: factors, Score: score, Bucket: Bucket(score), OverallConfidence: overall}, nil
}

func (e *Engine) secrecyJurisdiction(ctx context.Context, companyID string) (*RiskFactor, error) {
	cypher := `
MATCH (c:Company {id: $id})-[:INCORPORATED_IN]->(j:Jurisdiction)
WHERE j.is_secrecy_jurisdiction = true OR j.secrecy_score >= $threshold
RETURN j.name AS name, j.secrecy_score AS score
LIMIT 1`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": companyID, "threshold": secrecyScoreThreshold})
	if err != nil {
		return nil, fmt.Errorf("risk: secrecyJurisdiction: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	name := stringOr(rows[0]["name"])
	score := floatOr(rows[0]["score"])
	weight := weightSecrecyBase
	if score >= secrecyHighScoreThreshold {
		weight = weightSecrecyHighScore
	}
	return &RiskFactor{
		Name:       FactorSecrecyJurisdiction,
		Weight:     weight,
		Evidence:   fmt.Sprintf("incorporated in %s, a secrecy jurisdiction", name),
		Confidence: 0.9,
	}, nil
}

func (e *Engine) massRegistrationAddress(ctx context.Context, companyID string) (*RiskFactor, error) {
	cypher := `
MATCH (c:Company {id: $id})-[:REGISTERED_AT]->(a)
MATCH (other:Company)-[:REGISTERED_AT]->(a)
WITH a, count(DISTINCT other) AS total
WHERE total > $threshold
RETURN a.address AS address, total AS total
ORDER BY total DESC LIMIT 1`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": companyID, "threshold": massRegistrationThreshold})
	if err != nil {
		return nil, fmt.Errorf("risk: massRegistrationAddress: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &RiskFactor{
		Name:       FactorMassRegistration,
		Weight:     weightMassRegistration,
		Evidence:   fmt.Sprintf("registered address shared by %d entities", intOr(rows[0]["total"])),
		Confidence: 0.8,
	}, nil
}

func (e *Engine) circularOwnership(ctx context.Context, companyID string) (*RiskFactor, error) {
	cypher := `
MATCH (c:Company {id: $id})-[:OWNS*2..6]->(c)
RETURN count(*) AS total LIMIT 1`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": companyID})
	if err != nil {
		return nil, fmt.Errorf("risk: circularOwnership: %w", err)
	}
	if len(rows) == 0 || intOr(rows[0]["total"]) == 0 {
		return nil, nil
	}
	return &RiskFactor{
		Name:       FactorCircularOwnership,
		Weight:     weightCircularOwnership,
		Evidence:   "circular ownership chain detected",
		Confidence: 0.85,
	}, nil
}

func (e *Engine) longOwnershipChain(ctx context.Context, companyID string) (*RiskFactor, error) {
	cypher := `
MATCH p = (owner)-[:OWNS*1..10]->(c:Company {id: $id})
WITH length(p) AS hops
WHERE hops > $threshold
RETURN max(hops) AS maxHops`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": companyID, "threshold": longChainHopThreshold})
	if err != nil {
		return nil, fmt.Errorf("risk: longOwnershipChain: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	maxHops := intOr(rows[0]["maxHops"])
	if maxHops == 0 {
		return nil, nil
	}
	return &RiskFactor{
		Name:       FactorLongOwnershipChain,
		Weight:     weightLongOwnershipChain,
		Evidence:   fmt.Sprintf("ownership chain of length %d", maxHops),
		Confidence: 0.7,
	}, nil
}

func (e *Engine) nomineeDirector(ctx context.Context, companyID string) (*RiskFactor, error) {
	cypher := `
MATCH (p:Person)-[:DIRECTOR_OF]->(c:Company {id: $id})
MATCH (p)-[:DIRECTOR_OF]->(other:Company)
WITH p, count(DISTINCT other) AS boards
WHERE boards >= $threshold
RETURN p.name AS name, boards AS boards
ORDER BY boards DESC LIMIT 1`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": companyID, "threshold": nomineeBoardThreshold})
	if err != nil {
		return nil, fmt.Errorf("risk: nomineeDirector: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &RiskFactor{
		Name:       FactorNomineeDirector,
		Weight:     weightNomineeDirector,
		Evidence:   fmt.Sprintf("%s sits on %d boards", stringOr(rows[0]["name"]), intOr(rows[0]["boards"])),
		Confidence: 0.75,
	}, nil
}

func (e *Engine) pepConnection(ctx context.Context, companyID string) (*RiskFactor, error) {
	cypher := `
MATCH (c:Company {id: $id})<-[:OWNS|OFFICER_OF|DIRECTOR_OF]-(p)
WHERE p.is_pep = true
RETURN p.name AS name LIMIT 1`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": companyID})
	if err != nil {
		return nil, fmt.Errorf("risk: pepConnection: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &RiskFactor{
		Name:       FactorPEPConnection,
		Weight:     weightPEPConnection,
		Evidence:   fmt.Sprintf("politically exposed person %s is connected", stringOr(rows[0]["name"])),
		Confidence: 0.8,
	}, nil
}

func (e *Engine) sanctionedConnection(ctx context.Context, companyID string) (*RiskFactor, error) {
	cypher := `
MATCH (c:Company {id: $id})<-[:OWNS|OFFICER_OF|DIRECTOR_OF]-(p)
WHERE p.is_sanctioned = true
RETURN p.name AS name LIMIT 1`
	rows, err := e.store.ExecuteQuery(ctx, cypher, map[string]any{"id": companyID})
	if err != nil {
		return nil, fmt.Errorf("risk: sanctionedConnection: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &RiskFactor{
		Name:       FactorSanctionedConnection,
		Weight:     weightSanctionedConnection,
		Evidence:   fmt.Sprintf("connected to sanctioned entity %s", stringOr(rows[0]["name"])),
		Confidence: 0.95,
	}, nil
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
