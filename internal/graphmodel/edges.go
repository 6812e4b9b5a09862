package graphmodel

import "time"

// Provenance carries the citation fields required on every sourced edge,
// per spec.md §3.2: "Provenance properties on every sourced edge."
type Provenance struct {
	SourceFiling     string           `json:"source_filing,omitempty"` // Filing id
	RawText          string           `json:"raw_text,omitempty"`      // <= 500 chars
	SourceSection    string           `json:"source_section,omitempty"`
	SourceTable      string           `json:"source_table,omitempty"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	Confidence       float64          `json:"confidence"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// HasCitation reports whether the provenance satisfies the invariant in
// spec.md §3.3.2: either SourceFiling is set or ExtractionMethod is manual.
func (p Provenance) HasCitation() bool {
	return p.SourceFiling != "" || p.ExtractionMethod == MethodManual
}

// OwnsEdge is the OWNS edge: Person|Company -> Company.
type OwnsEdge struct {
	FromID          string  `json:"from_id"`
	ToID            string  `json:"to_id"`
	Percentage      float64 `json:"percentage"`
	Shares          float64 `json:"shares"`
	IsBeneficial    bool    `json:"is_beneficial"`
	IsDirect        bool    `json:"is_direct"`
	IsWhollyOwned   bool    `json:"is_wholly_owned"`
	Provenance
}

// OfficerOfEdge is the OFFICER_OF edge: Person -> Company.
type OfficerOfEdge struct {
	FromID      string `json:"from_id"`
	ToID        string `json:"to_id"`
	Title       string `json:"title"`
	IsExecutive bool   `json:"is_executive"`
	Provenance
}

// DirectorOfEdge is the DIRECTOR_OF edge: Person -> Company.
type DirectorOfEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Provenance
}

// IncorporatedInEdge is the INCORPORATED_IN edge: Company -> Jurisdiction.
type IncorporatedInEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// RegisteredAtEdge is the REGISTERED_AT edge: Company -> Address.
type RegisteredAtEdge struct {
	FromID  string `json:"from_id"`
	Address string `json:"address"`
	Provenance
}

// FiledEdge is the FILED edge: Company -> Filing.
type FiledEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// MentionedInEdge is the MENTIONED_IN edge: any -> Filing.
type MentionedInEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// FiledEventEdge is the FILED_EVENT edge: Company -> Event.
type FiledEventEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// InsiderTradeOfEdge is the INSIDER_TRADE_OF edge: Company -> InsiderTransaction.
type InsiderTradeOfEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// TradedByEdge is the TRADED_BY edge: Person -> InsiderTransaction.
type TradedByEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// DealWithEdge is the DEAL_WITH edge: Company <-> Company.
type DealWithEdge struct {
	FromID          string `json:"from_id"`
	ToID            string `json:"to_id"`
	AgreementType   string `json:"agreement_type"`
	FilingDate      string `json:"filing_date"`
	AccessionNumber string `json:"accession_number"`
	SourceQuote     string `json:"source_quote"`
}

// CounterpartyInEdge is the COUNTERPARTY_IN edge: Company <-> Event.
type CounterpartyInEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Role   string `json:"role"` // "filer" | "counterparty"
}

// SanctionedAsEdge is the SANCTIONED_AS edge: Person|Company -> SanctionedEntity.
type SanctionedAsEdge struct {
	FromID      string    `json:"from_id"`
	ToID        string    `json:"to_id"`
	MatchMethod string    `json:"match_method"`
	MatchedOn   string    `json:"matched_on"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}

// AlertForEdge is the ALERT_FOR edge: Alert -> Company.
type AlertForEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}
