package graphmodel

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionMethod enumerates how a sourced fact was derived.
type ExtractionMethod string

const (
	MethodRuleBased ExtractionMethod = "rule_based"
	MethodLLM       ExtractionMethod = "llm"
	MethodHybrid    ExtractionMethod = "hybrid"
	MethodManual    ExtractionMethod = "manual"
)

// Company is the Company node of spec.md §3.1. Natural key: CIK when public,
// else NormalizedName.
type Company struct {
	ID                   uuid.UUID `json:"id"`
	CIK                  string    `json:"cik,omitempty"`
	Name                 string    `json:"name"`
	NormalizedName       string    `json:"normalized_name"`
	Tickers              []string  `json:"tickers,omitempty"`
	SIC                  string    `json:"sic,omitempty"`
	SICDescription       string    `json:"sic_description,omitempty"`
	StateOfIncorporation string    `json:"state_of_incorporation,omitempty"`
	Jurisdiction         string    `json:"jurisdiction,omitempty"`
	IsSanctioned         bool      `json:"is_sanctioned"`
	Source               string    `json:"source,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NaturalKey returns the CIK when present, else the normalized name, per
// the EnsureCompany MERGE rule in spec.md §4.6.
func (c *Company) NaturalKey() string {
	if c.CIK != "" {
		return c.CIK
	}
	return c.NormalizedName
}

// Person is the Person node of spec.md §3.1. Natural key: NormalizedName.
type Person struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	IsPEP          bool      `json:"is_pep"`
	IsSanctioned   bool      `json:"is_sanctioned"`
	OFACUID        string    `json:"ofac_uid,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Filing is the Filing node. Natural key: AccessionNumber.
type Filing struct {
	ID               uuid.UUID        `json:"id"`
	AccessionNumber  string           `json:"accession_number"`
	FormType         string           `json:"form_type"`
	FilingDate       time.Time        `json:"filing_date"`
	FilingURL        string           `json:"filing_url"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	ExtractedAt      time.Time        `json:"extracted_at"`
	CompanyID        uuid.UUID        `json:"company_id"`
}

// EventAnalyzerCache holds the memoized LLM augmentation of an Event,
// versioned so it is written once per LLMVersion (spec.md §3.4).
type EventAnalyzerCache struct {
	LLMVersion            string   `json:"llm_version,omitempty"`
	LLMSummary             string   `json:"llm_summary,omitempty"`
	LLMAgreementType       string   `json:"llm_agreement_type,omitempty"`
	LLMParties             []string `json:"llm_parties,omitempty"`
	LLMKeyTerms            []string `json:"llm_key_terms,omitempty"`
	LLMForwardLooking      string   `json:"llm_forward_looking,omitempty"`
	LLMMarketImplications  string   `json:"llm_market_implications,omitempty"`
}

// Event is the Event node. Composite natural key: (AccessionNumber, ItemNumber).
type Event struct {
	ID               uuid.UUID `json:"id"`
	AccessionNumber  string    `json:"accession_number"`
	ItemNumber       string    `json:"item_number"`
	FilingDate       time.Time `json:"filing_date"`
	ItemName         string    `json:"item_name"`
	SignalType       string    `json:"signal_type"`
	IsMASignal       bool      `json:"is_ma_signal"`
	PersonsMentioned []string  `json:"persons_mentioned,omitempty"`
	RawText          string    `json:"raw_text"` // truncated to 1000 chars
	CompanyID        uuid.UUID `json:"company_id"`
	CompanyCIK       string    `json:"company_cik"`
	EventAnalyzerCache
}

// NaturalKey returns the composite (accession_number, item_number) key.
func (e *Event) NaturalKey() string {
	return e.AccessionNumber + "#" + e.ItemNumber
}

// InsiderTransaction is the InsiderTransaction node. Natural key:
// "{accession_number}_{index}". Immutable once loaded.
type InsiderTransaction struct {
	ID                     uuid.UUID `json:"id"`
	NaturalKey             string    `json:"natural_key"`
	AccessionNumber        string    `json:"accession_number"`
	Index                  int       `json:"index"`
	CompanyCIK             string    `json:"company_cik"`
	TransactionDate        time.Time `json:"transaction_date"`
	TransactionCode        string    `json:"transaction_code"` // single letter, §6.2
	TransactionType        string    `json:"transaction_type"` // human label
	SecurityTitle          string    `json:"security_title"`
	Shares                 float64   `json:"shares"`
	PricePerShare          float64   `json:"price_per_share"`
	TotalValue             float64   `json:"total_value"`
	SharesAfterTransaction float64   `json:"shares_after_transaction"`
	OwnershipType          string    `json:"ownership_type"` // "D" or "I"
	IsDerivative           bool      `json:"is_derivative"`
	InsiderName            string    `json:"insider_name"`
	InsiderTitle           string    `json:"insider_title"`
}

// Jurisdiction is the Jurisdiction node. Natural key: Code.
type Jurisdiction struct {
	ID                   uuid.UUID `json:"id"`
	Code                 string    `json:"code"`
	Name                 string    `json:"name"`
	Country              string    `json:"country"`
	IsSecrecyJurisdiction bool      `json:"is_secrecy_jurisdiction"`
	SecrecyScore         float64   `json:"secrecy_score"`
}

// SanctionedEntity is an overlay label/node attached to Person or Company.
// Natural key: OFACUID.
type SanctionedEntity struct {
	ID               uuid.UUID `json:"id"`
	OFACUID          string    `json:"ofac_uid"`
	Aliases          []string  `json:"aliases,omitempty"`
	SanctionPrograms []string  `json:"sanction_programs,omitempty"`
	Addresses        []string  `json:"addresses,omitempty"`
	Nationality      string    `json:"nationality,omitempty"`
	DateOfBirth      string    `json:"date_of_birth,omitempty"`
	IDNumbers        []string  `json:"id_numbers,omitempty"`
	Remarks          string    `json:"remarks,omitempty"`
	Source           string    `json:"source"`
	SourceDate       time.Time `json:"source_date"`
	RawText          string    `json:"raw_text"`
	RawTextHash      string    `json:"raw_text_hash"`
	Confidence       float64   `json:"confidence"`
	EntityType       string    `json:"entity_type"` // "individual" | "entity"
}

// Alert is the Alert node. Natural key: DedupKey.
type Alert struct {
	ID             uuid.UUID  `json:"id"`
	DedupKey       string     `json:"dedup_key"`
	AlertType      string     `json:"alert_type"`
	Severity       string     `json:"severity"`
	CompanyCIK     string     `json:"company_cik"`
	CompanyName    string     `json:"company_name"`
	Ticker         string     `json:"ticker,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

// DedupKey builds the Alert natural key, per spec.md §3.1: "{cik}_{alert_type}_{YYYY-MM-DD}".
func DedupKey(cik, alertType string, day time.Time) string {
	return cik + "_" + alertType + "_" + day.Format("2006-01-02")
}

// ScannerState is the ScannerState node. Natural key: ScannerID.
type ScannerState struct {
	ScannerID       string    `json:"scanner_id"`
	LastCheckpoint  time.Time `json:"last_checkpoint"`
	LastRunAt       time.Time `json:"last_run_at"`
	LastStatus      string    `json:"last_status"`
	TotalRuns       int       `json:"total_runs"`
	TotalErrors     int       `json:"total_errors"`
	TotalCompanies  int       `json:"total_companies_processed"`
	LastError       string    `json:"last_error,omitempty"`
}
