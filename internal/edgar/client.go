// Package edgar implements the EdgarClient contract of spec.md §4.1: a
// rate-limited HTTP client over SEC EDGAR's submissions API, archive
// document store, full-text-search discovery endpoint, and company-ticker
// index.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/edgarintel/pipeline/internal/apperr"
	"github.com/edgarintel/pipeline/internal/graphmodel"
)

const (
	submissionsBaseURL = "https://data.sec.gov/submissions"
	archiveBaseURL     = "https://www.sec.gov/Archives/edgar/data"
	fullTextSearchURL  = "https://efts.sec.gov/LATEST/search-index"
	tickersURL         = "https://www.sec.gov/files/company_tickers.json"
)

// CompanyInfo is the parsed response of GetCompanyInfo.
type CompanyInfo struct {
	CIK                  string
	Name                 string
	Tickers              []string
	SIC                  string
	SICDescription       string
	StateOfIncorporation string
	FormerNames          []string
}

// FilingRef identifies a single filing within a company's submission feed.
type FilingRef struct {
	AccessionNumber string
	FormType        string
	FilingDate      time.Time
	PrimaryDocument string
	Items           string
}

// Filer is a deduplicated company discovered via full-text search.
type Filer struct {
	CIK  string
	Name string
}

// TickerMatch is a scored company-ticker search result.
type TickerMatch struct {
	CIK    string
	Name   string
	Ticker string
	Score  int
}

// Client is the concrete EdgarClient. User-Agent is mandatory per spec.md
// §4.1; construction fails fast if it looks empty or placeholder.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	limiter     *RateLimiter
	tickerCache []TickerMatch
}

// New constructs a Client. userAgent must be a non-placeholder
// identifier-email string (e.g. "Research Project research@example.com").
func New(userAgent string, requestsPerSec int, timeout time.Duration) (*Client, error) {
	ua := strings.TrimSpace(userAgent)
	if ua == "" || strings.EqualFold(ua, "placeholder") || !strings.Contains(ua, "@") {
		return nil, &apperr.ConfigError{Field: "edgar.user_agent", Msg: "must be a non-empty identifier-email string"}
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 10
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  ua,
		limiter:    NewRateLimiter(requestsPerSec, time.Second/time.Duration(requestsPerSec)),
	}, nil
}

func (c *Client) makeRequest(ctx context.Context, url string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, &apperr.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &apperr.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &apperr.FetchError{URL: url, Err: err}
	}
	return body, resp.StatusCode, nil
}

// GetCompanyInfo fetches https://data.sec.gov/submissions/CIK{cik}.json.
func (c *Client) GetCompanyInfo(ctx context.Context, cik string) (*CompanyInfo, error) {
	cik = graphmodel.NormalizeCIK(cik)
	url := fmt.Sprintf("%s/CIK%s.json", submissionsBaseURL, cik)

	body, status, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}

	var raw struct {
		CIK                  string   `json:"cik"`
		Name                 string   `json:"name"`
		Tickers              []string `json:"tickers"`
		SIC                  string   `json:"sic"`
		SICDescription       string   `json:"sicDescription"`
		StateOfIncorporation string   `json:"stateOfIncorporation"`
		FormerNames          []struct {
			Name string `json:"name"`
		} `json:"formerNames"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &apperr.ParseError{Accession: cik, Err: err}
	}

	info := &CompanyInfo{
		CIK:                  graphmodel.NormalizeCIK(raw.CIK),
		Name:                 raw.Name,
		Tickers:              raw.Tickers,
		SIC:                  raw.SIC,
		SICDescription:       raw.SICDescription,
		StateOfIncorporation: raw.StateOfIncorporation,
	}
	for _, fn := range raw.FormerNames {
		info.FormerNames = append(info.FormerNames, fn.Name)
	}
	return info, nil
}

// GetCompanyFilings returns filings of the given formTypes (nil/empty means
// all), most recent first, capped at limit (0 means no cap).
func (c *Client) GetCompanyFilings(ctx context.Context, cik string, formTypes []string, limit int) ([]FilingRef, error) {
	cik = graphmodel.NormalizeCIK(cik)
	url := fmt.Sprintf("%s/CIK%s.json", submissionsBaseURL, cik)

	body, status, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}

	var raw struct {
		Filings struct {
			Recent struct {
				AccessionNumber []string `json:"accessionNumber"`
				Form            []string `json:"form"`
				FilingDate      []string `json:"filingDate"`
				PrimaryDocument []string `json:"primaryDocument"`
				Items           []string `json:"items"`
			} `json:"recent"`
		} `json:"filings"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &apperr.ParseError{Accession: cik, Err: err}
	}

	wanted := make(map[string]bool, len(formTypes))
	for _, f := range formTypes {
		wanted[f] = true
	}

	var out []FilingRef
	recent := raw.Filings.Recent
	for i := range recent.AccessionNumber {
		form := recent.Form[i]
		if len(wanted) > 0 && !wanted[form] {
			continue
		}
		date, _ := time.Parse("2006-01-02", recent.FilingDate[i])
		out = append(out, FilingRef{
			AccessionNumber: recent.AccessionNumber[i],
			FormType:        form,
			FilingDate:      date,
			PrimaryDocument: valueOr(recent.PrimaryDocument, i, ""),
			Items:           valueOr(recent.Items, i, ""),
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func valueOr(s []string, i int, def string) string {
	if i < len(s) {
		return s[i]
	}
	return def
}

// accessionNoDash strips the dashes from an accession number, as required
// to build archive document URLs.
func accessionNoDash(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}

// GetFilingDocument fetches the primary document for a filing.
func (c *Client) GetFilingDocument(ctx context.Context, cik string, filing FilingRef) ([]byte, error) {
	cik = graphmodel.NormalizeCIK(cik)
	doc := filing.PrimaryDocument
	if doc == "" {
		return nil, &apperr.FetchError{URL: filing.AccessionNumber, Err: fmt.Errorf("no primary document recorded")}
	}
	url := fmt.Sprintf("%s/%s/%s/%s", archiveBaseURL, trimLeadingZerosCIK(cik), accessionNoDash(filing.AccessionNumber), doc)
	body, status, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}
	return body, nil
}

// GetFilingIndex fetches the directory index JSON for a filing's accession
// folder, used to enumerate ancillary documents (e.g. Form 4 XML, Exhibit 21).
func (c *Client) GetFilingIndex(ctx context.Context, cik string, filing FilingRef) (map[string]interface{}, error) {
	cik = graphmodel.NormalizeCIK(cik)
	url := fmt.Sprintf("%s/%s/%s/index.json", archiveBaseURL, trimLeadingZerosCIK(cik), accessionNoDash(filing.AccessionNumber))
	body, status, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}
	var idx map[string]interface{}
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, &apperr.ParseError{Accession: filing.AccessionNumber, Err: err}
	}
	return idx, nil
}

// GetExhibit21 fetches a filing's Exhibit 21 subsidiary list document. A 404
// means "not present," returned as (nil, nil), not an error.
func (c *Client) GetExhibit21(ctx context.Context, cik string, filing FilingRef) ([]byte, error) {
	cik = graphmodel.NormalizeCIK(cik)
	idx, err := c.GetFilingIndex(ctx, cik, filing)
	if err != nil {
		return nil, err
	}
	docName := findExhibit21Document(idx)
	if docName == "" {
		return nil, nil
	}
	url := fmt.Sprintf("%s/%s/%s/%s", archiveBaseURL, trimLeadingZerosCIK(cik), accessionNoDash(filing.AccessionNumber), docName)
	body, status, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}
	return body, nil
}

func findExhibit21Document(idx map[string]interface{}) string {
	directory, ok := idx["directory"].(map[string]interface{})
	if !ok {
		return ""
	}
	items, ok := directory["item"].([]interface{})
	if !ok {
		return ""
	}
	for _, it := range items {
		entry, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		lower := strings.ToLower(name)
		if strings.Contains(lower, "ex-21") || strings.Contains(lower, "ex21") || strings.Contains(lower, "subsidiar") {
			return name
		}
	}
	return ""
}

// GetForm4Xml fetches the raw Form 4 ownership XML document for a filing.
func (c *Client) GetForm4Xml(ctx context.Context, cik string, filing FilingRef) ([]byte, error) {
	cik = graphmodel.NormalizeCIK(cik)
	idx, err := c.GetFilingIndex(ctx, cik, filing)
	if err != nil {
		return nil, err
	}
	docName := findForm4XmlDocument(idx, filing.PrimaryDocument)
	if docName == "" {
		return nil, &apperr.ParseError{Accession: filing.AccessionNumber, Err: fmt.Errorf("no Form 4 xml document found")}
	}
	url := fmt.Sprintf("%s/%s/%s/%s", archiveBaseURL, trimLeadingZerosCIK(cik), accessionNoDash(filing.AccessionNumber), docName)
	body, status, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}
	return body, nil
}

func findForm4XmlDocument(idx map[string]interface{}, fallback string) string {
	directory, ok := idx["directory"].(map[string]interface{})
	if ok {
		items, ok := directory["item"].([]interface{})
		if ok {
			for _, it := range items {
				entry, ok := it.(map[string]interface{})
				if !ok {
					continue
				}
				name, _ := entry["name"].(string)
				if strings.HasSuffix(strings.ToLower(name), ".xml") {
					return name
				}
			}
		}
	}
	return fallback
}

func trimLeadingZerosCIK(cik string) string {
	return strings.TrimLeft(cik, "0")
}
