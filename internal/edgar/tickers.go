package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/edgarintel/pipeline/internal/apperr"
	"github.com/edgarintel/pipeline/internal/graphmodel"
)

// Score tiers for SearchCompaniesByTickerOrName, per spec.md §4.1.
const (
	scoreExactTicker   = 1000
	scoreTickerPrefix  = 500
	scoreExactName     = 400
	scoreNamePrefix    = 300
	scoreWordPrefix    = 200
	scoreNameSubstring = 100
	scoreTickerSubstr  = 50
)

// SearchCompaniesByTickerOrName fetches (and caches) the global
// company_tickers.json index once, then scores and ranks matches.
func (c *Client) SearchCompaniesByTickerOrName(ctx context.Context, query string, limit int) ([]TickerMatch, error) {
	if err := c.ensureTickerCache(ctx); err != nil {
		return nil, err
	}

	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var matches []TickerMatch
	for _, entry := range c.tickerCache {
		score := scoreMatch(q, entry.Ticker, entry.Name)
		if score == 0 {
			continue
		}
		matches = append(matches, TickerMatch{
			CIK:    entry.CIK,
			Name:   entry.Name,
			Ticker: entry.Ticker,
			Score:  score,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// scoreMatch implements the ranking rule from spec.md §4.1: exact ticker
// 1000 > ticker prefix 500 > exact name 400 > name prefix 300 > any word
// prefix 200 > name substring 100 > ticker substring 50.
func scoreMatch(q, ticker, name string) int {
	ticker = strings.ToUpper(ticker)
	name = strings.ToUpper(name)

	switch {
	case q == ticker:
		return scoreExactTicker
	case strings.HasPrefix(ticker, q):
		return scoreTickerPrefix
	case q == name:
		return scoreExactName
	case strings.HasPrefix(name, q):
		return scoreNamePrefix
	}

	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, q) {
			return scoreWordPrefix
		}
	}

	if strings.Contains(name, q) {
		return scoreNameSubstring
	}
	if strings.Contains(ticker, q) {
		return scoreTickerSubstr
	}
	return 0
}

func (c *Client) ensureTickerCache(ctx context.Context) error {
	if c.tickerCache != nil {
		return nil
	}

	body, status, err := c.makeRequest(ctx, tickersURL)
	if err != nil {
		return err
	}
	if status != 200 {
		return &apperr.FetchError{URL: tickersURL, Err: fmt.Errorf("unexpected status %d", status)}
	}

	var raw map[string]struct {
		CIKStr int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return &apperr.ParseError{Accession: "company_tickers.json", Err: err}
	}

	cache := make([]TickerMatch, 0, len(raw))
	for _, entry := range raw {
		cache = append(cache, TickerMatch{
			CIK:    graphmodel.NormalizeCIK(fmt.Sprintf("%d", entry.CIKStr)),
			Name:   entry.Title,
			Ticker: entry.Ticker,
		})
	}
	c.tickerCache = cache
	return nil
}
