package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/edgarintel/pipeline/internal/apperr"
	"github.com/edgarintel/pipeline/internal/graphmodel"
)

const discoveryPageSize = 100

var trailingParenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// GetRecent8KFilers discovers companies that filed an 8-K in the last
// daysBack days via the EFTS full-text-search index, per spec.md §4.1.
func (c *Client) GetRecent8KFilers(ctx context.Context, daysBack int) ([]Filer, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -daysBack)
	return c.discoverFilers(ctx, "8-K", start, end)
}

// GetRecentForm4Filers discovers companies with a Form 4 filed on or after
// sinceDate, capped at maxResults.
func (c *Client) GetRecentForm4Filers(ctx context.Context, sinceDate time.Time, maxResults int) ([]Filer, error) {
	filers, err := c.discoverFilers(ctx, "4", sinceDate, time.Now())
	if err != nil {
		return nil, err
	}
	if maxResults > 0 && len(filers) > maxResults {
		filers = filers[:maxResults]
	}
	return filers, nil
}

// discoverFilers paginates the EFTS endpoint with from=0,100,... until a
// page comes back empty or with fewer than discoveryPageSize hits,
// deduplicating filers by CIK.
func (c *Client) discoverFilers(ctx context.Context, forms string, start, end time.Time) ([]Filer, error) {
	seen := make(map[string]bool)
	var out []Filer

	for from := 0; ; from += discoveryPageSize {
		url := fmt.Sprintf("%s?forms=%s&dateRange=custom&startdt=%s&enddt=%s&from=%d",
			fullTextSearchURL, forms, start.Format("2006-01-02"), end.Format("2006-01-02"), from)

		body, status, err := c.makeRequest(ctx, url)
		if err != nil {
			return out, err
		}
		if status != 200 {
			return out, &apperr.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
		}

		var page struct {
			Hits struct {
				Hits []struct {
					Source struct {
						CIKs        []string `json:"ciks"`
						DisplayName string   `json:"display_names"`
					} `json:"_source"`
				} `json:"hits"`
			} `json:"hits"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return out, &apperr.ParseError{Accession: fmt.Sprintf("efts-from-%d", from), Err: err}
		}

		if len(page.Hits.Hits) == 0 {
			break
		}

		for _, hit := range page.Hits.Hits {
			for _, rawCIK := range hit.Source.CIKs {
				cik := graphmodel.NormalizeCIK(rawCIK)
				if cik == "" || seen[cik] {
					continue
				}
				seen[cik] = true
				out = append(out, Filer{
					CIK:  cik,
					Name: cleanFilerName(hit.Source.DisplayName),
				})
			}
		}

		if len(page.Hits.Hits) < discoveryPageSize {
			break
		}
	}

	return out, nil
}

// cleanFilerName strips the trailing "(CIK …)" and "(TICKER, …)"
// parentheticals EFTS appends to display_names, per spec.md §4.1. Names can
// carry more than one trailing parenthetical, e.g. "Apple Inc. (AAPL) (CIK
// 0000320193)", so peel them off one at a time.
func cleanFilerName(raw string) string {
	name := strings.TrimSpace(raw)
	for {
		stripped := trailingParenRe.ReplaceAllString(name, "")
		stripped = strings.TrimSpace(stripped)
		if stripped == name {
			break
		}
		name = stripped
	}
	return name
}
