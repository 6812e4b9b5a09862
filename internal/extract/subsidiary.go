package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/edgarintel/pipeline/internal/analyzer"
	"github.com/edgarintel/pipeline/internal/graphmodel"
	"github.com/edgarintel/pipeline/internal/namevalidator"
)

// SubsidiaryRecord is one Exhibit 21 subsidiary entry, per spec.md §4.2.2.
type SubsidiaryRecord struct {
	Name          string
	Jurisdiction  string
	IsWhollyOwned bool
	RawText       string
}

var jurisdictionMap = map[string]string{
	"DE": "Delaware", "DELAWARE": "Delaware",
	"NV": "Nevada", "NEVADA": "Nevada",
	"CA": "California", "CALIFORNIA": "California",
	"NY": "New York", "NEW YORK": "New York",
	"UK": "United Kingdom", "U.K.": "United Kingdom", "UNITED KINGDOM": "United Kingdom",
	"CAYMAN": "Cayman Islands", "CAYMAN ISLANDS": "Cayman Islands",
	"BVI": "British Virgin Islands", "BRITISH VIRGIN ISLANDS": "British Virgin Islands",
	"IRELAND": "Ireland", "LUXEMBOURG": "Luxembourg", "BERMUDA": "Bermuda",
	"HONG KONG": "Hong Kong", "SINGAPORE": "Singapore", "CANADA": "Canada",
	"GERMANY": "Germany", "SWITZERLAND": "Switzerland", "NETHERLANDS": "Netherlands",
}

// normalizeJurisdiction maps known abbreviations/aliases to a canonical
// name via jurisdictionMap; unknown jurisdictions are title-cased as-is.
func normalizeJurisdiction(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canon, ok := jurisdictionMap[key]; ok {
		return canon
	}
	return titleCase(strings.TrimSpace(raw))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var (
	nameJurisdictionRe = regexp.MustCompile(`^([A-Za-z0-9 .,&'\-]+?)\s*\(([A-Za-z .]+)\)\s*$`)
	nameStateCorpRe     = regexp.MustCompile(`(?i)^([A-Za-z0-9 .,&'\-]+?),\s*a\s+([A-Za-z ]+?)\s+(corporation|company|LLC)\s*$`)
	whollyOwnedRe       = regexp.MustCompile(`(?i)wholly[\s-]owned`)
	percentOwnedRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// Subsidiary extracts Exhibit 21 subsidiary lists, trying a table path
// first then a narrative-text regex path, per spec.md §4.2.2.
func Subsidiary(ctx context.Context, doc string, filingID, filingURL string, llm analyzer.TextAnalyzer) (Result[SubsidiaryRecord], error) {
	records, warnings, err := subsidiaryFromTables(doc)
	if err != nil {
		return Result[SubsidiaryRecord]{}, err
	}
	if len(records) == 0 {
		records, warnings = subsidiaryFromText(doc)
	}

	method := graphmodel.MethodRuleBased
	confidence := 0.95

	if len(records) == 0 && llm != nil {
		resp, llmErr := llm.ExtractSubsidiary(ctx, doc)
		if llmErr == nil && len(resp.Records) > 0 {
			for _, r := range resp.Records {
				if !namevalidator.Valid(r.Name) {
					continue
				}
				records = append(records, SubsidiaryRecord{
					Name:          r.Name,
					Jurisdiction:  normalizeJurisdiction(r.Jurisdiction),
					IsWhollyOwned: r.IsWhollyOwned,
					RawText:       truncate(r.RawText, 300),
				})
			}
			method = graphmodel.MethodLLM
			confidence = resp.Confidence
			if confidence == 0 {
				confidence = 0.8
			}
		} else if llmErr != nil {
			warnings = append(warnings, llmErr.Error())
		}
	}

	return Result[SubsidiaryRecord]{
		Records: records,
		Metadata: Metadata{
			Method:         method,
			Confidence:     confidence,
			SourceFilingID: filingID,
			SourceURL:      filingURL,
		},
		Warnings: warnings,
	}, nil
}

func subsidiaryFromTables(html string) ([]SubsidiaryRecord, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, err
	}

	var records []SubsidiaryRecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := tableRows(table)
		start := 0
		if len(rows) > 0 && rowLooksLikeHeader(rows[0]) {
			start = 1
		}
		for _, row := range rows[start:] {
			if len(row) < 2 {
				continue
			}
			name := strings.TrimSpace(row[0])
			jurisdiction := strings.TrimSpace(row[1])
			if name == "" || jurisdiction == "" {
				continue
			}
			pct := ""
			if len(row) >= 3 {
				pct = row[2]
			}
			records = append(records, SubsidiaryRecord{
				Name:          name,
				Jurisdiction:  normalizeJurisdiction(jurisdiction),
				IsWhollyOwned: isWhollyOwned(pct),
				RawText:       truncate(strings.Join(row, " | "), 300),
			})
		}
	})
	var warnings []string
	if len(records) == 0 {
		warnings = append(warnings, "no two-column subsidiary table found")
	}
	return records, warnings, nil
}

func subsidiaryFromText(raw string) ([]SubsidiaryRecord, []string) {
	text, err := stripTags(raw)
	if err != nil {
		text = raw
	}

	var records []SubsidiaryRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := nameJurisdictionRe.FindStringSubmatch(line); m != nil {
			records = append(records, SubsidiaryRecord{
				Name:          strings.TrimSpace(m[1]),
				Jurisdiction:  normalizeJurisdiction(m[2]),
				IsWhollyOwned: isWhollyOwned(line),
				RawText:       truncate(line, 300),
			})
			continue
		}
		if m := nameStateCorpRe.FindStringSubmatch(line); m != nil {
			records = append(records, SubsidiaryRecord{
				Name:          strings.TrimSpace(m[1]),
				Jurisdiction:  normalizeJurisdiction(m[2]),
				IsWhollyOwned: isWhollyOwned(line),
				RawText:       truncate(line, 300),
			})
		}
	}

	var warnings []string
	if len(records) == 0 {
		warnings = append(warnings, "no subsidiary lines matched the narrative patterns")
	}
	return records, warnings
}

// isWhollyOwned implements spec.md §4.2.2: is_wholly_owned = (pct == 100 or
// "wholly" present).
func isWhollyOwned(s string) bool {
	if whollyOwnedRe.MatchString(s) {
		return true
	}
	if m := percentOwnedRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v == 100 {
			return true
		}
	}
	return strings.Contains(s, "100%")
}
