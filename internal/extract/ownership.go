package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/edgarintel/pipeline/internal/analyzer"
	"github.com/edgarintel/pipeline/internal/graphmodel"
	"github.com/edgarintel/pipeline/internal/namevalidator"
)

// OwnershipRecord is one beneficial-ownership row, per spec.md §4.2.1.
type OwnershipRecord struct {
	OwnerName  string
	OwnerType  string // "person" | "company"
	Shares     float64
	Percentage float64
	RawText    string
	Section    string
	Table      string
}

var ownershipCaptionRe = regexp.MustCompile(`(?i)beneficial own|security ownership|principal (stock|share)holders|percent\s*(of\s*)?(class|outstanding)`)

var institutionNames = map[string]bool{
	"THE VANGUARD GROUP": true, "BLACKROCK, INC.": true, "STATE STREET CORPORATION": true,
	"FMR LLC": true, "T. ROWE PRICE ASSOCIATES, INC.": true, "CAPITAL RESEARCH AND MANAGEMENT COMPANY": true,
}

var companyOwnerSuffixes = []string{"inc", "corp", "llc", "ltd", "fund", "trust", "partners", "l.p.", "lp", "plc"}
var titlePrefixes = []string{"mr.", "mrs.", "ms.", "dr.", "mr", "mrs", "ms", "dr"}

// Ownership extracts beneficial-ownership tables from DEF 14A / 13D / 13G
// HTML, per spec.md §4.2.1, with an LLM fallback when rule-based parsing
// finds nothing.
func Ownership(ctx context.Context, html string, filingID, filingURL string, llm analyzer.TextAnalyzer) (Result[OwnershipRecord], error) {
	records, warnings, err := ownershipFromTables(html)
	if err != nil {
		return Result[OwnershipRecord]{}, err
	}

	method := graphmodel.MethodRuleBased
	confidence := 0.95
	if len(records) == 0 {
		warnings = append(warnings, "no candidate ownership tables found")
	}

	// Hybrid policy for ownership: fall back only if rule-based found nothing.
	if len(records) == 0 && llm != nil {
		llmRecords, llmConfidence, llmErr := ownershipFromLLM(ctx, html, llm)
		if llmErr == nil && len(llmRecords) > 0 {
			records = llmRecords
			method = graphmodel.MethodLLM
			confidence = llmConfidence
		} else if llmErr != nil {
			warnings = append(warnings, llmErr.Error())
		}
	}

	return Result[OwnershipRecord]{
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

func ownershipFromTables(html string) ([]OwnershipRecord, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, err
	}

	var records []OwnershipRecord
	var warnings []string

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		caption := headingBeforeTable(table)
		if !ownershipCaptionRe.MatchString(caption) && !ownershipCaptionRe.MatchString(table.Find("caption").Text()) {
			return
		}

		rows := tableRows(table)
		if len(rows) == 0 {
			return
		}

		nameCol, sharesCol, pctCol := 0, 1, 2
		start := 0
		if rowLooksLikeHeader(rows[0]) {
			nameCol, sharesCol, pctCol = detectColumns(rows[0])
			start = 1
		}

		for _, row := range rows[start:] {
			if nameCol >= len(row) {
				continue
			}
			name := strings.TrimSpace(row[nameCol])
			if name == "" || !namevalidator.Valid(name) {
				continue
			}

			var shares, pct float64
			if sharesCol < len(row) {
				shares, _ = parseNumber(row[sharesCol])
			}
			if pctCol < len(row) {
				pct, _ = parsePercent(row[pctCol])
			}

			records = append(records, OwnershipRecord{
				OwnerName:  name,
				OwnerType:  classifyOwnerType(name),
				Shares:     shares,
				Percentage: pct,
				RawText:    truncate(strings.Join(row, " | "), 300),
				Section:    truncate(caption, 120),
				Table:      truncate(table.Find("caption").Text(), 120),
			})
		}
	})

	if len(records) == 0 {
		warnings = append(warnings, "rule-based table scan found no ownership rows")
	}
	return records, warnings, nil
}

func detectColumns(header []string) (name, shares, pct int) {
	name, shares, pct = 0, 1, 2
	for i, h := range header {
		lower := strings.ToLower(h)
		switch {
		case strings.Contains(lower, "name"):
			name = i
		case strings.Contains(lower, "share"):
			shares = i
		case strings.Contains(lower, "percent"), strings.Contains(lower, "%"):
			pct = i
		}
	}
	return
}

// classifyOwnerType implements the owner-type classifier of spec.md §4.2.1:
// known institution list, then suffix match, then title prefix, then
// word-count heuristic.
func classifyOwnerType(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if institutionNames[upper] {
		return "company"
	}
	lower := strings.ToLower(name)
	for _, suf := range companyOwnerSuffixes {
		if strings.HasSuffix(strings.TrimRight(lower, ".,"), suf) {
			return "company"
		}
	}
	for _, p := range titlePrefixes {
		if strings.HasPrefix(lower, p+" ") {
			return "person"
		}
	}
	words := strings.Fields(name)
	if len(words) >= 2 && len(words) <= 4 {
		return "person"
	}
	return "company"
}

func ownershipFromLLM(ctx context.Context, html string, llm analyzer.TextAnalyzer) ([]OwnershipRecord, float64, error) {
	resp, err := llm.ExtractOwnership(ctx, html)
	if err != nil {
		return nil, 0, err
	}
	var out []OwnershipRecord
	for _, r := range resp.Records {
		if !namevalidator.Valid(r.OwnerName) {
			continue
		}
		out = append(out, OwnershipRecord{
			OwnerName:  r.OwnerName,
			OwnerType:  r.OwnerType,
			Shares:     r.Shares,
			Percentage: r.Percentage,
			RawText:    truncate(r.RawText, 300),
		})
	}
	confidence := resp.Confidence
	if confidence == 0 {
		confidence = 0.8
	}
	return out, confidence, nil
}
