package extract

import (
	"context"
	"regexp"

	"github.com/edgarintel/pipeline/internal/analyzer"
	"github.com/edgarintel/pipeline/internal/graphmodel"
)

// EventRecord is one 8-K item event, per spec.md §4.2.4.
type EventRecord struct {
	ItemNumber string
	ItemName   string
	SignalType string
	IsMASignal bool
	RawText    string
	Analysis   analyzer.EventResponse
}

var itemOccurrenceRe = regexp.MustCompile(`(?i)item\s+(\d{1,2})\.(\d{1,2})\b`)

const maxItemSliceChars = 5000

// Event strips markup from the 8-K filing HTML, locates each "Item N.NN"
// occurrence (deduplicated by first occurrence), and slices the text
// between consecutive items (capped at 5,000 chars), per spec.md §4.2.4.
// When an analyzer is supplied, each item's slice is additionally
// summarized into the record's Analysis field.
func Event(ctx context.Context, html string, filingID, filingURL string, llm analyzer.TextAnalyzer) (Result[EventRecord], error) {
	text, err := stripTags(html)
	if err != nil {
		return Result[EventRecord]{}, err
	}

	type occurrence struct {
		item string
		pos  int
	}

	seen := map[string]bool{}
	var occurrences []occurrence
	for _, loc := range itemOccurrenceRe.FindAllStringSubmatchIndex(text, -1) {
		major := text[loc[2]:loc[3]]
		minor := text[loc[4]:loc[5]]
		if len(minor) == 1 {
			minor = "0" + minor
		}
		item := major + "." + minor
		if seen[item] {
			continue
		}
		seen[item] = true
		occurrences = append(occurrences, occurrence{item: item, pos: loc[0]})
	}

	var records []EventRecord
	for i, occ := range occurrences {
		end := len(text)
		if i+1 < len(occurrences) {
			end = occurrences[i+1].pos
		}
		slice := text[occ.pos:end]
		if len(slice) > maxItemSliceChars {
			slice = slice[:maxItemSliceChars]
		}

		info := lookupItem(occ.item)
		rec := EventRecord{
			ItemNumber: occ.item,
			ItemName:   info.Name,
			SignalType: info.SignalType,
			IsMASignal: info.IsMASignal,
			RawText:    truncate(slice, 1000),
		}

		if llm != nil {
			if analysis, err := llm.ExtractEvent(ctx, slice); err == nil {
				rec.Analysis = analysis
			}
		}

		records = append(records, rec)
	}

	var warnings []string
	if len(records) == 0 {
		warnings = append(warnings, "no 'Item N.NN' occurrences found in filing text")
	}

	return Result[EventRecord]{
		Records: records,
		Metadata: Metadata{
			Method:         graphmodel.MethodRuleBased,
			Confidence:     0.95,
			SourceFilingID: filingID,
			SourceURL:      filingURL,
		},
		Warnings: warnings,
	}, nil
}
