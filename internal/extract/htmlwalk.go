package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// headingBeforeTable walks backward through a table's preceding siblings
// (and its ancestors' preceding siblings) looking for the nearest heading or
// bold text, used to match a table's caption against the section-header
// regexes in spec.md §4.2.1/§4.2.3.
func headingBeforeTable(table *goquery.Selection) string {
	for node := table; node.Length() > 0; node = node.Parent() {
		prev := node.Prev()
		for prev.Length() > 0 {
			text := strings.TrimSpace(prev.Text())
			if text != "" {
				return text
			}
			prev = prev.Prev()
		}
		if node.Is("body") || node.Parent().Length() == 0 {
			break
		}
	}
	return ""
}

// tableRows returns every non-empty row of a table, header rows included,
// as slices of trimmed cell text; callers decide whether to skip a header.
func tableRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

// rowLooksLikeHeader reports whether a row's cells look like column headers
// rather than data: no cell contains a digit.
func rowLooksLikeHeader(row []string) bool {
	digits := regexp.MustCompile(`\d`)
	for _, cell := range row {
		if digits.MatchString(cell) {
			return false
		}
	}
	return true
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// parseNumber strips commas/currency symbols and treats the common
// null-value tokens (-, —, *, N/A) as "no value", per spec.md §4.2.1.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "-", "—", "*", "N/A", "n/a":
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var (
	lessThanOnePercent = regexp.MustCompile(`(?i)less than 1\s*%?`)
	percentPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent)`)
)

// parsePercent implements spec.md §4.2.1's percentage rule: accepts
// "8.2%", "8.2 percent", and maps "less than 1%" to 0.5.
func parsePercent(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if lessThanOnePercent.MatchString(s) {
		return 0.5, true
	}
	m := percentPattern.FindStringSubmatch(s)
	if m == nil {
		return parseNumber(s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// stripTags removes <style> and <script> blocks then any remaining tags,
// decodes entities (via goquery's text extraction) and normalizes
// whitespace, per spec.md §4.2.4's EventParser preprocessing step.
func stripTags(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("style, script").Remove()
	text := doc.Text()
	return collapseWhitespace(text), nil
}

var whitespaceRun = regexp.MustCompile(`[ \t\r\f\v]+`)
var blankLines = regexp.MustCompile(`\n{2,}`)

func collapseWhitespace(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
