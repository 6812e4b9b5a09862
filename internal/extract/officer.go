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

// OfficerRecord is one officer/director row, per spec.md §4.2.3.
type OfficerRecord struct {
	Name        string
	Title       string
	Age         int
	IsOfficer   bool
	IsDirector  bool
	IsExecutive bool
	RawText     string
}

var sectionHeadingRe = regexp.MustCompile(`(?i)executive officers?|board of directors|director nominees?|nominees|class\s+(i{1,3}|iv)\s+directors?|continuing directors`)

var narrativeNameAgeTitleRe = regexp.MustCompile(`(?i)^([A-Z][a-zA-Z.'\-]+(?:\s+[A-Z][a-zA-Z.'\-]+){1,3}),\s*age\s*(\d{1,3}),\s*(.+)$`)
var boardMemberSinceRe = regexp.MustCompile(`(?i)^([A-Z][a-zA-Z.'\-]+(?:\s+[A-Z][a-zA-Z.'\-]+){1,3}),\s*Director since\s*(.+)$`)
var nameParenAgeRe = regexp.MustCompile(`^([A-Z][a-zA-Z.'\-]+(?:\s+[A-Z][a-zA-Z.'\-]+){1,3})\s*\((\d{1,3})\)$`)
var nameCommaAgeRe = regexp.MustCompile(`^([A-Z][a-zA-Z.'\-]+(?:\s+[A-Z][a-zA-Z.'\-]+){1,3}),\s*(\d{1,3})\b(.*)$`)

var executiveTitleWords = []string{
	"chief executive officer", "chief financial officer", "chief operating officer",
	"chief technology officer", "chief legal officer", "chief accounting officer",
	"president", "executive vice president", "senior vice president",
	"chairman", "chief strategy officer", "chief revenue officer",
}
var officerTitleWords = []string{
	"vice president", "secretary", "treasurer", "controller", "general counsel",
}

// Officer extracts officer and director records from DEF 14A HTML using the
// three parallel strategies of spec.md §4.2.3, deduplicated by
// case-insensitive name.
func Officer(ctx context.Context, html string, filingID, filingURL string, llm analyzer.TextAnalyzer) (Result[OfficerRecord], error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Result[OfficerRecord]{}, err
	}

	seen := map[string]*OfficerRecord{}
	order := []string{}
	add := func(r OfficerRecord) {
		if !namevalidator.Valid(r.Name) {
			return
		}
		key := strings.ToLower(r.Name)
		if existing, ok := seen[key]; ok {
			mergeOfficerFlags(existing, r)
			return
		}
		rec := r
		seen[key] = &rec
		order = append(order, key)
	}

	officersFromTables(doc, add)
	officersFromNarrative(doc, add)

	directorsFound := false
	for _, k := range order {
		if seen[k].IsDirector {
			directorsFound = true
			break
		}
	}
	if !directorsFound {
		officersFromBoardScan(doc, add)
	}

	var records []OfficerRecord
	for _, k := range order {
		records = append(records, *seen[k])
	}

	method := graphmodel.MethodRuleBased
	confidence := 0.9
	var warnings []string

	// Hybrid policy for officer data: fall back if rule-based found < 3
	// records, OR found officers but no directors, OR found nothing.
	officerCount, directorCount := 0, 0
	for _, r := range records {
		if r.IsOfficer {
			officerCount++
		}
		if r.IsDirector {
			directorCount++
		}
	}
	shouldFallback := len(records) < 3 || (officerCount > 0 && directorCount == 0) || len(records) == 0

	if shouldFallback && llm != nil {
		resp, llmErr := llm.ExtractOfficer(ctx, html)
		if llmErr == nil {
			for _, r := range resp.Records {
				if _, exists := seen[strings.ToLower(r.Name)]; exists {
					continue
				}
				if !namevalidator.Valid(r.Name) {
					continue
				}
				records = append(records, OfficerRecord{
					Name:        r.Name,
					Title:       r.Title,
					Age:         r.Age,
					IsOfficer:   r.IsOfficer,
					IsDirector:  r.IsDirector,
					IsExecutive: r.IsExecutive,
					RawText:     truncate(r.RawText, 300),
				})
			}
			if resp.Confidence > 0 {
				confidence = resp.Confidence
			}
			method = graphmodel.MethodHybrid
		} else {
			warnings = append(warnings, llmErr.Error())
		}
	}

	if len(records) == 0 {
		warnings = append(warnings, "no officer or director records found")
	}

	return Result[OfficerRecord]{
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

func mergeOfficerFlags(existing *OfficerRecord, incoming OfficerRecord) {
	existing.IsOfficer = existing.IsOfficer || incoming.IsOfficer
	existing.IsDirector = existing.IsDirector || incoming.IsDirector
	existing.IsExecutive = existing.IsExecutive || incoming.IsExecutive
	if existing.Title == "" {
		existing.Title = incoming.Title
	}
	if existing.Age == 0 {
		existing.Age = incoming.Age
	}
}

// strategy 1: tables under a matching section heading.
func officersFromTables(doc *goquery.Document, add func(OfficerRecord)) {
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		heading := headingBeforeTable(table)
		if !sectionHeadingRe.MatchString(heading) {
			return
		}
		sectionIsDirector, sectionIsOfficer := classifySectionContext(heading)

		rows := tableRows(table)
		start := 0
		if len(rows) > 0 && rowLooksLikeHeader(rows[0]) {
			start = 1
		}
		for _, row := range rows[start:] {
			if len(row) == 0 {
				continue
			}
			name := strings.TrimSpace(row[0])
			title := ""
			if len(row) > 1 {
				title = strings.TrimSpace(row[1])
			}
			rec := classifyOfficerRole(name, title, strings.Join(row, " "))
			applySectionFallback(&rec, sectionIsDirector, sectionIsOfficer)
			add(rec)
		}
	})
}

// strategy 2: narrative "Name, age NN, Title" and <b>Name</b> patterns.
func officersFromNarrative(doc *goquery.Document, add func(OfficerRecord)) {
	text := doc.Text()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if m := narrativeNameAgeTitleRe.FindStringSubmatch(line); m != nil {
			age, _ := strconv.Atoi(m[2])
			if age < 25 || age > 100 {
				continue
			}
			rec := classifyOfficerRole(m[1], m[3], line)
			rec.Age = age
			add(rec)
		}
	}

	doc.Find("b, strong").Each(func(_ int, b *goquery.Selection) {
		name := strings.TrimSpace(b.Text())
		if !looksLikeName(name) {
			return
		}
		title := strings.TrimSpace(b.Parent().Text())
		title = strings.TrimPrefix(title, name)
		title = strings.TrimSpace(strings.TrimLeft(title, ",:- "))
		if title == "" {
			return
		}
		add(classifyOfficerRole(name, title, title))
	})
}

// strategy 3: targeted board-member scan, used only when no director was
// found via the other two strategies.
func officersFromBoardScan(doc *goquery.Document, add func(OfficerRecord)) {
	doc.Find("h1,h2,h3,h4,b,strong").Each(func(_ int, heading *goquery.Selection) {
		text := heading.Text()
		if !sectionHeadingRe.MatchString(text) {
			return
		}
		sib := heading.Next()
		for i := 0; i < 40 && sib.Length() > 0; i++ {
			line := strings.TrimSpace(sib.Text())
			if sectionHeadingRe.MatchString(line) && line != text {
				break
			}
			for _, ln := range strings.Split(line, "\n") {
				ln = strings.TrimSpace(ln)
				if m := boardMemberSinceRe.FindStringSubmatch(ln); m != nil {
					rec := classifyOfficerRole(m[1], "Director", ln)
					rec.IsDirector = true
					add(rec)
					continue
				}
				if m := nameParenAgeRe.FindStringSubmatch(ln); m != nil {
					age, _ := strconv.Atoi(m[2])
					if age >= 30 && age <= 95 {
						rec := classifyOfficerRole(m[1], "Director", ln)
						rec.IsDirector = true
						rec.Age = age
						add(rec)
					}
					continue
				}
				if m := nameCommaAgeRe.FindStringSubmatch(ln); m != nil {
					age, _ := strconv.Atoi(m[2])
					if age >= 30 && age <= 95 {
						rec := classifyOfficerRole(m[1], strings.TrimSpace(m[3]), ln)
						rec.IsDirector = true
						rec.Age = age
						add(rec)
					}
				}
			}
			sib = sib.Next()
		}
	})
}

func looksLikeName(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	return namevalidator.Valid(s)
}

// classifySectionContext implements the section-context fallback of
// spec.md §4.2.3.
func classifySectionContext(heading string) (isDirector, isOfficer bool) {
	lower := strings.ToLower(heading)
	if strings.Contains(lower, "board of directors") || strings.Contains(lower, "director") || strings.Contains(lower, "nominee") {
		isDirector = true
	}
	if strings.Contains(lower, "executive officer") {
		isOfficer = true
	}
	return
}

func applySectionFallback(rec *OfficerRecord, sectionIsDirector, sectionIsOfficer bool) {
	if rec.IsOfficer || rec.IsDirector {
		return
	}
	if sectionIsDirector {
		rec.IsDirector = true
	}
	if sectionIsOfficer {
		rec.IsOfficer = true
		rec.IsExecutive = true
	}
}

// classifyOfficerRole applies word-boundary title-token matching;
// "Director" alone classifies as director only, never officer.
func classifyOfficerRole(name, title, rawText string) OfficerRecord {
	rec := OfficerRecord{Name: strings.TrimSpace(name), Title: strings.TrimSpace(title), RawText: truncate(rawText, 300)}
	lowerTitle := strings.ToLower(title)

	for _, word := range executiveTitleWords {
		if containsWord(lowerTitle, word) {
			rec.IsOfficer = true
			rec.IsExecutive = true
			break
		}
	}
	if !rec.IsOfficer {
		for _, word := range officerTitleWords {
			if containsWord(lowerTitle, word) {
				rec.IsOfficer = true
				break
			}
		}
	}
	if containsWord(lowerTitle, "director") {
		rec.IsDirector = true
	}
	return rec
}

func containsWord(haystack, needle string) bool {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(needle) + `\b`).MatchString(haystack)
}
