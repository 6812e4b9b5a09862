// Package namevalidator implements the candidate-person-name rejection
// rules of spec.md §4.3. Extractors run every candidate name through Reject
// before inserting a Person node, so header rows, boilerplate fragments and
// concatenated-name artifacts never make it into the graph.
package namevalidator

import (
	"regexp"
	"strings"
)

// blocklist is the fixed set of header/boilerplate tokens that are never
// person names, matched case-insensitively.
var blocklist = map[string]bool{}

func init() {
	for _, tok := range []string{
		"name", "title", "age", "position", "director", "officer", "age (years)",
		"shares", "percent", "percentage", "class", "common stock", "total",
		"chief executive officer", "chief financial officer", "chief operating officer",
		"president", "vice president", "secretary", "treasurer", "chairman",
		"chairman of the board", "board of directors", "executive officers",
		"named executive officers", "security ownership", "beneficial ownership",
		"beneficial owner", "beneficial owners", "principal stockholders",
		"principal shareholders", "5% stockholders", "nominee", "nominees",
		"director since", "age at", "amount and nature", "amount", "nature of",
		"shares beneficially owned", "number of shares", "percent of class",
		"percent of outstanding", "ownership of", "signature", "signatures",
		"date", "relationship", "footnotes", "notes", "none", "n/a", "not applicable",
		"item", "form", "schedule", "exhibit", "table of contents", "part i",
		"part ii", "part iii", "subtotal", "grand total", "shareholder engagement",
		"corporate governance", "audit committee", "compensation committee",
		"nominating committee", "governance committee", "class i directors",
		"class ii directors", "class iii directors", "continuing directors",
		"director nominees", "other executive officers", "named officers",
		"section 16 reporting persons", "reporting person", "reporting persons",
		"issuer", "filer", "registrant", "co-registrant", "subsidiary",
		"subsidiaries", "jurisdiction", "state of incorporation", "ein",
		"ownership type", "transaction code", "transaction date", "trust",
		"fund", "partners", "holdings", "voting trust", "management",
		"senior management", "key employees",
	} {
		blocklist[tok] = true
	}
}

var companySuffixes = []string{
	" inc.", " inc", " llc", " l.l.c.", " ltd.", " ltd", " corp.", " corp",
	" gmbh", " s.a.", " sa", " nv", " n.v.", " plc", " ag", " co.", " co",
	" lp", " l.p.", " llp", " l.l.p.", " limited", " corporation", " company",
	" incorporated", " trust", " fund", " partners", " holdings",
}

var (
	documentStructureStart = regexp.MustCompile(`(?i)^(item|part|schedule|exhibit|table|appendix|note)\b`)
	fourDigitYear           = regexp.MustCompile(`\b(200[0-9]|201[0-9]|202[0-9])\b`)
	secFormReference        = regexp.MustCompile(`(?i)\b(form\s*(8-k|10-k|10-q|4|13d|13g|def\s*14a)|schedule\s*13[dg])\b`)
	sentencePattern         = regexp.MustCompile(`(?i)\b(is|was|filed)\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	footnoteMarker          = regexp.MustCompile(`^[\(\[]?\*{1,3}[\)\]]?$|^\(\d+\)$|^\d+\)$`)
	particleWords           = map[string]bool{"de": true, "van": true, "von": true, "la": true, "le": true, "del": true, "di": true}
)

// Reject returns a non-empty rule name describing why the candidate was
// rejected, or "" if the candidate passes all checks. Order matters: the
// first matching rule wins.
func Reject(candidate string) string {
	trimmed := strings.TrimSpace(candidate)

	// 1. Empty or whitespace-only.
	if trimmed == "" {
		return "empty"
	}

	// 2. Case-insensitive exact blocklist match.
	if blocklist[strings.ToLower(trimmed)] {
		return "blocklisted_header_token"
	}

	// 3. Company suffix.
	lower := strings.ToLower(trimmed)
	for _, suf := range companySuffixes {
		if strings.HasSuffix(lower, suf) {
			return "company_suffix"
		}
	}

	// 4. ALL-CAPS and length > 10.
	if len(trimmed) > 10 && isAllCaps(trimmed) {
		return "all_caps_long"
	}

	// 5. Fixed regex set.
	if documentStructureStart.MatchString(trimmed) {
		return "document_structure_word"
	}
	if fourDigitYear.MatchString(trimmed) {
		return "contains_year"
	}
	if secFormReference.MatchString(trimmed) {
		return "sec_form_reference"
	}
	if sentencePattern.MatchString(trimmed) {
		return "sentence_pattern"
	}
	if strings.Count(trimmed, "\n") >= 3 {
		return "multiple_newlines"
	}
	if footnoteMarker.MatchString(trimmed) {
		return "footnote_marker"
	}

	// 6. Length / letter / digit-ratio checks.
	letters, digits := countLettersDigits(trimmed)
	if len(trimmed) < 3 || letters < 2 {
		return "too_short"
	}
	if letters > 0 && float64(digits)/float64(letters) > 0.3 {
		return "digit_ratio_too_high"
	}

	// 7. Word count / overall length.
	words := strings.Fields(trimmed)
	if len(words) < 2 || len(words) > 6 || len(trimmed) > 60 {
		return "word_count_or_length"
	}

	// 8. Leading lowercase, unless a mid-name particle.
	if r := []rune(trimmed)[0]; r >= 'a' && r <= 'z' {
		if !hasMidNameParticle(words) {
			return "leading_lowercase"
		}
	}

	// 9. Concatenated-name heuristic.
	if looksConcatenated(words) {
		return "looks_concatenated"
	}

	return ""
}

// Valid reports whether a candidate passes every rule.
func Valid(candidate string) bool {
	return Reject(candidate) == ""
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func countLettersDigits(s string) (letters, digits int) {
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letters++
		case r >= '0' && r <= '9':
			digits++
		}
	}
	return
}

func hasMidNameParticle(words []string) bool {
	for _, w := range words[1:] {
		if particleWords[strings.ToLower(strings.Trim(w, "."))] {
			return true
		}
	}
	return false
}

// looksConcatenated flags strings where five or more words are capitalized
// and at least three look like FirstLast boundaries glued together without
// a separator other than casing (e.g. "JohnSmithMaryJonesRobertLee" split
// into tokens upstream still shows as runs of capitalized short words).
func looksConcatenated(words []string) bool {
	capWords := 0
	for _, w := range words {
		if w == "" {
			continue
		}
		if r := []rune(w)[0]; r >= 'A' && r <= 'Z' {
			capWords++
		}
	}
	if capWords < 5 {
		return false
	}

	transitions := 0
	for i := 1; i < len(words); i++ {
		prev, cur := words[i-1], words[i]
		if isCapitalizedWord(prev) && isCapitalizedWord(cur) && len(prev) <= 10 && len(cur) <= 10 {
			transitions++
		}
	}
	return transitions >= 3
}

func isCapitalizedWord(w string) bool {
	if w == "" {
		return false
	}
	r := []rune(w)[0]
	return r >= 'A' && r <= 'Z'
}
