// Package graphmodel defines the typed node and edge records that make up
// the property graph described in spec.md §3: Company, Person, Filing,
// Event, InsiderTransaction, Jurisdiction, SanctionedEntity, Alert and
// ScannerState nodes, plus the provenance-bearing edges between them.
package graphmodel

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// NormalizeCIK strips non-digit characters and zero-pads to 10 digits, per
// the invariant in spec.md §3.3.1: "cik, when present, is always 10 digits,
// zero-padded."
func NormalizeCIK(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	for len(digits) < 10 {
		digits = "0" + digits
	}
	return digits
}

// NormalizeName uppercases and trims a name for use as a natural key
// (Company.normalized_name, Person.normalized_name).
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(collapseSpaces(name)))
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
