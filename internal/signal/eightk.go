// Package signal implements the classification layer of spec.md §4.8-§4.10:
// the 8-K item-set classifier, the Form 4 trade-type classifier and insider
// cluster detector, and the combined signal feed that layers insider
// context onto M&A-relevant events.
package signal

import "strings"

// Level is an 8-K or combined signal severity.
type Level string

const (
	LevelLow          Level = "low"
	LevelMedium       Level = "medium"
	LevelHigh         Level = "high"
	LevelHighBearish  Level = "high_bearish"
	LevelCritical     Level = "critical"
)

var ipoKeywords = []string{
	"underwriting agreement",
	"initial public offering",
	"ipo",
	"prospectus supplement",
	"public offering price",
	"shares of common stock registered",
	"business combination agreement",
}

// EightKClassification is the result of classifying an 8-K's item set.
type EightKClassification struct {
	Level   Level
	Summary string
}

// ClassifyEightK implements spec.md §4.8's decision tree over the set of
// item numbers present in a single filing, with an optional raw-text
// slice used for the IPO keyword override.
func ClassifyEightK(items []string, rawText string) EightKClassification {
	set := toSet(items)

	has101 := set["1.01"]
	has501 := set["5.01"]
	has502 := set["5.02"]
	has503 := set["5.03"]
	has201 := set["2.01"]

	// Step 1: IPO override, only checked when 1.01 or 5.02/5.03 is present.
	if (has101 || has502 || has503) && containsIPOKeyword(rawText) {
		return EightKClassification{Level: LevelLow, Summary: "IPO/Offering Filing — Not M&A"}
	}

	dealClosed := has201 || has501

	// Step 3
	if has101 && !dealClosed {
		if has502 || has503 {
			return EightKClassification{Level: LevelHigh, Summary: "Deal in Progress — Material Agreement + Leadership Changes"}
		}
		return EightKClassification{Level: LevelMedium, Summary: "Material Agreement Filed — Potential Deal"}
	}

	// Step 4
	if has502 && has503 && !dealClosed {
		return EightKClassification{Level: LevelMedium, Summary: "Leadership and Governance Changes"}
	}

	// Step 5
	if dealClosed {
		if has101 {
			return EightKClassification{Level: LevelLow, Summary: "Acquisition Completed"}
		}
		return EightKClassification{Level: LevelLow, Summary: "Control Change Completed"}
	}

	// Step 6: single-item filings (and any other combination not matched above).
	switch {
	case has502:
		return EightKClassification{Level: LevelLow, Summary: "Executive Change"}
	case has503:
		return EightKClassification{Level: LevelLow, Summary: "Governance Change"}
	default:
		return EightKClassification{Level: LevelLow, Summary: "SEC Filing"}
	}
}

func containsIPOKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range ipoKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
