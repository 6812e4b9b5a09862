package graphmodel

import "testing"

func TestNormalizeCIKZeroPads(t *testing.T) {
	cases := map[string]string{
		"320193":       "0000320193",
		"0000320193":   "0000320193",
		"CIK0000320193": "0000320193",
		"":             "",
		"12345678901":  "2345678901",
	}
	for in, want := range cases {
		if got := NormalizeCIK(in); got != want {
			t.Errorf("NormalizeCIK(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeNameUppercasesAndCollapsesSpaces(t *testing.T) {
	cases := map[string]string{
		"  Apple   Inc.  ": "APPLE INC.",
		"apple inc":        "APPLE INC",
		"":                 "",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
