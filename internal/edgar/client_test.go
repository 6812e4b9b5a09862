package edgar

import (
	"strings"
	"testing"
)

func TestNewRejectsPlaceholderUserAgent(t *testing.T) {
	cases := []string{"", "placeholder", "Placeholder", "no-email-here"}
	for _, ua := range cases {
		if _, err := New(ua, 10, 0); err == nil {
			t.Errorf("expected ConfigError for user agent %q", ua)
		}
	}
}

func TestNewAcceptsValidUserAgent(t *testing.T) {
	c, err := New("Research Project research@example.com", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.userAgent == "" {
		t.Error("expected user agent to be stored")
	}
}

func TestCleanFilerName(t *testing.T) {
	cases := map[string]string{
		"Apple Inc. (AAPL) (CIK 0000320193)": "Apple Inc.",
		"Tesla, Inc. (CIK 0001318605)":       "Tesla, Inc.",
		"No Parens Co":                       "No Parens Co",
	}
	for in, want := range cases {
		if got := cleanFilerName(in); got != want {
			t.Errorf("cleanFilerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScoreMatch(t *testing.T) {
	tests := []struct {
		q, ticker, name string
		want            int
	}{
		{"AAPL", "AAPL", "Apple Inc.", scoreExactTicker},
		{"AAP", "AAPL", "Apple Inc.", scoreTickerPrefix},
		{"APPLE INC.", "AAPL", "Apple Inc.", scoreExactName},
		{"APPLE", "AAPL", "Apple Inc.", scoreNamePrefix},
		{"INC", "AAPL", "Apple Inc.", scoreWordPrefix},
		{"PPLE", "AAPL", "Apple Inc.", scoreNameSubstring},
		{"PL", "AAPL", "Apple Inc.", scoreNameSubstring},
		{"ZZZZ", "AAPL", "Apple Inc.", 0},
	}
	for _, tt := range tests {
		if got := scoreMatch(strings.ToUpper(tt.q), tt.ticker, tt.name); got != tt.want {
			t.Errorf("scoreMatch(%q, %q, %q) = %d, want %d", tt.q, tt.ticker, tt.name, got, tt.want)
		}
	}
}

func TestAccessionNoDash(t *testing.T) {
	got := accessionNoDash("0000320193-23-000106")
	want := "000032019323000106"
	if got != want {
		t.Errorf("accessionNoDash = %q, want %q", got, want)
	}
}

func TestTrimLeadingZerosCIK(t *testing.T) {
	if got := trimLeadingZerosCIK("0000320193"); got != "320193" {
		t.Errorf("trimLeadingZerosCIK = %q, want 320193", got)
	}
}
