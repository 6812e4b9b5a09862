package sanctions

import "testing"

func TestJaroWinklerIdentical(t *testing.T) {
	if got := jaroWinkler("SMITH", "SMITH"); got != 1.0 {
		t.Errorf("expected 1.0 for identical strings, got %f", got)
	}
}

func TestJaroWinklerSimilarNames(t *testing.T) {
	got := jaroWinkler("MARTHA", "MARHTA")
	if got < 0.9 {
		t.Errorf("expected high similarity for a classic transposition pair, got %f", got)
	}
}

func TestJaroWinklerDissimilar(t *testing.T) {
	got := jaroWinkler("JOHN SMITH", "MARY JONES")
	if got > 0.6 {
		t.Errorf("expected low similarity for unrelated names, got %f", got)
	}
}

func TestMatchOFACExact(t *testing.T) {
	m := MatchOFAC("John Doe", SDNCandidate{Name: "JOHN DOE"})
	if m.Tier != MatchExact || m.RequiresReview {
		t.Errorf("expected exact match without review, got %+v", m)
	}
}

func TestMatchOFACAlias(t *testing.T) {
	m := MatchOFAC("Johnny D", SDNCandidate{Name: "John Doe", Aliases: []string{"Johnny D"}})
	if m.Tier != MatchAlias || m.RequiresReview {
		t.Errorf("expected alias match without review, got %+v", m)
	}
}

func TestMatchOFACFuzzyRequiresReview(t *testing.T) {
	m := MatchOFAC("Jon Doe", SDNCandidate{Name: "John Doe"})
	if m.Tier != MatchFuzzy || !m.RequiresReview {
		t.Errorf("expected fuzzy match requiring review, got %+v", m)
	}
}

func TestMatchOFACNone(t *testing.T) {
	m := MatchOFAC("Completely Different Name", SDNCandidate{Name: "John Doe"})
	if m.Tier != MatchNone {
		t.Errorf("expected no match, got %+v", m)
	}
}

func TestRiskLevelBucketing(t *testing.T) {
	cases := []struct {
		exposure Exposure
		want     RiskLevel
	}{
		{Exposure{Direct: true}, RiskHigh},
		{Exposure{OwnersSanctioned: []string{"X"}}, RiskHigh},
		{Exposure{NHopMatches: []HopMatch{{Hops: 2}}, MinHops: 2}, RiskMedium},
		{Exposure{NHopMatches: []HopMatch{{Hops: 3}}, MinHops: 3}, RiskLow},
		{Exposure{}, RiskNone},
	}
	for _, c := range cases {
		if got := riskLevel(c.exposure); got != c.want {
			t.Errorf("riskLevel(%+v) = %q, want %q", c.exposure, got, c.want)
		}
	}
}
