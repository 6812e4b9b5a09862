package connections

import "testing"

func TestSentenceTemplates(t *testing.T) {
	cases := []struct {
		hop  EdgeHop
		want string
	}{
		{EdgeHop{Type: "OWNS", FromName: "Acme Holdings", ToName: "Acme Corp", Percentage: 51.5}, "Acme Holdings owns 51.5% of Acme Corp"},
		{EdgeHop{Type: "OFFICER_OF", FromName: "Jane Doe", ToName: "Acme Corp", Title: "CEO"}, "Jane Doe is CEO of Acme Corp"},
		{EdgeHop{Type: "DIRECTOR_OF", FromName: "Jane Doe", ToName: "Acme Corp"}, "Jane Doe is a director of Acme Corp"},
	}
	for _, c := range cases {
		if got := c.hop.Sentence(); got != c.want {
			t.Errorf("Sentence() = %q, want %q", got, c.want)
		}
	}
}

func TestBucketStrength(t *testing.T) {
	cases := map[int]Strength{
		0: StrengthNone,
		1: StrengthWeak,
		2: StrengthWeak,
		3: StrengthModerate,
		5: StrengthModerate,
		6: StrengthStrong,
		20: StrengthStrong,
	}
	for total, want := range cases {
		if got := bucketStrength(total); got != want {
			t.Errorf("bucketStrength(%d) = %q, want %q", total, got, want)
		}
	}
}

func TestParseHopsAndOverallConfidence(t *testing.T) {
	raw := []any{
		map[string]any{"type": "OWNS", "confidence": 0.9, "percentage": 60.0, "from_name": "A", "to_name": "B"},
		map[string]any{"type": "OFFICER_OF", "confidence": 0.5, "title": "CFO", "from_name": "B", "to_name": "C"},
	}
	hops := parseHops(raw)
	if len(hops) != 2 {
		t.Fatalf("expected 2 hops, got %d", len(hops))
	}
	min := 1.0
	for _, h := range hops {
		if h.Confidence < min {
			min = h.Confidence
		}
	}
	if min != 0.5 {
		t.Errorf("expected overall confidence 0.5 (the min edge), got %f", min)
	}
}
