package namevalidator

import "testing"

func TestRejectValidNames(t *testing.T) {
	valid := []string{
		"John Smith",
		"Mary Jane Watson",
		"Robert van der Berg",
		"Jean-Pierre Dubois",
	}
	for _, name := range valid {
		if rule := Reject(name); rule != "" {
			t.Errorf("Reject(%q) = %q, want valid", name, rule)
		}
	}
}

func TestRejectEmpty(t *testing.T) {
	if rule := Reject("   "); rule != "empty" {
		t.Errorf("Reject(whitespace) = %q, want empty", rule)
	}
}

func TestRejectBlocklistedHeaderToken(t *testing.T) {
	if rule := Reject("Name"); rule != "blocklisted_header_token" {
		t.Errorf("Reject(Name) = %q, want blocklisted_header_token", rule)
	}
	if rule := Reject("chief executive officer"); rule != "blocklisted_header_token" {
		t.Errorf("Reject(chief executive officer) = %q, want blocklisted_header_token", rule)
	}
}

func TestRejectCompanySuffix(t *testing.T) {
	cases := []string{"Acme Corp.", "Global Holdings LLC", "Smith Trust"}
	for _, name := range cases {
		if rule := Reject(name); rule != "company_suffix" {
			t.Errorf("Reject(%q) = %q, want company_suffix", name, rule)
		}
	}
}

func TestRejectAllCapsLong(t *testing.T) {
	if rule := Reject("JOHN MICHAEL SMITH"); rule != "all_caps_long" {
		t.Errorf("Reject(ALL CAPS) = %q, want all_caps_long", rule)
	}
}

func TestRejectContainsYear(t *testing.T) {
	if rule := Reject("Fiscal Year 2021"); rule != "contains_year" {
		t.Errorf("Reject(year) = %q, want contains_year", rule)
	}
}

func TestRejectSecFormReference(t *testing.T) {
	if rule := Reject("See Form 10-K filing"); rule != "sec_form_reference" {
		t.Errorf("Reject(form ref) = %q, want sec_form_reference", rule)
	}
}

func TestRejectSentencePattern(t *testing.T) {
	if rule := Reject("The Company was renamed"); rule != "sentence_pattern" {
		t.Errorf("Reject(sentence) = %q, want sentence_pattern", rule)
	}
}

func TestRejectFootnoteMarker(t *testing.T) {
	if rule := Reject("(1)"); rule != "footnote_marker" {
		t.Errorf("Reject(footnote) = %q, want footnote_marker", rule)
	}
}

func TestRejectTooShort(t *testing.T) {
	if rule := Reject("Al"); rule != "too_short" {
		t.Errorf("Reject(Al) = %q, want too_short", rule)
	}
}

func TestRejectDigitRatioTooHigh(t *testing.T) {
	if rule := Reject("J0hn5 5m1th9"); rule != "digit_ratio_too_high" {
		t.Errorf("Reject(digit-heavy) = %q, want digit_ratio_too_high", rule)
	}
}

func TestRejectWordCountOrLength(t *testing.T) {
	if rule := Reject("John"); rule != "word_count_or_length" {
		t.Errorf("Reject(single word) = %q, want word_count_or_length", rule)
	}
	if rule := Reject("A Very Long String Of Seven Words Here"); rule != "word_count_or_length" {
		t.Errorf("Reject(7 words) = %q, want word_count_or_length", rule)
	}
}

func TestRejectLeadingLowercase(t *testing.T) {
	if rule := Reject("john smith"); rule != "leading_lowercase" {
		t.Errorf("Reject(lowercase) = %q, want leading_lowercase", rule)
	}
}

func TestRejectLeadingLowercaseAllowsMidNameParticle(t *testing.T) {
	if rule := Reject("robert van der Berg"); rule != "" {
		t.Errorf("Reject(particle name) = %q, want valid", rule)
	}
}

func TestRejectLooksConcatenated(t *testing.T) {
	name := "John Smith Mary Jones Robert Lee"
	if rule := Reject(name); rule != "looks_concatenated" && rule != "word_count_or_length" {
		t.Errorf("Reject(%q) = %q, want looks_concatenated or word_count_or_length", name, rule)
	}
}

func TestValid(t *testing.T) {
	if !Valid("Jane Doe") {
		t.Error("expected Jane Doe to be valid")
	}
	if Valid("Name") {
		t.Error("expected Name to be invalid")
	}
}
