package signal

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestClassifyDirectCodes(t *testing.T) {
	cases := map[string]TradeType{
		"P": TradeBuy,
		"S": TradeSell,
		"A": TradeAward,
		"F": TradeTax,
		"G": TradeGift,
		"D": TradeDisposition,
		"C": TradeConversion,
		"W": TradeWill,
	}
	for code, want := range cases {
		got := Classify(Trade{Code: code}, nil)
		if got != want {
			t.Errorf("Classify(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestClassifyMExerciseSellWhenSameDaySale(t *testing.T) {
	trade := Trade{InsiderName: "DOE JOHN", TransactionDate: day("2026-06-01"), Code: "M"}
	got := Classify(trade, []string{"M", "S"})
	if got != TradeExerciseSell {
		t.Errorf("expected exercise_sell, got %q", got)
	}
}

func TestClassifyMExerciseHoldWithoutSameDaySale(t *testing.T) {
	trade := Trade{InsiderName: "DOE JOHN", TransactionDate: day("2026-06-01"), Code: "M"}
	got := Classify(trade, []string{"M"})
	if got != TradeExerciseHold {
		t.Errorf("expected exercise_hold, got %q", got)
	}
}

func TestClassifyMIgnoresTaxWithholdingCode(t *testing.T) {
	trade := Trade{InsiderName: "DOE JOHN", TransactionDate: day("2026-06-01"), Code: "M"}
	got := Classify(trade, []string{"M", "F"})
	if got != TradeExerciseHold {
		t.Errorf("F should not trigger exercise_sell, got %q", got)
	}
}

func TestSameDayCodesGroupsByInsiderAndDate(t *testing.T) {
	all := []Trade{
		{InsiderName: "DOE JOHN", TransactionDate: day("2026-06-01"), Code: "M"},
		{InsiderName: "DOE JOHN", TransactionDate: day("2026-06-01"), Code: "S"},
		{InsiderName: "DOE JOHN", TransactionDate: day("2026-06-02"), Code: "S"},
		{InsiderName: "SMITH JANE", TransactionDate: day("2026-06-01"), Code: "S"},
	}
	got := SameDayCodes(all[0], all)
	if len(got) != 2 {
		t.Fatalf("expected 2 same-day codes, got %v", got)
	}
}

func TestIsBullishBearish(t *testing.T) {
	if !IsBullish(TradeBuy) || !IsBullish(TradeExerciseHold) {
		t.Error("expected buy/exercise_hold to be bullish")
	}
	if !IsBearish(TradeSell) || !IsBearish(TradeDisposition) {
		t.Error("expected sell/disposition to be bearish")
	}
	if IsBullish(TradeAward) || IsBearish(TradeAward) {
		t.Error("expected award to be neutral")
	}
}
