package signal

import "time"

// TradeType enumerates the classified insider-transaction types of
// spec.md §4.9.
type TradeType string

const (
	TradeBuy          TradeType = "buy"
	TradeSell         TradeType = "sell"
	TradeAward        TradeType = "award"
	TradeExerciseHold TradeType = "exercise_hold"
	TradeExerciseSell TradeType = "exercise_sell"
	TradeDisposition  TradeType = "disposition"
	TradeGift         TradeType = "gift"
	TradeTax          TradeType = "tax"
	TradeConversion   TradeType = "conversion"
	TradeWill         TradeType = "will"
	TradeOther        TradeType = "other"
)

var bullishTrades = map[TradeType]bool{
	TradeBuy:          true,
	TradeExerciseHold: true,
}

var bearishTrades = map[TradeType]bool{
	TradeSell:        true,
	TradeDisposition: true,
}

// IsBullish reports whether t is a bullish trade type, per spec.md §4.9.
func IsBullish(t TradeType) bool { return bullishTrades[t] }

// IsBearish reports whether t is a bearish trade type, per spec.md §4.9.
func IsBearish(t TradeType) bool { return bearishTrades[t] }

// codeTradeType is the direct code-to-type mapping, excluding code M
// which needs the same-day disambiguation rule below.
var codeTradeType = map[string]TradeType{
	"P": TradeBuy,
	"S": TradeSell,
	"A": TradeAward,
	"F": TradeTax,
	"G": TradeGift,
	"D": TradeDisposition,
	"C": TradeConversion,
	"W": TradeWill,
	"J": TradeOther,
	"K": TradeOther,
	"U": TradeOther,
	"I": TradeOther,
}

// Trade is the minimal shape TradeClassifier needs from an
// InsiderTransaction: the reporting insider, the date, and the raw
// transaction code.
type Trade struct {
	InsiderName     string
	TransactionDate time.Time
	Code            string
}

// Classify resolves a single trade's type. For code M, sameDayCodes is
// the set of transaction codes sharing the trade's (insider_name,
// transaction_date) — passing the trade's own group is required to apply
// the same-day disambiguation rule.
func Classify(trade Trade, sameDayCodes []string) TradeType {
	if trade.Code != "M" {
		if t, ok := codeTradeType[trade.Code]; ok {
			return t
		}
		return TradeOther
	}

	for _, code := range sameDayCodes {
		if code == "S" {
			return TradeExerciseSell
		}
	}
	return TradeExerciseHold
}

// SameDayCodes collects the transaction codes sharing trade's
// (insider_name, transaction_date) from the full trade list, for use as
// Classify's disambiguation input.
func SameDayCodes(trade Trade, all []Trade) []string {
	codes := make([]string, 0, len(all))
	for _, t := range all {
		if t.InsiderName == trade.InsiderName && t.TransactionDate.Equal(trade.TransactionDate) {
			codes = append(codes, t.Code)
		}
	}
	return codes
}

// ClassifyAll classifies every trade in the slice, resolving each M
// against its own same-day group.
func ClassifyAll(trades []Trade) []TradeType {
	types := make([]TradeType, len(trades))
	for i, t := range trades {
		types[i] = Classify(t, SameDayCodes(t, trades))
	}
	return types
}
