package signal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	insiderWindowDays   = 60
	notableTradeMinUSD  = 10_000.0
	notableTradeTop     = 5
	personMatchMinChars = 4
)

// FeedEvent is the minimal shape of an M&A-relevant Event GetFeed groups
// and classifies.
type FeedEvent struct {
	CompanyCIK       string
	FilingDate       time.Time
	AccessionNumber  string
	ItemNumbers      []string
	RawText          string
	PersonsMentioned []string
}

// InsiderTrade is the subset of InsiderTransaction fields InsiderContext
// needs.
type InsiderTrade struct {
	InsiderName     string
	InsiderTitle    string
	TransactionDate time.Time
	Code            string
	TransactionType string
	TotalValue      float64
}

// NotableTrade is one of InsiderContext's top purchases, tagged relative
// to the filing date.
type NotableTrade struct {
	InsiderName string
	TotalValue  float64
	Tag         string // "Nd before filing" / "Nd after filing"
}

// NetDirection is the aggregate buy/sell posture around a filing.
type NetDirection string

const (
	DirectionBuying  NetDirection = "buying"
	DirectionSelling NetDirection = "selling"
	DirectionMixed   NetDirection = "mixed"
	DirectionNone    NetDirection = "none"
)

// InsiderContext is the per-signal annotation of spec.md §4.10.
type InsiderContext struct {
	NetDirection    NetDirection
	ClusterActivity bool
	NotableTrades   []NotableTrade
	PersonMatches   []string
}

// InsiderTradeSource supplies every insider transaction for a CIK.
type InsiderTradeSource interface {
	InsiderTradesForCIK(ctx context.Context, cik string) ([]InsiderTrade, error)
}

// ComputeInsiderContext implements spec.md §4.10's InsiderContext
// computation for a single signal.
func ComputeInsiderContext(ctx context.Context, source InsiderTradeSource, event FeedEvent) (InsiderContext, error) {
	all, err := source.InsiderTradesForCIK(ctx, event.CompanyCIK)
	if err != nil {
		return InsiderContext{}, fmt.Errorf("signal: InsiderTradesForCIK: %w", err)
	}

	windowStart := event.FilingDate.AddDate(0, 0, -insiderWindowDays)
	windowEnd := event.FilingDate.AddDate(0, 0, insiderWindowDays)

	var inWindow []InsiderTrade
	for _, t := range all {
		if t.TransactionDate.Before(windowStart) || t.TransactionDate.After(windowEnd) {
			continue
		}
		inWindow = append(inWindow, t)
	}

	var buyValue, sellValue float64
	buyers := map[string]bool{}
	sellers := map[string]bool{}
	for _, t := range inWindow {
		if isPurchase(t) {
			buyValue += t.TotalValue
			buyers[t.InsiderName] = true
		} else if isSale(t) {
			sellValue += t.TotalValue
			sellers[t.InsiderName] = true
		}
	}

	ctxOut := InsiderContext{
		NetDirection:    netDirection(buyValue, sellValue),
		ClusterActivity: len(buyers) >= 3 || len(sellers) >= 3,
		NotableTrades:   notableTrades(inWindow, event.FilingDate),
		PersonMatches:   personMatches(event.PersonsMentioned, inWindow),
	}
	return ctxOut, nil
}

func isPurchase(t InsiderTrade) bool {
	return t.Code == "P" || strings.Contains(strings.ToLower(t.TransactionType), "purchase")
}

func isSale(t InsiderTrade) bool {
	return t.Code == "S" || strings.Contains(strings.ToLower(t.TransactionType), "sale")
}

func netDirection(buyValue, sellValue float64) NetDirection {
	switch {
	case buyValue == 0 && sellValue == 0:
		return DirectionNone
	case buyValue > sellValue*1.5:
		return DirectionBuying
	case sellValue > buyValue*1.5:
		return DirectionSelling
	case buyValue > 0 && sellValue > 0:
		return DirectionMixed
	case buyValue > 0:
		return DirectionBuying
	default:
		return DirectionSelling
	}
}

func notableTrades(trades []InsiderTrade, filingDate time.Time) []NotableTrade {
	var purchases []InsiderTrade
	for _, t := range trades {
		if isPurchase(t) && t.TotalValue >= notableTradeMinUSD {
			purchases = append(purchases, t)
		}
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].TotalValue > purchases[j].TotalValue })
	if len(purchases) > notableTradeTop {
		purchases = purchases[:notableTradeTop]
	}

	out := make([]NotableTrade, 0, len(purchases))
	for _, p := range purchases {
		days := int(filingDate.Sub(p.TransactionDate).Hours() / 24)
		var tag string
		if days >= 0 {
			tag = fmt.Sprintf("%dd before filing", days)
		} else {
			tag = fmt.Sprintf("%dd after filing", -days)
		}
		out = append(out, NotableTrade{InsiderName: p.InsiderName, TotalValue: p.TotalValue, Tag: tag})
	}
	return out
}

// personMatches intersects personsMentioned (8-K narrative names, usually
// "First Last") against insider trader names (EDGAR "LAST FIRST" order)
// by >= 4-letter keyword overlap, per spec.md §4.10.
func personMatches(personsMentioned []string, trades []InsiderTrade) []string {
	var out []string
	for _, mentioned := range personsMentioned {
		mentionedWords := significantWords(mentioned)
		if len(mentionedWords) == 0 {
			continue
		}
		for _, t := range trades {
			if !isPurchase(t) {
				continue
			}
			traderWords := significantWords(t.InsiderName)
			if !sharesWord(mentionedWords, traderWords) {
				continue
			}
			out = append(out, fmt.Sprintf("%s (%s) mentioned in filing — bought $%.0f", mentioned, t.InsiderTitle, t.TotalValue))
			break
		}
	}
	return out
}

func significantWords(name string) []string {
	var words []string
	for _, w := range strings.Fields(name) {
		w = strings.ToUpper(strings.TrimFunc(w, func(r rune) bool { return r == ',' || r == '.' }))
		if len(w) >= personMatchMinChars {
			words = append(words, w)
		}
	}
	return words
}

func sharesWord(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	for _, w := range b {
		if set[w] {
			return true
		}
	}
	return false
}

// CombinedLevel applies spec.md §4.10's combined-level table over an
// 8-K base classification and its InsiderContext.
func CombinedLevel(base Level, ctxOut InsiderContext) Level {
	switch {
	case base == LevelHigh && ctxOut.NetDirection == DirectionBuying:
		return LevelCritical
	case base == LevelHigh && (ctxOut.NetDirection == DirectionSelling):
		return LevelHighBearish
	case base == LevelMedium && ctxOut.NetDirection == DirectionBuying:
		return LevelHigh
	default:
		return base
	}
}
