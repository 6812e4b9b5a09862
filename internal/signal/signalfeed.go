package signal

import (
	"context"
	"fmt"
)

// FeedSignal is one fully-annotated entry in GetFeed's output.
type FeedSignal struct {
	Event          FeedEvent
	Classification EightKClassification
	Insider        InsiderContext
	CombinedLevel  Level
}

// EventSource supplies the is_ma_signal=true Events GetFeed groups and
// classifies.
type EventSource interface {
	MASignalEventsSince(ctx context.Context, days int, cikFilter string) ([]FeedEvent, error)
}

// Feed ties SignalClassifier, InsiderContext and the combined-level table
// together into spec.md §4.10's GetFeed.
type Feed struct {
	events   EventSource
	insiders InsiderTradeSource
}

// NewFeed returns a Feed backed by the given event and insider-trade
// sources.
func NewFeed(events EventSource, insiders InsiderTradeSource) *Feed {
	return &Feed{events: events, insiders: insiders}
}

// GetFeed implements spec.md §4.10: fetch events, classify, annotate with
// InsiderContext, filter by minLevel, cap at limit.
func (f *Feed) GetFeed(ctx context.Context, days, limit int, minLevel Level, cikFilter string) ([]FeedSignal, error) {
	events, err := f.events.MASignalEventsSince(ctx, days, cikFilter)
	if err != nil {
		return nil, fmt.Errorf("signal: MASignalEventsSince: %w", err)
	}

	out := make([]FeedSignal, 0, len(events))
	for _, ev := range events {
		classification := ClassifyEightK(ev.ItemNumbers, ev.RawText)

		insiderCtx, err := ComputeInsiderContext(ctx, f.insiders, ev)
		if err != nil {
			return out, err
		}

		combined := CombinedLevel(classification.Level, insiderCtx)
		if levelRank(combined) < levelRank(minLevel) {
			continue
		}

		out = append(out, FeedSignal{
			Event:          ev,
			Classification: classification,
			Insider:        insiderCtx,
			CombinedLevel:  combined,
		})
	}

	sortByFilingDateDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var levelOrder = map[Level]int{
	LevelLow:         0,
	LevelMedium:      1,
	LevelHighBearish: 2,
	LevelHigh:        2,
	LevelCritical:    3,
}

func levelRank(l Level) int {
	if l == "" {
		return 0
	}
	return levelOrder[l]
}

func sortByFilingDateDesc(signals []FeedSignal) {
	for i := 1; i < len(signals); i++ {
		for j := i; j > 0 && signals[j].Event.FilingDate.After(signals[j-1].Event.FilingDate); j-- {
			signals[j], signals[j-1] = signals[j-1], signals[j]
		}
	}
}
