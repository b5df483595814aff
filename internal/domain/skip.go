package domain

import "sort"

// SkipReason classifies why a ticker contributed no rows.
type SkipReason string

const (
	// SkipNoData marks a ticker absent from the provider response
	// (delisted, renamed, or never covered).
	SkipNoData SkipReason = "no data found"

	// SkipInsufficientHistory marks a ticker whose data existed but had too
	// few usable observations for the feature window. Diagnostic only, not
	// an error condition.
	SkipInsufficientHistory SkipReason = "insufficient history"
)

// SkipEvent records a ticker that contributed zero rows and why.
type SkipEvent struct {
	Ticker string
	Reason SkipReason
}

// SkipLog collects skip events for operator-facing reporting.
// Never persisted.
type SkipLog struct {
	events []SkipEvent
}

// NewSkipLog creates an empty skip log.
func NewSkipLog() *SkipLog {
	return &SkipLog{}
}

// Add records a skip event.
func (l *SkipLog) Add(e SkipEvent) {
	l.events = append(l.events, e)
}

// Events returns all recorded events in insertion order.
func (l *SkipLog) Events() []SkipEvent {
	events := make([]SkipEvent, len(l.events))
	copy(events, l.events)
	return events
}

// Tickers returns the skipped tickers, sorted.
func (l *SkipLog) Tickers() []string {
	tickers := make([]string, 0, len(l.events))
	for _, e := range l.events {
		tickers = append(tickers, e.Ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// Count returns the number of skipped tickers.
func (l *SkipLog) Count() int {
	return len(l.events)
}
