package domain

import "time"

// RangeBounds is a parsed watch range. Low may exceed High when the user
// entered a reversed range; parsing accepts it verbatim and classification
// over such a range follows the literal comparison rules.
type RangeBounds struct {
	Low  float64
	High float64
}

// RangeStatus is the position of a price relative to a watch range.
type RangeStatus string

const (
	RangeBelow  RangeStatus = "Below"
	RangeWithin RangeStatus = "Within"
	RangeAbove  RangeStatus = "Above"
)

// WatchStatus is the evaluated state of one symbol's watch, as shown to the
// user. Status is one of the RangeStatus values or "Invalid range" when the
// configured range text could not be parsed.
type WatchStatus struct {
	Symbol string
	Price  *float64
	Range  string
	Status string
}

// StatusInvalidRange is the user-visible status for an unparsable watch range.
const StatusInvalidRange = "Invalid range"

// NotificationEvent is emitted by the watch evaluator when a symbol's latest
// price falls within its watch range. Events are ephemeral: they are handed to
// the dispatcher immediately and never stored.
type NotificationEvent struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
}
