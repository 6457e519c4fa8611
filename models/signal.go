package models

// Direction of an open signal.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// LeverageUnknown is the sentinel used when a signal does not state leverage.
const LeverageUnknown = "N/A"

// ParsedSignal holds the fields extracted from an open-signal message.
// Price fields keep the exact strings matched in the source text; no numeric
// conversion or reformatting is ever applied to them.
type ParsedSignal struct {
	Symbol     string
	Direction  Direction
	Leverage   string
	EntryPrice string
	TakeProfit string
	StopLoss   string
}

// ClassKind enumerates the possible intents of a raw message.
type ClassKind int

const (
	ClassIrrelevant ClassKind = iota
	ClassCancellation
	ClassOpenSignal
)

// Classification is the outcome of classifying one raw message. Exactly one
// variant applies: Symbol is set for cancellations, Signal for open signals,
// and neither for irrelevant messages.
type Classification struct {
	Kind   ClassKind
	Symbol string
	Signal *ParsedSignal
}
