package models

import "time"

// RawMessage is a single text event received from the source channel. The ID
// is the channel-assigned sequence number: monotonically increasing per
// channel but not unique across restarts.
type RawMessage struct {
	ID         int
	ChatID     int64
	Text       string
	ReceivedAt time.Time
}

// OutboundMessage carries a normalized text ready for delivery to the target
// channel.
type OutboundMessage struct {
	DeliveryID string
	SourceID   int
	Text       string
	QueuedAt   time.Time
}
