package models

import "time"

// QueuedEvent is a single window-open action waiting to be confirmed
// by the backend. Events are created when an open cannot be confirmed
// immediately (the device is offline or the request failed transiently)
// and live in the durable sync queue until the backend accepts them.
type QueuedEvent struct {
	// UserID is the owner of the opened window.
	UserID int64 `json:"user_id"`

	// WindowNumber is the calendar window that was opened.
	WindowNumber int `json:"window_number"`

	// EnqueuedAt is the moment the event entered the queue.
	// Queue order and event identity are both derived from it,
	// so it must never be rewritten after creation.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Same reports whether two events describe the same queued action.
// Identity is the (WindowNumber, EnqueuedAt) pair; timestamps are compared
// with [time.Time.Equal] so the check survives JSON round-trips.
func (e QueuedEvent) Same(other QueuedEvent) bool {
	return e.WindowNumber == other.WindowNumber && e.EnqueuedAt.Equal(other.EnqueuedAt)
}
