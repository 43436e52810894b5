package engine

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// SyncQueue is the durable list of window-open events not yet confirmed
// by the server, ordered by enqueue time. It is a list rather than a
// set: the same window may transiently appear twice (opened again before
// a drain), which self-resolves because the server answers duplicates
// with a conflict the reconciler counts as success.
//
// Every mutation persists the whole queue under the store key. Like the
// progress store, persistence failures are logged and absorbed, and
// corrupt persisted state loads as an empty queue.
type SyncQueue struct {
	kv  host.KV
	key string

	mu     sync.Mutex
	events []models.QueuedEvent

	logger *logger.Logger
}

// NewSyncQueue loads the persisted queue stored under key. Absent or
// corrupt state starts the queue empty; corruption is logged.
func NewSyncQueue(kv host.KV, key string, log *logger.Logger) *SyncQueue {
	q := &SyncQueue{kv: kv, key: key, logger: log}

	events, ok := q.load()
	if ok {
		q.events = events
	}

	return q
}

// Enqueue appends an event for the window with the current timestamp
// and persists the queue.
func (q *SyncQueue) Enqueue(userID int64, window int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, models.QueuedEvent{
		UserID:       userID,
		WindowNumber: window,
		EnqueuedAt:   time.Now(),
	})
	q.persist()
}

// PeekAll returns a snapshot copy of the pending events in enqueue
// order. Mutating the returned slice does not affect the queue.
func (q *SyncQueue) PeekAll() []models.QueuedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]models.QueuedEvent, len(q.events))
	copy(snapshot, q.events)
	return snapshot
}

// RemoveConfirmed deletes exactly the confirmed events from the queue.
// Removal is identity-based, so events enqueued while a drain was in
// flight survive: anything not named in confirmed stays, and the
// remainder is sorted by enqueue time and persisted. Event identity is
// the (WindowNumber, EnqueuedAt) pair.
func (q *SyncQueue) RemoveConfirmed(confirmed []models.QueuedEvent) {
	if len(confirmed) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	remaining := make([]models.QueuedEvent, 0, len(q.events))
	for _, event := range q.events {
		if !containsEvent(confirmed, event) {
			remaining = append(remaining, event)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].EnqueuedAt.Before(remaining[j].EnqueuedAt)
	})

	q.events = remaining
	q.persist()
}

// IsEmpty reports whether no events are pending.
func (q *SyncQueue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.events) == 0
}

// Len returns the number of pending events.
func (q *SyncQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.events)
}

func containsEvent(events []models.QueuedEvent, target models.QueuedEvent) bool {
	for _, event := range events {
		if event.Same(target) {
			return true
		}
	}
	return false
}

// load parses the persisted queue. The second return value is false
// when the key is absent or the payload does not decode, in which case
// the queue starts empty.
func (q *SyncQueue) load() ([]models.QueuedEvent, bool) {
	raw, ok := q.kv.Get(q.key)
	if !ok {
		return nil, false
	}

	var events []models.QueuedEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		q.logger.Err(err).Str("func", "*SyncQueue.load").
			Msg("corrupt persisted queue, starting empty")
		return nil, false
	}

	return events, true
}

// persist writes the full queue back to the KV store. Callers must hold
// q.mu. Failures are logged and absorbed.
func (q *SyncQueue) persist() {
	payload, err := json.Marshal(q.events)
	if err != nil {
		q.logger.Err(err).Str("func", "*SyncQueue.persist").Msg("encoding queue failed")
		return
	}
	if err = q.kv.Set(q.key, string(payload)); err != nil {
		q.logger.Err(err).Str("func", "*SyncQueue.persist").
			Msg("persisting queue failed, in-memory state continues to serve")
	}
}
