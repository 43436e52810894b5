package engine

import (
	"sync"

	"github.com/MKhiriev/go-calendar-sync/models"
)

type statusSubscription struct {
	id uint64
	fn func(models.SyncStatus)
}

// StatusSignal holds the current sync status and notifies subscribers on
// every change. Notifications fire in subscription order, outside the
// signal's lock, so a callback may call back into the signal.
type StatusSignal struct {
	mu     sync.Mutex
	status models.SyncStatus
	nextID uint64
	subs   []statusSubscription
}

// NewStatusSignal starts in [models.StatusSynced]: a fresh engine with an
// empty queue has nothing outstanding.
func NewStatusSignal() *StatusSignal {
	return &StatusSignal{status: models.StatusSynced}
}

// Current returns the status as of the last Set.
func (s *StatusSignal) Current() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Set updates the status. Subscribers are notified only when the value
// actually changes; setting the current status again is a no-op.
func (s *StatusSignal) Set(status models.SyncStatus) {
	s.mu.Lock()
	if s.status == status {
		s.mu.Unlock()
		return
	}
	s.status = status
	subs := make([]statusSubscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.fn != nil {
			sub.fn(status)
		}
	}
}

// Subscribe registers fn for status changes and returns an unsubscribe
// function. fn is not called with the current status on registration;
// callers that need it should read Current first.
func (s *StatusSignal) Subscribe(fn func(models.SyncStatus)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, statusSubscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
