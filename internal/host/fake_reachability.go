package host

import "sync"

// FakeReachability is a hand-driven [Reachability] for tests: the test
// flips the connection state with SetReachable and subscribers get the
// same edge-triggered callbacks the production prober would deliver.
type FakeReachability struct {
	subscribers subscriberSet

	mu        sync.RWMutex
	reachable bool
}

// NewFakeReachability returns a fake in the given initial state.
func NewFakeReachability(reachable bool) *FakeReachability {
	return &FakeReachability{reachable: reachable}
}

// IsReachable implements [Reachability].
func (f *FakeReachability) IsReachable() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.reachable
}

// Subscribe implements [Reachability].
func (f *FakeReachability) Subscribe(onUp func(), onDown func()) (unsubscribe func()) {
	return f.subscribers.add(onUp, onDown)
}

// SetReachable updates the connection state and notifies subscribers
// when the state actually changed.
func (f *FakeReachability) SetReachable(up bool) {
	f.mu.Lock()
	changed := f.reachable != up
	f.reachable = up
	f.mu.Unlock()

	if !changed {
		return
	}
	f.subscribers.notify(up)
}
