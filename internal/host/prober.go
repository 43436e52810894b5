package host

import (
	"context"
	"sync"
	"time"
)

// subscription holds one subscriber's transition callbacks.
type subscription struct {
	id     int
	onUp   func()
	onDown func()
}

// subscriberSet is the shared subscribe/unsubscribe bookkeeping of the
// Reachability implementations. Callbacks are stored in subscription
// order; snapshot returns a copy so callers can fire them without
// holding the lock.
type subscriberSet struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

func (s *subscriberSet) add(onUp func(), onDown func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, onUp: onUp, onDown: onDown})

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

func (s *subscriberSet) snapshot() []subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]subscription, len(s.subs))
	copy(out, s.subs)
	return out
}

// notify fires the matching callback of every subscriber, in
// subscription order, outside the set's lock.
func (s *subscriberSet) notify(up bool) {
	for _, sub := range s.snapshot() {
		if up && sub.onUp != nil {
			sub.onUp()
		}
		if !up && sub.onDown != nil {
			sub.onDown()
		}
	}
}

// Prober is the production [Reachability]: it polls the backend health
// endpoint on a ticker and emits edge-triggered transitions, so
// subscribers only hear about changes, never about steady state.
//
// A new Prober starts out unreachable; the first successful probe fires
// onUp. The prober is idle until Start is called.
type Prober struct {
	pinger   Pinger
	interval time.Duration

	subscribers subscriberSet

	stateMu   sync.RWMutex
	reachable bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProber creates a Prober that checks pinger every interval once
// started. If interval is zero or negative it defaults to 15 seconds.
func NewProber(pinger Pinger, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Prober{pinger: pinger, interval: interval}
}

// IsReachable implements [Reachability].
func (p *Prober) IsReachable() bool {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()

	return p.reachable
}

// Subscribe implements [Reachability].
func (p *Prober) Subscribe(onUp func(), onDown func()) (unsubscribe func()) {
	return p.subscribers.add(onUp, onDown)
}

// Start stops any previously running probe loop, then launches a
// background goroutine that probes immediately and again on every tick.
// The goroutine exits when ctx is cancelled or Stop is called.
func (p *Prober) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	probeCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		p.probe(probeCtx)
		for {
			select {
			case <-probeCtx.Done():
				return
			case <-t.C:
				p.probe(probeCtx)
			}
		}
	}()
}

// Stop cancels the probe loop and blocks until it has fully exited.
// Safe to call when the prober is not running (no-op in that case).
func (p *Prober) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Prober) probe(ctx context.Context) {
	err := p.pinger.Ping(ctx)
	p.transition(err == nil)
}

// transition records the new connection state and, only when it differs
// from the previous one, notifies subscribers.
func (p *Prober) transition(up bool) {
	p.stateMu.Lock()
	changed := p.reachable != up
	p.reachable = up
	p.stateMu.Unlock()

	if !changed {
		return
	}
	p.subscribers.notify(up)
}
