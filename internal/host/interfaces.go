// Package host holds the contracts the sync engine expects from its
// surrounding application: a small durable key-value store for state
// that must survive restarts, and a reachability signal describing
// whether the backend is currently believed to be available.
//
// Production implementations live alongside the contracts: a JSON file
// backed KV store and a health-endpoint prober. In-memory fakes for
// tests are provided as well.
package host

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/host_mock.go -package=mock

// KV is a durable string key-value store. Implementations must keep
// written values across process restarts (the file implementation) or
// explicitly document that they do not (the in-memory fake).
type KV interface {

	// Get returns the value stored under key and whether the key exists.
	Get(key string) (string, bool)

	// Set durably stores value under key, replacing any previous value.
	Set(key string, value string) error
}

// Reachability reports whether the backend is currently believed to be
// available and notifies subscribers about transitions.
type Reachability interface {

	// IsReachable returns the last known connection state.
	IsReachable() bool

	// Subscribe registers callbacks fired on connection state transitions:
	// onUp when the backend becomes reachable, onDown when it stops being
	// reachable. Either callback may be nil. Callbacks are invoked in
	// subscription order, outside internal locks. The returned function
	// removes the subscription; it is safe to call more than once.
	Subscribe(onUp func(), onDown func()) (unsubscribe func())
}

// Pinger is the probe target of the reachability prober, satisfied by
// the backend adapter's health check.
type Pinger interface {
	Ping(ctx context.Context) error
}
