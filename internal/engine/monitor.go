package engine

import (
	"sync"

	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// Monitor translates connectivity transitions into engine reactions:
// regaining the server triggers a drain of pending events, losing it
// flips the visible status to offline while events are pending.
//
// An empty queue is left alone in both directions. Local progress with
// nothing queued is fully synced, and going offline in that state must
// not disturb the synced status.
type Monitor struct {
	queue  *SyncQueue
	signal *StatusSignal
	drain  func()

	mu          sync.Mutex
	unsubscribe func()

	logger *logger.Logger
}

// NewMonitor subscribes to reachability transitions. drain is invoked on
// every reconnect that finds pending events; the caller decides how the
// drain itself is scheduled.
func NewMonitor(reach host.Reachability, queue *SyncQueue, signal *StatusSignal, drain func(), log *logger.Logger) *Monitor {
	m := &Monitor{queue: queue, signal: signal, drain: drain, logger: log}
	m.unsubscribe = reach.Subscribe(m.onReconnect, m.onDisconnect)

	return m
}

func (m *Monitor) onReconnect() {
	if m.queue.IsEmpty() {
		return
	}

	m.logger.Debug().Str("func", "*Monitor.onReconnect").
		Int("pending", m.queue.Len()).
		Msg("connection restored, draining pending events")
	m.drain()
}

func (m *Monitor) onDisconnect() {
	if m.queue.IsEmpty() {
		return
	}

	m.logger.Debug().Str("func", "*Monitor.onDisconnect").
		Int("pending", m.queue.Len()).
		Msg("connection lost with pending events")
	m.signal.Set(models.StatusOffline)
}

// Close detaches the monitor from reachability events. Safe to call more
// than once.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
