package host

import "sync"

// MemoryKV is an in-memory [KV] for tests. Nothing survives a restart.
// Set failures can be injected with FailSetsWith to exercise the
// persistence error paths of callers.
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string]string
	setErr error
}

// NewMemoryKV returns an empty in-memory KV store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get implements [KV].
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	return value, ok
}

// Set implements [KV]. When a failure has been injected the value is
// not stored and the injected error is returned.
func (m *MemoryKV) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value

	return nil
}

// FailSetsWith makes every following Set return err. Pass nil to heal.
func (m *MemoryKV) FailSetsWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setErr = err
}

// Len reports the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}
