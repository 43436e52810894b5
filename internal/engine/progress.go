package engine

import (
	"encoding/json"
	"sync"

	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// ProgressStore owns the local record of opened windows: an in-memory
// [models.WindowSet] mirrored to one key of the host KV store. The
// in-memory set is authoritative for the running session; persistence
// failures are logged and absorbed so reads keep working, and a corrupt
// or missing persisted value loads as an empty set.
type ProgressStore struct {
	kv  host.KV
	key string

	mu  sync.RWMutex
	set models.WindowSet

	logger *logger.Logger
}

// NewProgressStore loads the persisted window set stored under key and
// returns a store ready to serve reads. Absent or corrupt state starts
// the store empty; corruption is logged, never returned.
func NewProgressStore(kv host.KV, key string, log *logger.Logger) *ProgressStore {
	s := &ProgressStore{kv: kv, key: key, logger: log}
	s.set = s.Load()
	return s
}

// Load re-reads the persisted window set from the host KV store. A
// missing key or a payload that fails to decode yields an empty set.
// Load does not touch the in-memory state.
func (s *ProgressStore) Load() models.WindowSet {
	raw, ok := s.kv.Get(s.key)
	if !ok {
		return models.NewWindowSet()
	}

	var set models.WindowSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		s.logger.Err(err).Str("func", "*ProgressStore.Load").
			Msg("corrupt persisted progress, starting empty")
		return models.NewWindowSet()
	}

	return set
}

// Save replaces both the in-memory set and the persisted copy with set.
// A persistence failure is logged and absorbed: the in-memory state is
// updated regardless and keeps serving reads for the session.
func (s *ProgressStore) Save(set models.WindowSet) {
	s.mu.Lock()
	s.set = set.Clone()
	s.mu.Unlock()

	s.persist(set)
}

// Add inserts one window number into the set and persists the change.
// It reports whether the set changed; adding an already-present or
// non-positive number leaves the store untouched.
func (s *ProgressStore) Add(window int) bool {
	s.mu.Lock()
	changed := s.set.Add(window)
	set := s.set.Clone()
	s.mu.Unlock()

	if !changed {
		return false
	}

	s.persist(set)
	return true
}

// Current returns an independent copy of the in-memory window set.
func (s *ProgressStore) Current() models.WindowSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.set.Clone()
}

// Contains reports whether the window is already recorded as opened.
func (s *ProgressStore) Contains(window int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.set.Contains(window)
}

func (s *ProgressStore) persist(set models.WindowSet) {
	payload, err := json.Marshal(set)
	if err != nil {
		s.logger.Err(err).Str("func", "*ProgressStore.persist").Msg("encoding progress failed")
		return
	}
	if err = s.kv.Set(s.key, string(payload)); err != nil {
		s.logger.Err(err).Str("func", "*ProgressStore.persist").
			Msg("persisting progress failed, in-memory state continues to serve")
	}
}
