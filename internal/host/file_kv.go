package host

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileKV is the file-backed implementation of [KV]. All keys live in a
// single JSON object on disk: the file is read once on open and every
// Set writes the whole object back. State files are small (a window set,
// a sync queue, a session), so write-through keeps the implementation
// simple and the on-disk state always current.
type fileKV struct {
	path string

	mu   sync.RWMutex
	data map[string]string
}

// NewFileKV opens (or prepares to create) the state file at path and
// returns it as a [KV]. A missing file is not an error: the store starts
// empty and the file appears on the first Set.
func NewFileKV(path string) (KV, error) {
	s := &fileKV{
		path: path,
		data: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get implements [KV].
func (s *fileKV) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok
}

// Set implements [KV]. The new value is persisted before Set returns;
// on a write failure the in-memory value is kept so a later Set can
// retry the flush.
func (s *fileKV) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.persist()
}

func (s *fileKV) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	var data map[string]string
	if err = json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode state file: %w", err)
	}
	if data == nil {
		data = make(map[string]string)
	}

	s.data = data

	return nil
}

// persist writes the full key set back to disk. Callers must hold s.mu.
func (s *fileKV) persist() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}
