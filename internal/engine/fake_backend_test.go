package engine

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// fakeBackend is a scriptable in-memory stand-in for the server adapter.
// Every RecordOpen call is appended to calls in arrival order; per-window
// and catch-all errors are programmed with failWith and failAllWith. An
// optional hook runs at the start of RecordOpen so a test can hold a
// drain pass mid-flight.
type fakeBackend struct {
	mu                sync.Mutex
	token             string
	calls             []int
	confirmed         map[int]bool
	openErrs          map[int]error
	allErr            error
	duplicateOnRepeat bool
	remote            []int
	fetchErr          error
	fetchCalls        int
	openHook          func(window int)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		confirmed: make(map[int]bool),
		openErrs:  make(map[int]error),
	}
}

// failWith programs RecordOpen for one window; err == nil clears it.
func (f *fakeBackend) failWith(window int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.openErrs, window)
		return
	}
	f.openErrs[window] = err
}

// failAllWith programs every RecordOpen; err == nil heals the server.
func (f *fakeBackend) failAllWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.allErr = err
}

// answerDuplicates makes repeated opens of an already-confirmed window
// answer like the real server: with a duplicate error.
func (f *fakeBackend) answerDuplicates() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.duplicateOnRepeat = true
}

// setRemote programs FetchOpened.
func (f *fakeBackend) setRemote(windows []int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.remote = windows
	f.fetchErr = err
}

// setHook installs fn to run at the start of every RecordOpen.
func (f *fakeBackend) setHook(fn func(window int)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.openHook = fn
}

// recordedOpens returns a copy of every RecordOpen call so far,
// including failed ones.
func (f *fakeBackend) recordedOpens() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]int, len(f.calls))
	copy(calls, f.calls)
	return calls
}

func (f *fakeBackend) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fetchCalls
}

// ── adapter.Backend ──────────────────────────────────────────────────

func (f *fakeBackend) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = token
}

func (f *fakeBackend) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.token
}

func (f *fakeBackend) Register(_ context.Context, _ models.User) (models.User, error) {
	return models.User{}, nil
}

func (f *fakeBackend) Login(_ context.Context, _ models.User) (models.Token, error) {
	return models.Token{}, nil
}

func (f *fakeBackend) RecordOpen(_ context.Context, _ int64, window int) error {
	f.mu.Lock()
	hook := f.openHook
	f.mu.Unlock()

	// outside the lock, the hook may block
	if hook != nil {
		hook(window)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, window)

	if f.allErr != nil {
		return f.allErr
	}
	if err, ok := f.openErrs[window]; ok {
		return err
	}
	if f.duplicateOnRepeat && f.confirmed[window] {
		return adapter.ErrDuplicateWindow
	}

	f.confirmed[window] = true
	return nil
}

func (f *fakeBackend) FetchOpened(_ context.Context, _ int64) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	windows := make([]int, len(f.remote))
	copy(windows, f.remote)
	return windows, nil
}

func (f *fakeBackend) Ping(_ context.Context) error {
	return nil
}
