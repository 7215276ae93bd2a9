package logstore

import (
	"context"
	"errors"
	"sync"
)

// ErrStoreUnavailable indicates that the log store could not be reached for a
// retrieval or clear operation. Callers recover locally by keeping their
// last-known-good snapshot.
var ErrStoreUnavailable = errors.New("log store unavailable")

// DefaultMaxEntries bounds the MemoryStore's retention. Oldest entries are
// evicted once the cap is exceeded.
const DefaultMaxEntries = 5000

// Store is the read/clear contract of an external log store. Log production
// is entirely outside this contract.
type Store interface {
	// GetLogs returns the full current set of records in store order. The
	// returned slice is owned by the caller.
	GetLogs(ctx context.Context) ([]Entry, error)
	// ClearLogs discards all stored records.
	ClearLogs(ctx context.Context) error
}

// MemoryStore holds log entries in memory with bounded retention. It is
// thread-safe and doubles as a sink for in-process producers.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    []Entry
	maxEntries int
}

// NewMemoryStore creates an empty MemoryStore retaining at most maxEntries
// records; zero or negative means DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make([]Entry, 0, 256),
		maxEntries: maxEntries,
	}
}

// Append adds an entry, evicting the oldest records beyond the retention cap.
func (s *MemoryStore) Append(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.maxEntries {
		// Copy down instead of re-slicing so the backing array does not pin
		// evicted entries forever.
		overflow := len(s.entries) - s.maxEntries
		n := copy(s.entries, s.entries[overflow:])
		s.entries = s.entries[:n]
	}
}

// GetLogs returns a copy of all retained entries in insertion order.
func (s *MemoryStore) GetLogs(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entriesCopy := make([]Entry, len(s.entries))
	copy(entriesCopy, s.entries)
	return entriesCopy, nil
}

// ClearLogs discards all retained entries.
func (s *MemoryStore) ClearLogs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
	return nil
}

// Len returns the number of retained entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
