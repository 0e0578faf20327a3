package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-dependencies/internal/app"
)

var (
	// ErrNotFound is returned when no snapshot has been recorded.
	ErrNotFound = errors.New("no snapshots recorded")
)

// Record is one published snapshot and when it was published.
type Record struct {
	At       time.Time    `json:"at"`
	Snapshot app.Snapshot `json:"snapshot"`
}

// MemoryStore is a concurrency-safe, bounded history of published snapshots.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record

	// retention configuration
	maxHistory int           // max number of records
	maxAge     time.Duration // optional max age for records

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Save appends a snapshot and enforces retention.
func (s *MemoryStore) Save(snap app.Snapshot) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, Record{At: now, Snapshot: snap.Clone()})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.records) > s.maxHistory {
		over := len(s.records) - s.maxHistory
		s.records = s.records[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		i := 0
		for ; i < len(s.records); i++ {
			if !s.records[i].At.Before(cutoff) {
				break
			}
		}
		s.records = s.records[i:]
	}
}

// Latest returns the most recent record.
func (s *MemoryStore) Latest() (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return Record{}, ErrNotFound
	}
	return s.records[len(s.records)-1], nil
}

// Range returns records between from and to (inclusive), oldest first.
func (s *MemoryStore) Range(from, to time.Time) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Record
	for _, r := range s.records {
		if !r.At.Before(from) && !r.At.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// All returns every retained record, oldest first.
func (s *MemoryStore) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
