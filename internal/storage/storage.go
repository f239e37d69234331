package storage

import (
	"sync"

	"netcheck/internal/models"
)

// DefaultLimit is the number of records kept when no positive limit is given.
const DefaultLimit = 1440

// RecordStore keeps the most recent cycle records in memory.
// Nothing is written to disk; a restart starts from an empty store.
type RecordStore struct {
	mu      sync.RWMutex
	limit   int
	history []models.CycleRecord
}

// NewRecordStore creates a store retaining at most limit records.
func NewRecordStore(limit int) *RecordStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RecordStore{limit: limit}
}

// Record appends a cycle record, dropping the oldest once the limit is reached.
func (s *RecordStore) Record(record models.CycleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, record)
	if len(s.history) > s.limit {
		s.history = s.history[len(s.history)-s.limit:]
	}
}

// Latest returns the newest record if one exists.
func (s *RecordStore) Latest() (models.CycleRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return models.CycleRecord{}, false
	}
	return s.history[len(s.history)-1], true
}

// HistoryN returns up to n of the newest records, oldest first.
// A non-positive n returns everything retained.
func (s *RecordStore) HistoryN(n int) []models.CycleRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if n > 0 && n < len(s.history) {
		start = len(s.history) - n
	}
	out := make([]models.CycleRecord, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}

// Len reports how many records are retained.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}
