package feedback

import "sync"

// Store is the in-memory append-only feedback log. Appends are serialized;
// readers get defensive copies in arrival order. There is deliberately no
// delete or update operation.
type Store struct {
	mu      sync.Mutex
	records []Record
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a finalized record to the end of the log.
func (s *Store) Append(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// List returns every record in arrival order.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
