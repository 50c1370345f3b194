package credentials

import (
	"sort"
	"sync"
	"time"
)

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore is the single-process implementation of Store. One mutex
// guards the whole map, which makes every read-modify-write of lock state
// atomic without per-record bookkeeping.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Credential
}

// NewInMemoryStore creates an empty credential store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*Credential),
	}
}

// NewInMemoryStoreFromSnapshot rebuilds a store from previously exported
// records, including historical failure counters and lock deadlines. This is
// the deserialization path for the external storage layer; records arrive as
// typed values, never as reconstructed internals.
func NewInMemoryStoreFromSnapshot(records []Credential) (*InMemoryStore, error) {
	store := NewInMemoryStore()
	for _, rec := range records {
		if err := store.Create(rec); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *InMemoryStore) Create(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred.ID = NormalizeID(cred.ID)
	if _, ok := s.records[cred.ID]; ok {
		return AlreadyExistsErr
	}
	s.records[cred.ID] = &cred
	return nil
}

func (s *InMemoryStore) Get(id string) (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[NormalizeID(id)]
	if !ok {
		return Credential{}, false
	}
	return *rec, true
}

func (s *InMemoryStore) RecordSuccess(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[NormalizeID(id)]
	if !ok {
		return
	}
	rec.FailedAttempts = 0
	rec.LockedUntil = time.Time{}
}

func (s *InMemoryStore) RecordFailure(id string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[NormalizeID(id)]
	if !ok {
		return false
	}

	rec.FailedAttempts++
	if rec.FailedAttempts >= LockThreshold {
		rec.LockedUntil = now.Add(LockDuration)
		return true
	}
	return false
}

func (s *InMemoryStore) IsLocked(id string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[NormalizeID(id)]
	if !ok || rec.LockedUntil.IsZero() {
		return false
	}
	if rec.LockedUntil.After(now) {
		return true
	}

	// Lock expired: first check after the deadline resets the credential.
	rec.LockedUntil = time.Time{}
	rec.FailedAttempts = 0
	return false
}

func (s *InMemoryStore) SetPasswordHash(id, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[NormalizeID(id)]
	if !ok {
		return NotFoundErr
	}
	rec.PasswordHash = newHash
	return nil
}

// Snapshot exports a copy of every record, sorted by ID, for the external
// storage layer to persist.
func (s *InMemoryStore) Snapshot() []Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Credential, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records
}
