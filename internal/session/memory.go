package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// MemoryStore keeps sessions in process memory. A janitor goroutine drops
// expired entries until Close is called.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryStore starts a store that sweeps expired sessions every interval.
func NewMemoryStore(interval time.Duration) *MemoryStore {
	if interval <= 0 {
		interval = time.Minute
	}
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.janitor(interval)
	return s
}

func (s *MemoryStore) janitor(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
}

// Len returns the number of stored sessions, expired ones included until swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expires) {
		return nil, ErrNotFound
	}
	rec := e.rec
	rec.Cookies = append([]Cookie(nil), e.rec.Cookies...)
	return &rec, nil
}

func (s *MemoryStore) Put(_ context.Context, rec *Record, ttl time.Duration) error {
	cp := *rec
	cp.Cookies = append([]Cookie(nil), rec.Cookies...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[rec.ID] = memoryEntry{rec: cp, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close stops the janitor. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
	return nil
}
