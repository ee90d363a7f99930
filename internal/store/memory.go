package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/i474232898/weather-advisor/internal/register"
)

var (
	// ErrNotFound is returned when no register exists for a given id.
	ErrNotFound = errors.New("register not found")
)

// MemoryStore is a concurrency-safe in-memory implementation of register.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: register id
	data   map[int64]register.Register
	nextID int64
}

// NewMemoryStore creates an empty MemoryStore. IDs start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[int64]register.Register),
		nextID: 1,
	}
}

// List returns all registers ordered by id.
func (s *MemoryStore) List(ctx context.Context) ([]register.Register, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]register.Register, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (register.Register, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok {
		return register.Register{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return r, nil
}

// Create assigns the next id to r and saves it.
func (s *MemoryStore) Create(ctx context.Context, r register.Register) (register.Register, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	s.data[r.ID] = r
	return r, nil
}

func (s *MemoryStore) Update(ctx context.Context, r register.Register) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[r.ID]; !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, r.ID)
	}
	s.data[r.ID] = r
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	delete(s.data, id)
	return nil
}
