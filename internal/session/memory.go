package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore is a Store bounded by an idle TTL and a maximum session count.
// Touching a session (Get or Update) renews its TTL and marks it most
// recently used; when full, the least recently used session is evicted.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[string]*list.Element
	lru      *list.List
}

type entry struct {
	id        string
	state     State
	expiresAt time.Time
}

// NewMemoryStore creates a store keeping at most capacity sessions, each
// for ttl after its last use.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Create starts an empty session.
func (s *MemoryStore) Create(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	elem := s.lru.PushFront(&entry{id: id, expiresAt: s.now().Add(s.ttl)})
	s.items[id] = elem

	if s.lru.Len() > s.capacity {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
	return id, nil
}

// Get returns the session's state.
func (s *MemoryStore) Get(ctx context.Context, id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.touch(id)
	if err != nil {
		return State{}, err
	}
	return e.state, nil
}

// Update applies fn under the store lock.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.touch(id)
	if err != nil {
		return State{}, err
	}
	next, err := fn(e.state)
	if err != nil {
		return e.state, err
	}
	e.state = next
	return next, nil
}

// Delete removes the session if present.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[id]; ok {
		s.removeElement(elem)
	}
	return nil
}

// Size returns the number of sessions held, expired or not.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CleanExpired removes all expired sessions and returns count of removed items
func (s *MemoryStore) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var toRemove []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		s.removeElement(elem)
	}
	return len(toRemove)
}

// touch looks up a live session, renews it and moves it to the front.
// Must be called with mu held.
func (s *MemoryStore) touch(id string) (*entry, error) {
	elem, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e := elem.Value.(*entry)
	now := s.now()
	if now.After(e.expiresAt) {
		s.removeElement(elem)
		return nil, ErrSessionNotFound
	}
	e.expiresAt = now.Add(s.ttl)
	s.lru.MoveToFront(elem)
	return e, nil
}

func (s *MemoryStore) removeElement(elem *list.Element) {
	delete(s.items, elem.Value.(*entry).id)
	s.lru.Remove(elem)
}
