package contact

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Gateway in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	books map[string]map[string]Contact
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{books: make(map[string]map[string]Contact)}
}

func (m *MemoryStore) FetchAll(ctx context.Context, owner string) ([]Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Contact, 0, len(m.books[owner]))
	for _, c := range m.books[owner] {
		out = append(out, c.Clone())
	}
	sortContacts(out)
	return out, nil
}

func (m *MemoryStore) FetchByID(ctx context.Context, owner, id string) (*Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.books[owner][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := c.Clone()
	return &out, nil
}

func (m *MemoryStore) SearchByName(ctx context.Context, owner, name string) ([]Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query := normalizeQuery(name)
	out := []Contact{}
	for _, c := range m.books[owner] {
		if c.matchesName(query) {
			out = append(out, c.Clone())
		}
	}
	sortContacts(out)
	return out, nil
}

func (m *MemoryStore) Persist(ctx context.Context, owner string, plan MergePlan) (PersistResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := plan.Contact.Clone()
	book := m.books[owner]
	if plan.IsNew {
		if book == nil {
			book = make(map[string]Contact)
			m.books[owner] = book
		}
		c.ID = uuid.NewString()
		book[c.ID] = c
		return PersistResult{ID: c.ID, Created: true}, nil
	}

	if _, ok := book[c.ID]; !ok {
		return PersistResult{}, ErrNotFound
	}
	book[c.ID] = c
	return PersistResult{ID: c.ID}, nil
}

func (m *MemoryStore) Delete(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[owner][id]; !ok {
		return ErrNotFound
	}
	delete(m.books[owner], id)
	return nil
}

// Clear removes all contacts (useful for test cleanup).
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = make(map[string]map[string]Contact)
}

// Compile-time interface check
var _ Gateway = (*MemoryStore)(nil)
