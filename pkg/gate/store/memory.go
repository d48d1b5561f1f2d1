package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. It backs tests and the
// "memory" backend; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*ConditionRecord
	byName  map[string]string
	counter int
	order   map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*ConditionRecord),
		byName: make(map[string]string),
		order:  make(map[string]int),
	}
}

// Save inserts or updates a condition record.
func (m *MemoryStore) Save(_ context.Context, record *ConditionRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if record.Name == "" {
		return fmt.Errorf("record name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existingID, ok := m.byName[record.Name]; ok && existingID != record.ID {
		return fmt.Errorf("name %q: %w", record.Name, ErrDuplicateName)
	}

	now := time.Now()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if previous, ok := m.byID[record.ID]; ok {
		delete(m.byName, previous.Name)
	} else {
		m.counter++
		m.order[record.ID] = m.counter
	}

	stored := *record
	m.byID[record.ID] = &stored
	m.byName[record.Name] = record.ID
	return nil
}

// Get retrieves a condition by ID.
func (m *MemoryStore) Get(_ context.Context, id string) (*ConditionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *record
	return &out, nil
}

// GetByName retrieves a condition by its unique name.
func (m *MemoryStore) GetByName(_ context.Context, name string) (*ConditionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := *m.byID[id]
	return &out, nil
}

// List returns all conditions in insertion order.
func (m *MemoryStore) List(_ context.Context) ([]*ConditionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*ConditionRecord, 0, len(m.byID))
	for _, record := range m.byID {
		out := *record
		records = append(records, &out)
	}
	sort.Slice(records, func(i, j int) bool {
		return m.order[records[i].ID] < m.order[records[j].ID]
	})
	return records, nil
}

// Delete removes a condition by ID.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byName, record.Name)
	delete(m.order, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
