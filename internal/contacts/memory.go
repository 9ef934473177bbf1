package contacts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/input-output-hk/atala-prism-sub004/internal/core"
)

// MemoryStore is an in-process core.ContactStore. The CLI seeds it from a
// contacts CSV when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	contacts map[string]core.Contact
}

var _ core.ContactStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contacts: make(map[string]core.Contact)}
}

// Directory implements core.ContactStore.
func (m *MemoryStore) Directory(ctx context.Context) (core.Directory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir := make(core.Directory, len(m.contacts))
	for id, c := range m.contacts {
		dir[id] = c.Name
	}
	return dir, nil
}

// InsertContacts implements core.ContactStore. Like the database store it
// fails on an existing external ID and stores nothing in that case.
func (m *MemoryStore) InsertContacts(ctx context.Context, contacts []core.Contact) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		if _, exists := m.contacts[c.ExternalID]; exists || seen[c.ExternalID] {
			return 0, fmt.Errorf("insert contact %s: duplicate key", c.ExternalID)
		}
		seen[c.ExternalID] = true
	}

	for _, c := range contacts {
		m.contacts[c.ExternalID] = c
	}
	return int64(len(contacts)), nil
}

// Len returns the number of stored contacts.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contacts)
}

// Seed loads contacts from a table with an external ID column and a name
// column, as written by the contacts template. The header row is skipped
// and rows without an ID are ignored.
func (m *MemoryStore) Seed(table core.RawTable, idCol, nameCol int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for i, row := range table {
		if i == 0 || idCol >= len(row) {
			continue
		}
		c := core.Contact{ExternalID: strings.TrimSpace(row[idCol])}
		if c.ExternalID == "" {
			continue
		}
		if nameCol < len(row) {
			c.Name = strings.TrimSpace(row[nameCol])
		}
		m.contacts[c.ExternalID] = c
		n++
	}
	return n
}
