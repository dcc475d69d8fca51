package tablestore

import (
	"context"
	"fmt"
	"sync"
)

// MemStore keeps tables in memory. Used by tests and by any caller that wants
// the pipeline end-to-end without touching the file system.
type MemStore struct {
	mu     sync.RWMutex
	tables map[string]Table
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]Table)}
}

// Write stores a copy of the table under its name.
func (s *MemStore) Write(_ context.Context, table Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := Table{
		Name:   table.Name,
		Header: append([]string(nil), table.Header...),
		Rows:   make([][]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		cp.Rows[i] = append([]string(nil), row...)
	}
	s.tables[table.Name] = cp
	return nil
}

// Read returns the stored table by name.
func (s *MemStore) Read(_ context.Context, name string) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[name]
	if !ok {
		return Table{}, fmt.Errorf("table %s not found", name)
	}
	return table, nil
}

// Names returns the stored table names. Test helper.
func (s *MemStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names
}
