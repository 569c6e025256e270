package memstore

import (
	"fmt"
	"sort"
	"sync"

	"raDB/internal/ra"
	"raDB/internal/storage"
)

type memEngine struct {
	mu        sync.RWMutex
	relations map[string]*ra.Relation
}

// New creates a new in-memory relation store.
func New() storage.Engine {
	return &memEngine{
		relations: make(map[string]*ra.Relation),
	}
}

// Define validates rel and stores a deep copy of it.
// Stored relations are never modified afterwards: a redefinition swaps the
// pointer, so snapshots taken earlier keep seeing the old relation.
func (e *memEngine) Define(rel *ra.Relation) error {
	if rel == nil {
		return fmt.Errorf("%w: nil relation", storage.ErrInvalidRelation)
	}
	if err := rel.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidRelation, err)
	}

	// store a deep copy to avoid external modification
	stored := rel.Clone()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.relations[rel.Name] = stored
	return nil
}

// Snapshot copies the name -> relation map under the read lock.
func (e *memEngine) Snapshot() storage.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rels := make(map[string]*ra.Relation, len(e.relations))
	for name, rel := range e.relations {
		rels[name] = rel
	}
	return &memSnapshot{relations: rels}
}

func (e *memEngine) ListRelations() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedNames(e.relations)
}

func (e *memEngine) Schema(name string) ([]ra.Column, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rel, ok := e.relations[name]
	if !ok {
		return nil, fmt.Errorf("relation %s does not exist", name)
	}
	cols := make([]ra.Column, len(rel.Columns))
	copy(cols, rel.Columns)
	return cols, nil
}

// memSnapshot represents a point-in-time view on top of memEngine.
type memSnapshot struct {
	relations map[string]*ra.Relation
}

func (s *memSnapshot) Lookup(name string) (*ra.Relation, bool) {
	rel, ok := s.relations[name]
	if !ok {
		return nil, false
	}
	// Return a deep copy to prevent callers from mutating stored data.
	return rel.Clone(), true
}

func (s *memSnapshot) Names() []string {
	return sortedNames(s.relations)
}

func sortedNames(m map[string]*ra.Relation) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
