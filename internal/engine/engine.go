package engine

import (
	"fmt"

	"raDB/internal/logger"
	"raDB/internal/ra"
	"raDB/internal/storage"
)

// DBEngine evaluates relational-algebra queries against a relation store.
type DBEngine struct {
	started bool
	store   storage.Engine
	log     *logger.Logger
}

// New creates a new DBEngine on top of store. A nil log discards diagnostics.
func New(store storage.Engine, log *logger.Logger) *DBEngine {
	if log == nil {
		log = logger.NewNop()
	}
	return &DBEngine{
		started: false,
		store:   store,
		log:     log,
	}
}

// Start runs initialization steps for the engine.
func (e *DBEngine) Start() error {
	if e.started {
		return fmt.Errorf("engine already started")
	}
	e.started = true
	return nil
}

// Define adds or replaces a relation in the underlying store.
func (e *DBEngine) Define(rel *ra.Relation) error {
	if !e.started {
		return ErrNotStarted
	}
	if err := e.store.Define(rel); err != nil {
		return fmt.Errorf("define %s: %w", rel.Name, err)
	}
	e.log.Debug("relation defined", "relation", rel.Name, "attributes", rel.Attributes(), "rows", len(rel.Rows))
	return nil
}

// ListRelations returns the names of all stored relations.
func (e *DBEngine) ListRelations() ([]string, error) {
	if !e.started {
		return nil, ErrNotStarted
	}
	return e.store.ListRelations(), nil
}

// Schema returns the columns of a stored relation.
func (e *DBEngine) Schema(name string) ([]ra.Column, error) {
	if !e.started {
		return nil, ErrNotStarted
	}
	cols, err := e.store.Schema(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	return cols, nil
}

// Snapshot returns a read-only view of the store for batch evaluation.
func (e *DBEngine) Snapshot() (storage.Snapshot, error) {
	if !e.started {
		return nil, ErrNotStarted
	}
	return e.store.Snapshot(), nil
}

// Query parses a single query line and evaluates it against the current
// contents of the store.
func (e *DBEngine) Query(query string) (*ra.Relation, error) {
	expr, err := ra.Parse(query)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(expr)
}

// Evaluate evaluates an expression tree against the current contents of the store.
func (e *DBEngine) Evaluate(expr ra.Expr) (*ra.Relation, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return e.EvaluateIn(snap, expr)
}

// EvaluateIn evaluates expr against snap. It is safe to call concurrently
// with the same snapshot.
func (e *DBEngine) EvaluateIn(snap storage.Snapshot, expr ra.Expr) (*ra.Relation, error) {
	if !e.started {
		return nil, ErrNotStarted
	}
	ev := &evaluator{snap: snap, log: e.log}
	return ev.eval(expr)
}
