package storage

import (
	"errors"

	"raDB/internal/ra"
)

// ErrInvalidRelation is returned by Define when a relation breaks the
// schema invariants (unique attributes, one value per attribute per row).
var ErrInvalidRelation = errors.New("invalid relation")

// Snapshot is a read-only view of the relation store.
//
// Relations reachable through a snapshot never change, so a snapshot can be
// shared by queries evaluated in parallel.
type Snapshot interface {
	// Lookup returns a copy of the named relation.
	Lookup(name string) (*ra.Relation, bool)

	// Names returns the relation names in the snapshot, sorted.
	Names() []string
}

// Engine is the relation store: written while relation blocks are loaded,
// read through snapshots while queries are evaluated.
//
// Different implementations are possible:
//   - in-memory (memstore)
//   - imported from an external database at startup (see internal/source)
type Engine interface {
	// Define stores a copy of rel, replacing any relation with the same name.
	Define(rel *ra.Relation) error

	// Snapshot returns a read-only view of the current relations.
	Snapshot() Snapshot

	// ListRelations returns the names of all relations, sorted.
	ListRelations() []string

	// Schema returns the columns of a relation.
	Schema(name string) ([]ra.Column, error)
}
