package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStarted is returned by every operation before Start.
	ErrNotStarted = errors.New("engine not started")

	// ErrUnknownRelation is returned when a relation name is not in the store.
	ErrUnknownRelation = errors.New("unknown relation")

	// ErrInvalidProjection is returned when a projected attribute is not in
	// the child's schema.
	ErrInvalidProjection = errors.New("invalid projection")

	// ErrSchemaMismatch is returned by set operations whose operands do not
	// have the same attribute set.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// ProjectionError reports the projected attributes missing from the child
// relation. It matches ErrInvalidProjection with errors.Is.
type ProjectionError struct {
	Missing   []string
	Available []string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("%v: %v not found (available: %v)", ErrInvalidProjection, e.Missing, e.Available)
}

func (e *ProjectionError) Is(target error) bool {
	return target == ErrInvalidProjection
}
