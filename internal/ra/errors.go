package ra

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedQuery is returned when a query matches none of the grammar rules.
	ErrMalformedQuery = errors.New("malformed query")

	// ErrMalformedSetOperation is returned when union, intersection or
	// difference is not given exactly two relation names.
	ErrMalformedSetOperation = errors.New("malformed set operation")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedQuery, fmt.Sprintf(format, args...))
}
