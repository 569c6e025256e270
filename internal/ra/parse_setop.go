package ra

import (
	"fmt"
	"strings"
)

// parseSetOp parses "<left>, <right>" after UNION, INTERSECTION or DIFFERENCE.
func parseSetOp(op SetOp, rest string) (Expr, error) {
	parts := strings.Split(rest, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %s requires exactly two relations, got %d",
			ErrMalformedSetOperation, op, len(parts))
	}

	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])
	for _, n := range []string{left, right} {
		if !isIdentifier(n) {
			return nil, fmt.Errorf("%w: %s: invalid relation name %q", ErrMalformedSetOperation, op, n)
		}
	}

	return &SetExpr{Op: op, Left: left, Right: right}, nil
}
