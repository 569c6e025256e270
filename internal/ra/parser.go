package ra

import (
	"strings"
)

// Parse parses a single relational-algebra query into an expression tree.
//
// Rules are tried in a fixed order and the first match wins:
//
//	join <left>, <right> [on <condition>]
//	union|intersection|difference <left>, <right>
//	select <condition> (<expr>)
//	project <attr>[, <attr>...] (<expr>)
//	<relation-name>
//
// Keywords are case-insensitive.
func Parse(query string) (Expr, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, malformed("empty query")
	}

	if rest, ok := cutKeyword(q, "join"); ok {
		return parseJoin(rest)
	}

	for _, op := range []SetOp{OpUnion, OpIntersection, OpDifference} {
		if rest, ok := cutKeyword(q, op.String()); ok {
			return parseSetOp(op, rest)
		}
	}

	if rest, ok := cutKeyword(q, "select"); ok {
		return parseSelect(rest)
	}
	if rest, ok := cutKeyword(q, "project"); ok {
		return parseProject(rest)
	}

	if !isIdentifier(q) {
		return nil, malformed("unrecognized query %q", q)
	}
	return &RelationRef{Name: q}, nil
}
