package ra

import (
	"strings"
)

// parseSelect parses "<condition> (<expr>)" after SELECT.
func parseSelect(rest string) (Expr, error) {
	params, inner, err := splitOperand("SELECT", rest)
	if err != nil {
		return nil, err
	}

	cond, err := ParseCondition(params)
	if err != nil {
		return nil, err
	}

	input, err := Parse(inner)
	if err != nil {
		return nil, err
	}
	return &SelectExpr{Input: input, Cond: cond}, nil
}

// parseProject parses "<attr>, <attr> (<expr>)" after PROJECT.
func parseProject(rest string) (Expr, error) {
	params, inner, err := splitOperand("PROJECT", rest)
	if err != nil {
		return nil, err
	}

	var attrs []string
	seen := make(map[string]bool)
	for _, a := range strings.Split(params, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil, malformed("PROJECT: empty attribute in %q", params)
		}
		if seen[a] {
			return nil, malformed("PROJECT: duplicate attribute %q", a)
		}
		seen[a] = true
		attrs = append(attrs, a)
	}

	input, err := Parse(inner)
	if err != nil {
		return nil, err
	}
	return &ProjectExpr{Input: input, Attributes: attrs}, nil
}

// splitOperand separates "<params> (<inner>)" where the parenthesised part is
// the trailing balanced group, so inner may itself contain parentheses.
func splitOperand(kw, rest string) (params, inner string, err error) {
	if !strings.HasSuffix(rest, ")") {
		return "", "", malformed("%s: expected (<relation>) at end of %q", kw, rest)
	}

	open := matchingOpen(rest)
	if open < 0 {
		return "", "", malformed("%s: unbalanced parentheses in %q", kw, rest)
	}

	params = strings.TrimSpace(rest[:open])
	inner = strings.TrimSpace(rest[open+1 : len(rest)-1])
	if params == "" {
		return "", "", malformed("%s: missing parameters", kw)
	}
	if inner == "" {
		return "", "", malformed("%s: missing relation", kw)
	}
	return params, inner, nil
}

// matchingOpen returns the index of the '(' matching the final ')'.
// Parentheses inside quoted literals are ignored.
func matchingOpen(s string) int {
	var (
		opens []int
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			opens = append(opens, i)
		case c == ')':
			if len(opens) == 0 {
				return -1
			}
			open := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			if i == len(s)-1 {
				return open
			}
		}
	}
	return -1
}
