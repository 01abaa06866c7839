package grammar

import (
	"fmt"
	"sort"
)

// Table is a named arena of grammar entries. Dialects build one effective
// table each; the parser engine resolves Ref matchers against it.
type Table map[string]*Matcher

// CheckClosure verifies that every Ref anywhere in the table resolves to
// a defined entry. A dangling reference is a build-time fatal error, never
// a parse-time one.
func CheckClosure(t Table) error {
	var missing []string
	seen := make(map[string]bool)
	for name, m := range t {
		m.Walk(func(sub *Matcher) bool {
			if sub.Op == OpRef {
				if _, ok := t[sub.Name]; !ok && !seen[sub.Name] {
					seen[sub.Name] = true
					missing = append(missing, fmt.Sprintf("%s (referenced from %s)", sub.Name, name))
				}
			}
			return true
		})
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("grammar: unresolved references: %v", missing)
	}
	return nil
}

// CheckHygiene verifies that no composite node wrapper wraps a matcher
// that consumes exactly one token: such wrappers must be collapsed to a
// token tag (TokNode), which yields the same tree shape without the
// redundant indirection and node kind.
func CheckHygiene(t Table) error {
	var bad []string
	for name, m := range t {
		m.Walk(func(sub *Matcher) bool {
			if sub.Kind == "" || sub.IsLeaf() {
				return true
			}
			if singleTokenMatcher(t, sub, make(map[string]bool)) {
				bad = append(bad, fmt.Sprintf("%s wraps a single-token match in %s", sub.Kind, name))
			}
			return true
		})
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("grammar: node kinds wrapping single-token matches: %v", bad)
	}
	return nil
}

// singleTokenMatcher reports whether m can only ever consume exactly one
// token. visiting guards against reference cycles.
func singleTokenMatcher(t Table, m *Matcher, visiting map[string]bool) bool {
	switch m.Op {
	case OpKeyword, OpTok, OpSym:
		return true
	case OpSeq:
		return len(m.Subs) == 1 && singleTokenMatcher(t, m.Subs[0], visiting)
	case OpOneOf:
		if len(m.Subs) == 0 {
			return false
		}
		for _, s := range m.Subs {
			if !singleTokenMatcher(t, s, visiting) {
				return false
			}
		}
		return true
	case OpRef:
		if visiting[m.Name] {
			return false
		}
		target, ok := t[m.Name]
		if !ok || target.Kind != "" {
			// A missing target is CheckClosure's problem; a kinded
			// target produces its own node, not a bare token.
			return false
		}
		visiting[m.Name] = true
		defer delete(visiting, m.Name)
		return singleTokenMatcher(t, target, visiting)
	default:
		// Optional, Delimited and Repetition can consume zero or
		// several tokens.
		return false
	}
}

// Validate runs every static table check.
func Validate(t Table) error {
	if err := CheckClosure(t); err != nil {
		return err
	}
	return CheckHygiene(t)
}
