package lexer

import (
	"fmt"
	"strings"

	"github.com/squill-labs/squill/pkg/token"
)

// NewRule builds a rule from a match function.
func NewRule(name string, t token.Type, match MatchFunc) Rule {
	return Rule{Name: name, Type: t, Match: match}
}

// LiteralRule matches an exact string, case-sensitively.
func LiteralRule(name string, t token.Type, lit string) Rule {
	return Rule{Name: name, Type: t, Match: func(src string, at int) int {
		if strings.HasPrefix(src[at:], lit) {
			return len(lit)
		}
		return 0
	}}
}

// InsertBefore returns a copy of rules with extra inserted immediately
// before the rule named before. Mirrors how dialects patch the lexer:
// position in the rule list is the tiebreak for equal-length matches, so
// placement is part of the contract.
func InsertBefore(rules []Rule, before string, extra ...Rule) ([]Rule, error) {
	for i, r := range rules {
		if r.Name == before {
			out := make([]Rule, 0, len(rules)+len(extra))
			out = append(out, rules[:i]...)
			out = append(out, extra...)
			out = append(out, rules[i:]...)
			return out, nil
		}
	}
	return nil, fmt.Errorf("lexer: no rule named %q to insert before", before)
}

// Replace returns a copy of rules with each patch substituted for the
// existing rule of the same name, in place.
func Replace(rules []Rule, patches ...Rule) ([]Rule, error) {
	byName := make(map[string]Rule, len(patches))
	for _, p := range patches {
		byName[p.Name] = p
	}
	out := make([]Rule, len(rules))
	seen := make(map[string]bool)
	for i, r := range rules {
		if p, ok := byName[r.Name]; ok {
			out[i] = p
			seen[r.Name] = true
		} else {
			out[i] = r
		}
	}
	for name := range byName {
		if !seen[name] {
			return nil, fmt.Errorf("lexer: no rule named %q to replace", name)
		}
	}
	return out, nil
}

// ---------- shared match functions ----------

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// MatchWhitespace matches a run of spaces, tabs and newlines.
func MatchWhitespace(src string, at int) int {
	n := 0
	for at+n < len(src) {
		switch src[at+n] {
		case ' ', '\t', '\r', '\n':
			n++
		default:
			return n
		}
	}
	return n
}

// MatchLineComment matches -- to end of line (newline not included).
func MatchLineComment(src string, at int) int {
	if !strings.HasPrefix(src[at:], "--") {
		return 0
	}
	n := 2
	for at+n < len(src) && src[at+n] != '\n' {
		n++
	}
	return n
}

// MatchBlockComment matches /* ... */. An unterminated comment runs to
// end of input; the grammar layer never sees it, so losslessness is all
// that matters here.
func MatchBlockComment(src string, at int) int {
	if !strings.HasPrefix(src[at:], "/*") {
		return 0
	}
	n := 2
	for at+n < len(src) {
		if strings.HasPrefix(src[at+n:], "*/") {
			return n + 2
		}
		n++
	}
	return n
}

// MatchSingleQuote matches a single-quoted string with doubled-quote
// escapes ('it''s'). An unterminated literal runs to end of input.
func MatchSingleQuote(src string, at int) int {
	if src[at] != '\'' {
		return 0
	}
	n := 1
	for at+n < len(src) {
		if src[at+n] == '\'' {
			if at+n+1 < len(src) && src[at+n+1] == '\'' {
				n += 2
				continue
			}
			return n + 1
		}
		n++
	}
	return n
}

// MatchDoubleQuote matches a double-quoted identifier with doubled-quote
// escapes.
func MatchDoubleQuote(src string, at int) int {
	if src[at] != '"' {
		return 0
	}
	n := 1
	for at+n < len(src) {
		if src[at+n] == '"' {
			if at+n+1 < len(src) && src[at+n+1] == '"' {
				n += 2
				continue
			}
			return n + 1
		}
		n++
	}
	return n
}

// MatchNumber matches integer, decimal and scientific literals.
func MatchNumber(src string, at int) int {
	n := 0
	for at+n < len(src) && isDigit(src[at+n]) {
		n++
	}
	if n == 0 {
		return 0
	}
	if at+n+1 < len(src) && src[at+n] == '.' && isDigit(src[at+n+1]) {
		n++
		for at+n < len(src) && isDigit(src[at+n]) {
			n++
		}
	}
	if at+n < len(src) && (src[at+n] == 'e' || src[at+n] == 'E') {
		m := n + 1
		if at+m < len(src) && (src[at+m] == '+' || src[at+m] == '-') {
			m++
		}
		if at+m < len(src) && isDigit(src[at+m]) {
			for at+m < len(src) && isDigit(src[at+m]) {
				m++
			}
			n = m
		}
	}
	return n
}

// MatchWord matches an unquoted word: letter or underscore, then word
// characters.
func MatchWord(src string, at int) int {
	if !isWordStart(src[at]) {
		return 0
	}
	n := 1
	for at+n < len(src) && isWordPart(src[at+n]) {
		n++
	}
	return n
}

// MatchOperator matches one operator, longest form first. The rule-table
// tiebreak already prefers longer matches, but returning the longest here
// keeps multi-character operators whole even against single-char rules.
func MatchOperator(ops []string) MatchFunc {
	return func(src string, at int) int {
		best := 0
		for _, op := range ops {
			if len(op) > best && strings.HasPrefix(src[at:], op) {
				best = len(op)
			}
		}
		return best
	}
}
