package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squill-labs/squill/pkg/token"
)

func ruleNames(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

func TestInsertBefore(t *testing.T) {
	base := []Rule{
		NewRule("whitespace", token.Whitespace, MatchWhitespace),
		NewRule("word", token.Word, MatchWord),
	}

	patched, err := InsertBefore(base, "word",
		LiteralRule("at_sign", token.Variable, "@"),
		LiteralRule("hash", token.TempName, "#"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"whitespace", "at_sign", "hash", "word"}, ruleNames(patched))

	// The original list is untouched.
	assert.Equal(t, []string{"whitespace", "word"}, ruleNames(base))
}

func TestInsertBeforeUnknownRule(t *testing.T) {
	base := []Rule{NewRule("word", token.Word, MatchWord)}
	_, err := InsertBefore(base, "no_such_rule", LiteralRule("x", token.Operator, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_rule")
}

func TestReplace(t *testing.T) {
	base := []Rule{
		NewRule("whitespace", token.Whitespace, MatchWhitespace),
		NewRule("operator", token.Operator, MatchOperator([]string{"="})),
	}

	patched, err := Replace(base, NewRule("operator", token.Operator, MatchOperator([]string{"=", "+="})))
	require.NoError(t, err)
	assert.Equal(t, []string{"whitespace", "operator"}, ruleNames(patched))

	// The patched rule is actually swapped in.
	assert.Equal(t, 2, patched[1].Match("+=", 0))
	assert.Equal(t, 0, base[1].Match("+=", 0))
}

func TestReplaceUnknownRule(t *testing.T) {
	base := []Rule{NewRule("word", token.Word, MatchWord)}
	_, err := Replace(base, NewRule("operator", token.Operator, MatchOperator(nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operator")
}

func TestMatchFuncs(t *testing.T) {
	tests := []struct {
		name  string
		match MatchFunc
		src   string
		want  int
	}{
		{"whitespace run", MatchWhitespace, "  \t\nx", 4},
		{"whitespace none", MatchWhitespace, "x", 0},
		{"line comment", MatchLineComment, "-- hi\nrest", 5},
		{"line comment at eof", MatchLineComment, "-- hi", 5},
		{"block comment", MatchBlockComment, "/* a */x", 7},
		{"block comment unterminated", MatchBlockComment, "/* a", 4},
		{"string", MatchSingleQuote, "'abc' rest", 5},
		{"string doubled quote", MatchSingleQuote, "'it''s'x", 7},
		{"string unterminated", MatchSingleQuote, "'abc", 4},
		{"quoted ident", MatchDoubleQuote, `"my col" rest`, 8},
		{"integer", MatchNumber, "123+", 3},
		{"decimal", MatchNumber, "1.25x", 4},
		{"scientific", MatchNumber, "1e10 ", 4},
		{"scientific signed", MatchNumber, "1.5E-3;", 6},
		{"dot not decimal", MatchNumber, "1.x", 1},
		{"word", MatchWord, "foo_1 bar", 5},
		{"word leading digit", MatchWord, "1foo", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.match(tt.src, 0))
		})
	}
}

func TestMatchOperatorLongestForm(t *testing.T) {
	match := MatchOperator([]string{"<", "<=", "<>"})
	assert.Equal(t, 2, match("<=1", 0))
	assert.Equal(t, 2, match("<>", 0))
	assert.Equal(t, 1, match("<x", 0))
	assert.Equal(t, 0, match("x", 0))
}
