package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squill-labs/squill/pkg/token"
)

func tok(t token.Type, raw string, start int) token.Token {
	return token.Token{Type: t, Raw: raw, Span: token.Span{Start: start, End: start + len(raw)}}
}

func TestLeafDefaultKinds(t *testing.T) {
	tests := []struct {
		typ  token.Type
		want Kind
	}{
		{token.Whitespace, KindWhitespace},
		{token.Comment, KindComment},
		{token.Keyword, "keyword"},
		{token.Word, "word"},
		{token.QuotedIdent, "quoted_identifier"},
		{token.Number, "numeric_literal"},
		{token.LParen, "start_bracket"},
		{token.BatchSep, KindBatchSeparator},
		{token.Unknown, KindRaw},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			n := Leaf("", tok(tt.typ, "x", 0))
			assert.Equal(t, tt.want, n.Kind)
		})
	}
}

func TestLeafExplicitKind(t *testing.T) {
	n := Leaf("function_name", tok(token.Word, "count", 3))
	assert.Equal(t, Kind("function_name"), n.Kind)
	assert.True(t, n.IsLeaf())
	assert.Equal(t, token.Span{Start: 3, End: 8}, n.Span)
}

func TestLeafCopiesToken(t *testing.T) {
	src := tok(token.Word, "a", 0)
	n := Leaf("", src)
	src.Raw = "mutated"
	assert.Equal(t, "a", n.Tok.Raw)
}

func TestInternalSpan(t *testing.T) {
	n := Internal("clause", []*Node{
		Leaf("", tok(token.Keyword, "FROM", 10)),
		Leaf("", tok(token.Whitespace, " ", 14)),
		Leaf("", tok(token.Word, "t", 15)),
	})
	assert.Equal(t, token.Span{Start: 10, End: 16}, n.Span)
	assert.False(t, n.IsLeaf())

	empty := Internal("clause", nil)
	assert.Equal(t, token.Span{}, empty.Span)
}

func TestRawReconstruction(t *testing.T) {
	n := Internal(KindFile, []*Node{
		Internal("statement", []*Node{
			Leaf("", tok(token.Keyword, "SELECT", 0)),
			Leaf("", tok(token.Whitespace, " ", 6)),
			Leaf("", tok(token.Word, "a", 7)),
		}),
		Leaf("", tok(token.Semicolon, ";", 8)),
	})
	assert.Equal(t, "SELECT a;", n.Raw())
}

func TestUnparsable(t *testing.T) {
	path := []string{"statement", "select_clause"}
	n := Unparsable([]*Node{
		Leaf("", tok(token.Word, "garbage", 0)),
	}, path)

	assert.True(t, n.IsUnparsable())
	assert.Equal(t, KindUnparsable, n.Kind)
	assert.Equal(t, path, n.GrammarPath)

	// The path is copied, not aliased.
	path[0] = "changed"
	assert.Equal(t, "statement", n.GrammarPath[0])
}

func TestWalkAndFind(t *testing.T) {
	inner := Internal("where_clause", []*Node{
		Leaf("", tok(token.Keyword, "WHERE", 9)),
	})
	root := Internal(KindFile, []*Node{
		Internal("statement", []*Node{
			Leaf("", tok(token.Keyword, "SELECT", 0)),
			inner,
		}),
	})

	var kinds []Kind
	root.Walk(func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != "statement" // prune below statement
	})
	assert.Equal(t, []Kind{KindFile, "statement"}, kinds)

	found := root.FindAll("where_clause")
	require.Len(t, found, 1)
	assert.Same(t, inner, found[0])

	assert.Nil(t, root.FirstChild("no_such"))
	assert.NotNil(t, root.FirstChild("statement"))
}

func TestCodeChildren(t *testing.T) {
	n := Internal("clause", []*Node{
		Leaf("", tok(token.Whitespace, " ", 0)),
		Leaf("", tok(token.Keyword, "FROM", 1)),
		Leaf("", tok(token.Comment, "-- c", 5)),
		Leaf("", tok(token.Word, "t", 9)),
	})
	kids := n.CodeChildren()
	require.Len(t, kids, 2)
	assert.Equal(t, "FROM", kids[0].Tok.Raw)
	assert.Equal(t, "t", kids[1].Tok.Raw)
}
