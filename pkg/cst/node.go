// Package cst defines the lossless concrete syntax tree produced by the
// parser engine and consumed by lint rules and the formatter.
//
// Every byte of the original input is covered by exactly one leaf node,
// including whitespace and comments, so Raw() on the root reproduces the
// input exactly.
package cst

import (
	"strings"

	"github.com/squill-labs/squill/pkg/token"
)

// Kind tags a node with the syntactic construct it represents.
type Kind string

// Structural kinds owned by the engine. Dialect packages define their own
// kinds for statements, clauses and expressions.
const (
	KindFile                Kind = "file"
	KindUnparsable          Kind = "unparsable"
	KindStatementTerminator Kind = "statement_terminator"
	KindBatchSeparator      Kind = "batch_separator"

	KindWhitespace Kind = "whitespace"
	KindComment    Kind = "comment"
	KindRaw        Kind = "raw" // untagged leaf
)

// Node is a CST element: either a leaf wrapping exactly one token
// (Tok non-nil, no children) or an internal node with ordered children.
//
// An unparsable region is a node of KindUnparsable whose children are the
// leaf tokens of the skipped span and whose GrammarPath records what the
// engine was attempting when matching failed.
type Node struct {
	Kind     Kind
	Tok      *token.Token
	Children []*Node
	Span     token.Span

	// GrammarPath is set on KindUnparsable nodes only: the chain of
	// grammar names being attempted at the failure point.
	GrammarPath []string
}

// defaultLeafKinds maps token types to the kind an untagged leaf gets.
var defaultLeafKinds = map[token.Type]Kind{
	token.Whitespace:  KindWhitespace,
	token.Comment:     KindComment,
	token.Keyword:     "keyword",
	token.Word:        "word",
	token.QuotedIdent: "quoted_identifier",
	token.Variable:    "variable",
	token.TempName:    "temp_name",
	token.String:      "string_literal",
	token.Number:      "numeric_literal",
	token.Comma:       "comma",
	token.Semicolon:   "semicolon",
	token.LParen:      "start_bracket",
	token.RParen:      "end_bracket",
	token.Operator:    "operator",
	token.BatchSep:    KindBatchSeparator,
}

// Leaf creates a leaf node wrapping a single token. When k is empty the
// kind is derived from the token type.
func Leaf(k Kind, tok token.Token) *Node {
	if k == "" {
		var ok bool
		if k, ok = defaultLeafKinds[tok.Type]; !ok {
			k = KindRaw
		}
	}
	t := tok
	return &Node{Kind: k, Tok: &t, Span: tok.Span}
}

// Internal creates an internal node with the given kind and children.
// The span is the union of the children's spans.
func Internal(k Kind, children []*Node) *Node {
	n := &Node{Kind: k, Children: children}
	if len(children) > 0 {
		n.Span = children[0].Span
		for _, c := range children[1:] {
			n.Span = n.Span.Union(c.Span)
		}
	}
	return n
}

// Unparsable creates an unparsable region node covering the given leaf
// children, recording the grammar path attempted at the failure point.
func Unparsable(children []*Node, grammarPath []string) *Node {
	n := Internal(KindUnparsable, children)
	n.GrammarPath = append([]string(nil), grammarPath...)
	return n
}

// IsLeaf reports whether the node wraps exactly one token.
func (n *Node) IsLeaf() bool { return n.Tok != nil }

// IsUnparsable reports whether the node marks a span the engine could
// not match.
func (n *Node) IsUnparsable() bool { return n.Kind == KindUnparsable }

// Raw reconstructs the source text covered by this node by concatenating
// every leaf in document order.
func (n *Node) Raw() string {
	if n.IsLeaf() {
		return n.Tok.Raw
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.Raw())
	}
	return b.String()
}

// Walk visits n and all descendants in document order. Returning false
// from fn stops descent into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns every descendant (including n itself) with the given kind.
func (n *Node) FindAll(k Kind) []*Node {
	var out []*Node
	n.Walk(func(m *Node) bool {
		if m.Kind == k {
			out = append(out, m)
		}
		return true
	})
	return out
}

// FirstChild returns the first child with the given kind, or nil.
func (n *Node) FirstChild(k Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// CodeChildren returns the children that are not trivia leaves.
func (n *Node) CodeChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsLeaf() && c.Tok.IsTrivia() {
			continue
		}
		out = append(out, c)
	}
	return out
}
