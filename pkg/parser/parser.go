// Package parser implements the engine that drives a dialect's grammar
// table against a token stream: recursive descent with backtracking
// across alternatives, memoization of named-grammar attempts, and
// boundary-isolated recovery.
//
// A parse invocation always returns a complete CST over the whole input.
// Local match failures never abort the parse: the engine advances to the
// nearest resynchronization boundary (statement separator, batch
// separator, or end of input) and emits an unparsable region covering the
// skipped span, then resumes. Exceeding the recursion-depth or elapsed
// budget truncates the remaining input into a single trailing unparsable
// region instead of looping on pathological nesting.
package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/dialect"
	"github.com/squill-labs/squill/pkg/lexer"
	"github.com/squill-labs/squill/pkg/token"
)

// DefaultMaxDepth bounds grammar recursion per statement.
const DefaultMaxDepth = 500

// ErrNilDialect is returned when no dialect is supplied.
var ErrNilDialect = errors.New("parser: dialect is required")

// Options bounds a parse invocation. The zero value means defaults:
// DefaultMaxDepth and no elapsed budget.
type Options struct {
	// MaxDepth is the maximum grammar recursion depth per statement.
	MaxDepth int
	// Budget is the wall-clock allowance for the whole invocation.
	// Zero means unlimited.
	Budget time.Duration
}

// Parse lexes and parses src under the given dialect with default
// options.
func Parse(src string, d *dialect.Dialect) (*cst.Node, error) {
	return ParseWithOptions(src, d, Options{})
}

// ParseNamed resolves the dialect by registry name and parses src.
func ParseNamed(src, dialectName string) (*cst.Node, error) {
	d, ok := dialect.Get(dialectName)
	if !ok {
		return nil, fmt.Errorf("parser: unknown dialect %q (registered: %v)", dialectName, dialect.List())
	}
	return Parse(src, d)
}

// ParseWithOptions parses src into a single file node whose children are
// statement nodes, separators, trivia and unparsable regions. The
// concatenated raw text of the returned tree equals src byte-for-byte.
func ParseWithOptions(src string, d *dialect.Dialect, opts Options) (*cst.Node, error) {
	if d == nil {
		return nil, ErrNilDialect
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	toks := lexer.Lex(src, d.LexConfig())
	root, _ := d.Grammar(dialect.RootGrammar)

	p := &parseContext{
		toks:     toks,
		d:        d,
		maxDepth: opts.MaxDepth,
	}
	if opts.Budget > 0 {
		p.deadline = time.Now().Add(opts.Budget)
	}

	eof := len(toks) - 1 // toks always ends with EOF
	var children []*cst.Node
	pos := 0

	for pos < eof {
		t := toks[pos]

		if t.IsTrivia() {
			children = append(children, cst.Leaf("", t))
			pos++
			continue
		}
		switch t.Type {
		case token.Semicolon:
			children = append(children, cst.Leaf(cst.KindStatementTerminator, t))
			pos++
			continue
		case token.BatchSep:
			children = append(children, cst.Leaf(cst.KindBatchSeparator, t))
			pos++
			continue
		}

		if p.truncated {
			children = append(children, truncatedTail(toks, pos, eof))
			pos = eof
			break
		}

		// One statement region: everything up to the next boundary.
		limit := regionEnd(toks, pos, eof)
		p.beginRegion(limit)

		r := p.match(root, pos)
		if p.truncated {
			children = append(children, truncatedTail(toks, pos, eof))
			pos = eof
			break
		}

		if !r.ok {
			children = append(children, p.unparsable(pos, limit))
			pos = limit
			continue
		}

		children = append(children, r.nodes...)
		pos = r.end

		// A statement that matched but left code before the boundary is
		// damaged past the point the grammar could explain: the
		// remainder becomes an unparsable region of its own, bounded by
		// the same boundary.
		if leftover := nextCode(toks, pos, limit); leftover < limit {
			children = append(children, p.unparsable(pos, limit))
			pos = limit
		}
	}

	file := cst.Internal(cst.KindFile, children)
	file.Span = token.Span{Start: 0, End: len(src)}
	return file, nil
}

// regionEnd returns the index of the next resynchronization boundary at
// or after pos: a statement separator, a batch separator, or eof.
func regionEnd(toks []token.Token, pos, eof int) int {
	for i := pos; i < eof; i++ {
		if toks[i].Type == token.Semicolon || toks[i].Type == token.BatchSep {
			return i
		}
	}
	return eof
}

// nextCode returns the index of the first code token in [pos, limit), or
// limit if there is none.
func nextCode(toks []token.Token, pos, limit int) int {
	for i := pos; i < limit; i++ {
		if toks[i].IsCode() {
			return i
		}
	}
	return limit
}

// truncatedTail wraps every remaining token into one unparsable region,
// used when the depth or elapsed budget is exhausted.
func truncatedTail(toks []token.Token, pos, eof int) *cst.Node {
	leaves := make([]*cst.Node, 0, eof-pos)
	for i := pos; i < eof; i++ {
		leaves = append(leaves, cst.Leaf("", toks[i]))
	}
	return cst.Unparsable(leaves, []string{"file"})
}
