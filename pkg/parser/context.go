package parser

import (
	"time"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/dialect"
	"github.com/squill-labs/squill/pkg/token"
)

// parseContext is the transient per-invocation state: cursor-free (every
// match call carries its own position), but it owns the memo cache, the
// recursion-depth counter and the deadline. One context per invocation;
// contexts are never shared, so parses of independent inputs can run in
// parallel against the same dialect with no locking.
type parseContext struct {
	toks []token.Token
	d    *dialect.Dialect

	limit    int // exclusive token-index bound of the current region
	memo     map[memoKey]result
	depth    int
	maxDepth int

	deadline  time.Time // zero means no budget
	truncated bool

	// Farthest-failure tracking for unparsable diagnostics.
	refStack []string
	failPos  int
	failPath []string
}

type memoKey struct {
	name string
	pos  int
}

// result is the outcome of one match attempt: no-match, or a consumed
// span [pos, end) plus produced nodes (including any leading trivia
// leaves collected before matched code tokens).
type result struct {
	ok    bool
	end   int
	nodes []*cst.Node
}

var noMatch = result{}

// beginRegion resets per-region state. The memo cache cannot survive a
// region change: results are only valid for the region limit they were
// computed under.
func (p *parseContext) beginRegion(limit int) {
	p.limit = limit
	p.memo = make(map[memoKey]result)
	p.depth = 0
	p.refStack = p.refStack[:0]
	p.failPos = -1
	p.failPath = nil
}

// overBudget reports (and latches) depth or deadline exhaustion. Once
// truncated, every in-flight match fails fast and the top loop wraps the
// remaining input.
func (p *parseContext) overBudget() bool {
	if p.truncated {
		return true
	}
	if p.depth > p.maxDepth {
		p.truncated = true
		return true
	}
	if !p.deadline.IsZero() && time.Now().After(p.deadline) {
		p.truncated = true
		return true
	}
	return false
}

// noteFailure records the grammar path at the farthest failure position,
// surfaced on unparsable regions.
func (p *parseContext) noteFailure(at int) {
	if at > p.failPos {
		p.failPos = at
		p.failPath = append([]string(nil), p.refStack...)
	}
}

// unparsable builds an unparsable region node over toks[pos:limit],
// annotated with the grammar path attempted at the farthest failure.
func (p *parseContext) unparsable(pos, limit int) *cst.Node {
	leaves := make([]*cst.Node, 0, limit-pos)
	for i := pos; i < limit; i++ {
		leaves = append(leaves, cst.Leaf("", p.toks[i]))
	}
	path := p.failPath
	if len(path) == 0 {
		path = []string{dialect.RootGrammar}
	}
	return cst.Unparsable(leaves, path)
}
