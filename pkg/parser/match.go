package parser

import (
	"fmt"
	"strings"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/grammar"
	"github.com/squill-labs/squill/pkg/token"
)

// match attempts matcher m at token index pos. Every combinator is pure
// with respect to (token stream, position, dialect): failure consumes
// nothing, and backtracking is simply discarding a result.
func (p *parseContext) match(m *grammar.Matcher, pos int) result {
	p.depth++
	defer func() { p.depth-- }()
	if p.overBudget() {
		return noMatch
	}

	var r result
	switch m.Op {
	case grammar.OpSeq:
		r = p.matchSeq(m, pos)
	case grammar.OpOneOf:
		r = p.matchOneOf(m, pos)
	case grammar.OpOpt:
		if sub := p.match(m.Sub, pos); sub.ok {
			r = sub
		} else {
			r = result{ok: true, end: pos}
		}
	case grammar.OpDelim:
		r = p.matchDelim(m, pos)
	case grammar.OpRep:
		r = p.matchRep(m, pos)
	case grammar.OpRef:
		r = p.matchRef(m, pos)
	case grammar.OpKeyword, grammar.OpTok, grammar.OpSym:
		r = p.matchLeaf(m, pos)
	default:
		panic(fmt.Sprintf("parser: unhandled matcher op %s", m.Op))
	}

	if r.ok && m.Kind != "" && !m.IsLeaf() {
		r.nodes = wrapNodes(m.Kind, r.nodes)
	}
	return r
}

func (p *parseContext) matchSeq(m *grammar.Matcher, pos int) result {
	cur := pos
	var nodes []*cst.Node
	for _, sub := range m.Subs {
		r := p.match(sub, cur)
		if !r.ok {
			return noMatch
		}
		nodes = append(nodes, r.nodes...)
		cur = r.end
	}
	return result{ok: true, end: cur, nodes: nodes}
}

// matchOneOf keeps the longest successful consumption among all matching
// alternatives; on a full tie the earliest declared wins (strict >).
func (p *parseContext) matchOneOf(m *grammar.Matcher, pos int) result {
	best := noMatch
	for _, alt := range m.Subs {
		r := p.match(alt, pos)
		if r.ok && (!best.ok || r.end > best.end) {
			best = r
		}
	}
	return best
}

func (p *parseContext) matchDelim(m *grammar.Matcher, pos int) result {
	first := p.match(m.Sub, pos)
	if !first.ok {
		return noMatch
	}
	// Results can come from the memo cache; never append onto their
	// backing arrays.
	nodes := append([]*cst.Node(nil), first.nodes...)
	cur := first.end

	for {
		sep := p.match(m.Sep, cur)
		if !sep.ok {
			break
		}
		elem := p.match(m.Sub, sep.end)
		if !elem.ok {
			if m.AllowTrailing {
				nodes = append(nodes, sep.nodes...)
				cur = sep.end
			}
			break
		}
		nodes = append(nodes, sep.nodes...)
		nodes = append(nodes, elem.nodes...)
		cur = elem.end
	}
	return result{ok: true, end: cur, nodes: nodes}
}

func (p *parseContext) matchRep(m *grammar.Matcher, pos int) result {
	cur := pos
	var nodes []*cst.Node
	count := 0
	for {
		r := p.match(m.Sub, cur)
		if !r.ok || r.end == cur {
			break
		}
		nodes = append(nodes, r.nodes...)
		cur = r.end
		count++
	}
	if m.MinOne && count == 0 {
		return noMatch
	}
	return result{ok: true, end: cur, nodes: nodes}
}

// matchRef resolves the named grammar against the active dialect's
// effective table at match time — this is what lets a child dialect's
// override be honored by every grammar referencing the name, including
// grammars defined in an ancestor. Attempts are memoized per (name,
// position) within the region.
func (p *parseContext) matchRef(m *grammar.Matcher, pos int) result {
	key := memoKey{name: m.Name, pos: pos}
	if r, ok := p.memo[key]; ok {
		return r
	}

	target, ok := p.d.Grammar(m.Name)
	if !ok {
		// Unreachable after dialect.Build validation; fail the branch
		// rather than the process.
		return noMatch
	}

	p.refStack = append(p.refStack, m.Name)
	r := p.match(target, pos)
	p.refStack = p.refStack[:len(p.refStack)-1]

	p.memo[key] = r
	return r
}

// matchLeaf matches one code token, collecting any trivia before it into
// the produced nodes so every token lands in the tree exactly once.
func (p *parseContext) matchLeaf(m *grammar.Matcher, pos int) result {
	var nodes []*cst.Node
	i := pos
	for i < p.limit && p.toks[i].IsTrivia() {
		nodes = append(nodes, cst.Leaf("", p.toks[i]))
		i++
	}
	if i >= p.limit {
		p.noteFailure(i)
		return noMatch
	}

	t := p.toks[i]
	if !leafMatches(m, t) {
		p.noteFailure(i)
		return noMatch
	}
	nodes = append(nodes, cst.Leaf(m.Kind, t))
	return result{ok: true, end: i + 1, nodes: nodes}
}

func leafMatches(m *grammar.Matcher, t token.Token) bool {
	switch m.Op {
	case grammar.OpKeyword:
		return (t.Type == token.Keyword || t.Type == token.Word) &&
			strings.EqualFold(t.Raw, m.Name)
	case grammar.OpTok:
		return t.Type == m.TokType
	case grammar.OpSym:
		switch t.Type {
		case token.Operator, token.Comma, token.Semicolon, token.LParen, token.RParen:
			return t.Raw == m.Name
		}
		return false
	}
	return false
}

// wrapNodes wraps the produced nodes in one internal node of the given
// kind, hoisting leading trivia out so node spans start at code.
func wrapNodes(kind cst.Kind, nodes []*cst.Node) []*cst.Node {
	lead := 0
	for lead < len(nodes) && nodes[lead].IsLeaf() && nodes[lead].Tok.IsTrivia() {
		lead++
	}
	if lead == len(nodes) {
		// Nothing but trivia (a matched-empty composite); wrapping
		// would fabricate an empty node.
		return nodes
	}
	out := make([]*cst.Node, 0, lead+1)
	out = append(out, nodes[:lead]...)
	out = append(out, cst.Internal(kind, nodes[lead:]))
	return out
}
