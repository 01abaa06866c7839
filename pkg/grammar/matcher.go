// Package grammar provides the declarative matcher combinators used to
// describe dialect grammars.
//
// A Matcher is a closed tagged union: a single struct with an Op
// discriminant and an exhaustive, fixed set of variants. The parser engine
// switches over Op; there is no open interface hierarchy. This keeps the
// static table checks (reference closure, wrapper hygiene) a mechanical
// walk over plain data.
//
// Grammars refer to each other by name via Ref, resolved at match time
// against the active dialect's effective table. Self- and mutually
// recursive grammars are therefore expressed through the name arena, never
// through cyclic pointers.
package grammar

import (
	"fmt"
	"strings"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/token"
)

// Op discriminates the matcher variants.
type Op int

const (
	// OpSeq matches ordered sub-matchers.
	OpSeq Op = iota
	// OpOneOf matches the longest of its alternatives; declaration
	// order breaks ties.
	OpOneOf
	// OpOpt matches its sub-matcher or nothing.
	OpOpt
	// OpDelim matches element (separator element)* with configurable
	// trailing-separator tolerance.
	OpDelim
	// OpRep matches its sub-matcher zero or more (MinOne: one or more)
	// times.
	OpRep
	// OpRef is a lazy, by-name link resolved against the active
	// dialect's table at match time.
	OpRef
	// OpKeyword matches one keyword or word token by text,
	// case-insensitively.
	OpKeyword
	// OpTok matches one token by type.
	OpTok
	// OpSym matches one punctuation/operator token by raw text.
	OpSym
)

var opNames = [...]string{"seq", "one_of", "optional", "delimited", "repeat", "ref", "keyword", "token", "symbol"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", o)
}

// Matcher is one node of an immutable matcher tree.
//
// Kind, when non-empty, wraps the match result in a CST node of that kind:
// on a leaf matcher (OpKeyword/OpTok/OpSym) it tags the single token, on a
// composite it produces one internal node. Grammar-authoring hygiene
// forbids a composite wrapper around a single-token sub-matcher; see
// CheckHygiene.
type Matcher struct {
	Op   Op
	Kind cst.Kind

	Subs []*Matcher // OpSeq, OpOneOf sub-matchers
	Sub  *Matcher   // OpOpt, OpRep, OpDelim element

	Name    string     // OpRef target, OpKeyword text, OpSym raw
	TokType token.Type // OpTok

	Sep           *Matcher // OpDelim separator
	AllowTrailing bool     // OpDelim: tolerate a trailing separator
	MinOne        bool     // OpRep: require at least one match
}

// Seq matches subs in order. Wrap optional elements in Opt; a failed Opt
// consumes nothing and does not fail the sequence.
func Seq(subs ...*Matcher) *Matcher {
	return &Matcher{Op: OpSeq, Subs: subs}
}

// OneOf tries alternatives at the same position, keeps the longest
// successful consumption, and on a full tie prefers the earliest declared.
func OneOf(alts ...*Matcher) *Matcher {
	return &Matcher{Op: OpOneOf, Subs: alts}
}

// Opt makes sub optional.
func Opt(sub *Matcher) *Matcher {
	return &Matcher{Op: OpOpt, Sub: sub}
}

// Delim matches elem (sep elem)*, rejecting a trailing separator.
func Delim(elem, sep *Matcher) *Matcher {
	return &Matcher{Op: OpDelim, Sub: elem, Sep: sep}
}

// DelimTrailing is Delim with trailing-separator tolerance.
func DelimTrailing(elem, sep *Matcher) *Matcher {
	return &Matcher{Op: OpDelim, Sub: elem, Sep: sep, AllowTrailing: true}
}

// Rep matches sub zero or more times.
func Rep(sub *Matcher) *Matcher {
	return &Matcher{Op: OpRep, Sub: sub}
}

// Rep1 matches sub one or more times.
func Rep1(sub *Matcher) *Matcher {
	return &Matcher{Op: OpRep, Sub: sub, MinOne: true}
}

// Ref lazily references the named grammar in the active dialect's table.
func Ref(name string) *Matcher {
	return &Matcher{Op: OpRef, Name: name}
}

// Kw matches one keyword or word token equal to text, case-insensitively.
func Kw(text string) *Matcher {
	return &Matcher{Op: OpKeyword, Name: strings.ToUpper(text)}
}

// Tok matches one token of the given type.
func Tok(t token.Type) *Matcher {
	return &Matcher{Op: OpTok, TokType: t}
}

// Sym matches one punctuation or operator token with the given raw text.
func Sym(raw string) *Matcher {
	return &Matcher{Op: OpSym, Name: raw}
}

// Node wraps a composite sub-matcher's result in one CST node of the
// given kind. For single-token matches use TokNode instead; CheckHygiene
// flags Node-around-one-token as a table defect.
func Node(kind cst.Kind, sub *Matcher) *Matcher {
	c := *sub
	c.Kind = kind
	return &c
}

// TokNode tags the single token matched by a leaf matcher with a node
// kind. It panics if sub is not a leaf matcher: that is a programming
// error in a grammar definition, caught at process start.
func TokNode(kind cst.Kind, sub *Matcher) *Matcher {
	if !sub.IsLeaf() {
		panic(fmt.Sprintf("grammar: TokNode(%s) applied to %s matcher", kind, sub.Op))
	}
	c := *sub
	c.Kind = kind
	return &c
}

// IsLeaf reports whether the matcher consumes exactly one token.
func (m *Matcher) IsLeaf() bool {
	return m.Op == OpKeyword || m.Op == OpTok || m.Op == OpSym
}

// Walk visits m and every sub-matcher reachable without following
// references. Returning false skips the node's sub-matchers.
func (m *Matcher) Walk(fn func(*Matcher) bool) {
	if !fn(m) {
		return
	}
	for _, s := range m.Subs {
		s.Walk(fn)
	}
	if m.Sub != nil {
		m.Sub.Walk(fn)
	}
	if m.Sep != nil {
		m.Sep.Walk(fn)
	}
}

func (m *Matcher) String() string {
	switch m.Op {
	case OpRef:
		return fmt.Sprintf("ref(%s)", m.Name)
	case OpKeyword:
		return fmt.Sprintf("kw(%s)", m.Name)
	case OpSym:
		return fmt.Sprintf("sym(%q)", m.Name)
	case OpTok:
		return fmt.Sprintf("tok(%s)", m.TokType)
	default:
		return m.Op.String()
	}
}
