// Package dialect provides dialect construction and the global dialect
// registry.
//
// A dialect is a name, an optional parent, and a patch set mapping grammar
// names to replacement grammars. Build computes the effective grammar
// table once: the parent's effective table (already frozen), with each
// patch fully replacing the parent's entry under that name. Replacement is
// wholesale, never a merge — overriding a grammar discards everything the
// parent's version supported under that name. Dialects are immutable after
// Build and safe to share across concurrent parses.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/squill-labs/squill/pkg/grammar"
	"github.com/squill-labs/squill/pkg/lexer"
)

// BuildError reports a failed dialect build. The zero-exposure rule holds:
// when Build fails, no partially built dialect escapes.
type BuildError struct {
	Dialect string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("dialect %s: %v", e.Dialect, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// RootGrammar is the table entry the parser engine matches per statement.
const RootGrammar = "statement"

// Patch maps grammar names to replacement grammars. Patched names that do
// not exist in the parent are new entries.
type Patch map[string]*grammar.Matcher

// Dialect is a frozen, effective grammar table plus the dialect's lexer
// configuration.
type Dialect struct {
	name     string
	parent   *Dialect
	table    grammar.Table
	lexCfg   lexer.Config
	batchSep string
}

// Option configures a dialect under construction.
type Option func(*builder) error

type builder struct {
	lexRules      []lexer.Rule
	keywords      map[string]struct{}
	bareWordAfter map[string]struct{}
	batchSep      string
}

// WithLexRules replaces the dialect's entire lexer rule list.
func WithLexRules(rules ...lexer.Rule) Option {
	return func(b *builder) error {
		b.lexRules = rules
		return nil
	}
}

// WithLexRulesBefore inserts rules immediately before the named parent
// rule. Position matters: it is the tiebreak for equal-length matches.
func WithLexRulesBefore(before string, rules ...lexer.Rule) Option {
	return func(b *builder) error {
		patched, err := lexer.InsertBefore(b.lexRules, before, rules...)
		if err != nil {
			return err
		}
		b.lexRules = patched
		return nil
	}
}

// WithLexRulePatch replaces same-named parent lexer rules in place.
func WithLexRulePatch(rules ...lexer.Rule) Option {
	return func(b *builder) error {
		patched, err := lexer.Replace(b.lexRules, rules...)
		if err != nil {
			return err
		}
		b.lexRules = patched
		return nil
	}
}

// WithKeywords adds reserved words to the dialect.
func WithKeywords(words ...string) Option {
	return func(b *builder) error {
		for _, w := range words {
			b.keywords[strings.ToUpper(w)] = struct{}{}
		}
		return nil
	}
}

// WithoutKeywords removes inherited reserved words.
func WithoutKeywords(words ...string) Option {
	return func(b *builder) error {
		for _, w := range words {
			delete(b.keywords, strings.ToUpper(w))
		}
		return nil
	}
}

// WithBareWordAfter marks keywords after which the lexer tags the next
// word as a plain word even when reserved (the AS/THROW lookback rule).
func WithBareWordAfter(words ...string) Option {
	return func(b *builder) error {
		for _, w := range words {
			b.bareWordAfter[strings.ToUpper(w)] = struct{}{}
		}
		return nil
	}
}

// WithBatchSeparator sets the word acting as a batch boundary (e.g. GO).
func WithBatchSeparator(word string) Option {
	return func(b *builder) error {
		b.batchSep = strings.ToUpper(word)
		return nil
	}
}

// Build computes and freezes a dialect's effective grammar table. The
// table is validated (reference closure, wrapper hygiene, root presence)
// before the dialect is returned: a failed build exposes no partially
// built dialect.
func Build(name string, parent *Dialect, patches Patch, opts ...Option) (*Dialect, error) {
	if name == "" {
		return nil, fmt.Errorf("dialect: name is required")
	}

	b := &builder{
		keywords:      make(map[string]struct{}),
		bareWordAfter: make(map[string]struct{}),
	}
	var table grammar.Table
	if parent != nil {
		table = make(grammar.Table, len(parent.table)+len(patches))
		for n, m := range parent.table {
			table[n] = m
		}
		b.lexRules = append(b.lexRules, parent.lexCfg.Rules...)
		for w := range parent.lexCfg.Keywords {
			b.keywords[w] = struct{}{}
		}
		for w := range parent.lexCfg.BareWordAfter {
			b.bareWordAfter[w] = struct{}{}
		}
		b.batchSep = parent.batchSep
	} else {
		table = make(grammar.Table, len(patches))
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, &BuildError{Dialect: name, Err: err}
		}
	}

	// Last patch for a name wins, wholesale.
	for n, m := range patches {
		if m == nil {
			return nil, &BuildError{Dialect: name, Err: fmt.Errorf("patch %q is nil", n)}
		}
		table[n] = m
	}

	if _, ok := table[RootGrammar]; !ok {
		return nil, &BuildError{Dialect: name, Err: fmt.Errorf("missing root grammar %q", RootGrammar)}
	}
	if err := grammar.Validate(table); err != nil {
		return nil, &BuildError{Dialect: name, Err: err}
	}
	if len(b.lexRules) == 0 {
		return nil, &BuildError{Dialect: name, Err: errors.New("no lexer rules")}
	}

	return &Dialect{
		name:   name,
		parent: parent,
		table:  table,
		lexCfg: lexer.Config{
			Rules:         b.lexRules,
			Keywords:      b.keywords,
			BareWordAfter: b.bareWordAfter,
		},
		batchSep: b.batchSep,
	}, nil
}

// MustBuild is Build panicking on error, for package init use.
func MustBuild(name string, parent *Dialect, patches Patch, opts ...Option) *Dialect {
	d, err := Build(name, parent, patches, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// Parent returns the parent dialect, or nil for a base dialect.
func (d *Dialect) Parent() *Dialect { return d.parent }

// Grammar returns the effective table entry for name.
func (d *Dialect) Grammar(name string) (*grammar.Matcher, bool) {
	m, ok := d.table[name]
	return m, ok
}

// Table returns the effective grammar table. Callers must treat it as
// read-only.
func (d *Dialect) Table() grammar.Table { return d.table }

// LexConfig returns the dialect's lexer configuration.
func (d *Dialect) LexConfig() lexer.Config { return d.lexCfg }

// BatchSeparator returns the batch boundary word ("" if none).
func (d *Dialect) BatchSeparator() string { return d.batchSep }
