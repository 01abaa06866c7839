// Package token defines the lexical token model shared by the lexer,
// grammar combinators and parser engine.
//
// Unlike a conventional compiler tokenizer, the token stream here is
// lossless: whitespace and comments are tokens too, and the concatenation
// of every token's raw text reproduces the input byte-for-byte.
package token

import "fmt"

// Type classifies a lexical token.
type Type int32

const (
	// EOF marks the end of input. It carries no raw text.
	EOF Type = iota
	// Unknown covers a single byte no lexer rule claimed. Emitting it
	// (rather than failing) preserves the losslessness contract.
	Unknown

	// Trivia
	Whitespace
	Comment

	// Words and identifiers
	Word        // unquoted word not recognized as a reserved keyword
	Keyword     // reserved keyword in the active dialect
	QuotedIdent // "name" or [name]
	Variable    // @name or @@name (dialect-specific)
	TempName    // #name or ##name (dialect-specific)

	// Literals
	String
	Number

	// Punctuation
	Comma
	Semicolon
	LParen
	RParen
	Operator // everything else: = <> <= + - * / . :: += etc.

	// BatchSep is a dialect-specific batch separator (e.g. GO on its
	// own line in T-SQL). It acts as a resynchronization boundary.
	BatchSep
)

var typeNames = map[Type]string{
	EOF:         "EOF",
	Unknown:     "UNKNOWN",
	Whitespace:  "WHITESPACE",
	Comment:     "COMMENT",
	Word:        "WORD",
	Keyword:     "KEYWORD",
	QuotedIdent: "QUOTED_IDENT",
	Variable:    "VARIABLE",
	TempName:    "TEMP_NAME",
	String:      "STRING",
	Number:      "NUMBER",
	Comma:       "COMMA",
	Semicolon:   "SEMICOLON",
	LParen:      "LPAREN",
	RParen:      "RPAREN",
	Operator:    "OPERATOR",
	BatchSep:    "BATCH_SEP",
}

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsTrivia returns true for whitespace and comments.
func (t Type) IsTrivia() bool {
	return t == Whitespace || t == Comment
}

// IsCode returns true for tokens the grammar layer matches against.
// Trivia and EOF are not code.
func (t Type) IsCode() bool {
	return !t.IsTrivia() && t != EOF
}

// Position is a human-oriented location in the input.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) in the input.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Token is a single lexical token: a raw text slice, its byte span, and
// the type tag assigned by the lexer.
type Token struct {
	Type Type
	Raw  string
	Span Span
	Pos  Position
}

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool { return t.Type.IsTrivia() }

// IsCode reports whether the grammar layer should see this token.
func (t Token) IsCode() bool { return t.Type.IsCode() }

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Raw)
}
