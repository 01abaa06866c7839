// Package lexer implements the context-sensitive, rule-table SQL tokenizer.
//
// A dialect supplies an ordered list of rules. At each position every rule
// is offered the remaining input; the longest match wins, and among equal
// lengths the first-registered rule wins. Every byte is covered by exactly
// one token: a byte no rule claims becomes a one-byte Unknown token rather
// than an error, preserving the losslessness contract.
//
// Keyword classification is context-sensitive via a one-token lookback:
// a word that is a reserved keyword is still tagged as a plain word when
// the previous code token is listed in Config.BareWordAfter (e.g. the
// word following AS or THROW).
package lexer

import (
	"strings"

	"github.com/squill-labs/squill/pkg/token"
)

// MatchFunc inspects src at byte offset at and returns the length of the
// match, or 0 for no match. Implementations must not return a length that
// exceeds len(src)-at.
type MatchFunc func(src string, at int) int

// Rule is a single named lexical rule producing tokens of one type.
type Rule struct {
	Name  string
	Type  token.Type
	Match MatchFunc
}

// Config is the per-dialect lexer configuration.
//
// Keywords holds the dialect's reserved words (uppercase). BareWordAfter
// lists keywords (uppercase) after which the next word is tagged Word even
// if reserved (the AS/THROW rule). The lookback bound is one code token.
type Config struct {
	Rules         []Rule
	Keywords      map[string]struct{}
	BareWordAfter map[string]struct{}
}

// Lex tokenizes src under the given configuration. The returned stream
// ends with an EOF token and covers every input byte exactly once.
func Lex(src string, cfg Config) []token.Token {
	var toks []token.Token
	line, col := 1, 1
	// Previous code token, for the keyword lookback rule.
	var prevCode *token.Token

	at := 0
	for at < len(src) {
		bestLen := 0
		bestRule := -1
		for i, r := range cfg.Rules {
			if n := r.Match(src, at); n > bestLen {
				bestLen = n
				bestRule = i
			}
		}

		var tok token.Token
		if bestRule < 0 {
			tok = token.Token{
				Type: token.Unknown,
				Raw:  src[at : at+1],
				Span: token.Span{Start: at, End: at + 1},
				Pos:  token.Position{Line: line, Column: col, Offset: at},
			}
		} else {
			r := cfg.Rules[bestRule]
			tok = token.Token{
				Type: r.Type,
				Raw:  src[at : at+bestLen],
				Span: token.Span{Start: at, End: at + bestLen},
				Pos:  token.Position{Line: line, Column: col, Offset: at},
			}
		}

		if tok.Type == token.Word {
			tok.Type = classifyWord(tok.Raw, prevCode, cfg)
		}

		toks = append(toks, tok)
		if tok.IsCode() {
			prevCode = &toks[len(toks)-1]
		}

		for i := 0; i < len(tok.Raw); i++ {
			if tok.Raw[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		at += len(tok.Raw)
	}

	toks = append(toks, token.Token{
		Type: token.EOF,
		Span: token.Span{Start: at, End: at},
		Pos:  token.Position{Line: line, Column: col, Offset: at},
	})
	return toks
}

// classifyWord decides Keyword vs Word for an unquoted word.
func classifyWord(raw string, prevCode *token.Token, cfg Config) token.Type {
	upper := strings.ToUpper(raw)
	if _, reserved := cfg.Keywords[upper]; !reserved {
		return token.Word
	}
	if prevCode != nil && prevCode.Type == token.Keyword {
		if _, bare := cfg.BareWordAfter[strings.ToUpper(prevCode.Raw)]; bare {
			return token.Word
		}
	}
	return token.Keyword
}
