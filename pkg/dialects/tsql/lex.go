package tsql

import (
	"github.com/squill-labs/squill/pkg/dialects/ansi"
	"github.com/squill-labs/squill/pkg/lexer"
	"github.com/squill-labs/squill/pkg/token"
)

// Operators extends the ANSI operator set with T-SQL compound assignment
// and bitwise forms. Replaces the parent's operator rule wholesale, so the
// full list is restated.
var Operators = append([]string{
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"&", "|", "^", "~", "!<", "!>",
}, ansi.Operators...)

func lexRuleOperators() lexer.Rule {
	return lexer.NewRule("operator", token.Operator, lexer.MatchOperator(Operators))
}

// lexRuleSquareQuote matches [bracket-quoted] identifiers. No escape
// handling beyond the closing bracket: ]] is not doubled in T-SQL's
// bracket form within the scope of this engine.
func lexRuleSquareQuote() lexer.Rule {
	return lexer.NewRule("square_quote", token.QuotedIdent, func(src string, at int) int {
		if src[at] != '[' {
			return 0
		}
		n := 1
		for at+n < len(src) {
			if src[at+n] == ']' {
				return n + 1
			}
			n++
		}
		return 0
	})
}

// lexRuleVariable matches @local and @@system variables as single tokens.
func lexRuleVariable() lexer.Rule {
	return lexer.NewRule("tsql_variable", token.Variable, func(src string, at int) int {
		if src[at] != '@' {
			return 0
		}
		n := 1
		if at+n < len(src) && src[at+n] == '@' {
			n++
		}
		start := n
		for at+n < len(src) && isWordPart(src[at+n]) {
			n++
		}
		if n == start {
			return 0
		}
		return n
	})
}

// lexRuleTempName matches #temp and ##global object names, plus
// identifiers ending in #, as single tokens — they must never split.
func lexRuleTempName() lexer.Rule {
	return lexer.NewRule("tsql_temp_name", token.TempName, func(src string, at int) int {
		n := 0
		for at+n < len(src) && src[at+n] == '#' && n < 2 {
			n++
		}
		start := n
		for at+n < len(src) && isWordPart(src[at+n]) {
			n++
		}
		if n == start {
			// No word part after # / ##.
			return 0
		}
		if start == 0 {
			// Bare word: only a temp name if it ends with #.
			if at+n < len(src) && src[at+n] == '#' {
				return n + 1
			}
			return 0
		}
		return n
	})
}

// lexRuleBatchSeparator matches GO alone on its line (leading whitespace
// permitted), the T-SQL batch boundary.
func lexRuleBatchSeparator() lexer.Rule {
	return lexer.NewRule("batch_separator", token.BatchSep, func(src string, at int) int {
		if at+1 >= len(src) {
			return 0
		}
		if (src[at] != 'g' && src[at] != 'G') || (src[at+1] != 'o' && src[at+1] != 'O') {
			return 0
		}
		// Nothing but whitespace before it on the line.
		for i := at - 1; i >= 0 && src[i] != '\n'; i-- {
			if src[i] != ' ' && src[i] != '\t' && src[i] != '\r' {
				return 0
			}
		}
		// Nothing but whitespace after it on the line.
		for i := at + 2; i < len(src) && src[i] != '\n'; i++ {
			if src[i] != ' ' && src[i] != '\t' && src[i] != '\r' {
				return 0
			}
		}
		return 2
	})
}

func isWordPart(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
