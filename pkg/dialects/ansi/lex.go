package ansi

import (
	"github.com/squill-labs/squill/pkg/lexer"
	"github.com/squill-labs/squill/pkg/token"
)

// Operators recognized by the base dialect. Multi-character forms are
// listed for clarity; the operator match function picks the longest form
// regardless of order.
var Operators = []string{
	"::", "<=", ">=", "<>", "!=", "||",
	"=", "<", ">", "+", "-", "*", "/", "%", ".",
}

// LexRules returns the base dialect's ordered lexer rule list. Order is
// part of the contract: it is the tiebreak for equal-length matches, and
// child dialects patch the list positionally (lexer.InsertBefore).
func LexRules() []lexer.Rule {
	return []lexer.Rule{
		lexer.NewRule("whitespace", token.Whitespace, lexer.MatchWhitespace),
		lexer.NewRule("inline_comment", token.Comment, lexer.MatchLineComment),
		lexer.NewRule("block_comment", token.Comment, lexer.MatchBlockComment),
		lexer.NewRule("single_quote", token.String, lexer.MatchSingleQuote),
		lexer.NewRule("double_quote", token.QuotedIdent, lexer.MatchDoubleQuote),
		lexer.NewRule("numeric_literal", token.Number, lexer.MatchNumber),
		lexer.NewRule("word", token.Word, lexer.MatchWord),
		lexer.LiteralRule("comma", token.Comma, ","),
		lexer.LiteralRule("semicolon", token.Semicolon, ";"),
		lexer.LiteralRule("start_bracket", token.LParen, "("),
		lexer.LiteralRule("end_bracket", token.RParen, ")"),
		lexer.NewRule("operator", token.Operator, lexer.MatchOperator(Operators)),
	}
}
