// Package ansi defines the base ANSI SQL dialect: the root grammar table
// and lexer rules every other dialect inherits from.
//
// The grammar table is an arena of named entries; recursive constructs
// (parenthesized sub-expressions, subqueries) point back into the table by
// name via grammar.Ref, so the matcher trees themselves stay acyclic.
package ansi

import (
	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/dialect"
	. "github.com/squill-labs/squill/pkg/grammar"
	"github.com/squill-labs/squill/pkg/token"
)

// Node kinds produced by the ANSI grammar.
const (
	KindStatement       cst.Kind = "statement"
	KindSelectStatement cst.Kind = "select_statement"
	KindInsertStatement cst.Kind = "insert_statement"
	KindUpdateStatement cst.Kind = "update_statement"
	KindDeleteStatement cst.Kind = "delete_statement"
	KindWithCompound    cst.Kind = "with_compound_statement"
	KindCTE             cst.Kind = "common_table_expression"

	KindSelectClause  cst.Kind = "select_clause"
	KindSelectElement cst.Kind = "select_clause_element"
	KindWildcard      cst.Kind = "wildcard_expression"
	KindFromClause    cst.Kind = "from_clause"
	KindFromExpr      cst.Kind = "from_expression"
	KindTableExpr     cst.Kind = "table_expression"
	KindJoinClause    cst.Kind = "join_clause"
	KindJoinOn        cst.Kind = "join_on_condition"
	KindAlias         cst.Kind = "alias_expression"
	KindWhereClause   cst.Kind = "where_clause"
	KindGroupByClause cst.Kind = "groupby_clause"
	KindHavingClause  cst.Kind = "having_clause"
	KindOrderByClause cst.Kind = "orderby_clause"
	KindLimitClause   cst.Kind = "limit_clause"
	KindValuesClause  cst.Kind = "values_clause"
	KindSetClause     cst.Kind = "set_clause"

	KindCaseExpression cst.Kind = "case_expression"
	KindWhenClause     cst.Kind = "when_clause"
	KindElseClause     cst.Kind = "else_clause"
	KindFunction       cst.Kind = "function"
	KindFunctionName   cst.Kind = "function_name"
	KindObjectRef      cst.Kind = "object_reference"
	KindBracketed      cst.Kind = "bracketed"
	KindNakedIdent     cst.Kind = "naked_identifier"
	KindNullLiteral    cst.Kind = "null_literal"
	KindBooleanLiteral cst.Kind = "boolean_literal"
)

// Keywords are the reserved words of the base dialect. A reserved word is
// lexed as a keyword (context permitting) and therefore never matches a
// naked identifier.
var Keywords = []string{
	"ALL", "AND", "AS", "ASC", "BETWEEN", "BY", "CASE", "CROSS",
	"DELETE", "DESC", "DISTINCT", "ELSE", "END", "EXCEPT", "EXISTS",
	"FALSE", "FROM", "FULL", "GROUP", "HAVING", "IN", "INNER", "INSERT",
	"INTERSECT", "INTO", "IS", "JOIN", "LEFT", "LIKE", "LIMIT", "NOT",
	"NULL", "OFFSET", "ON", "OR", "ORDER", "OUTER", "RECURSIVE", "RIGHT",
	"SELECT", "SET", "THEN", "TRUE", "UNION", "UPDATE", "USING",
	"VALUES", "WHEN", "WHERE", "WITH",
}

// GrammarTable returns the base grammar table as a patch set against an
// empty parent. Child dialects receive their own effective copy through
// dialect.Build, so sharing the matcher trees here is safe: they are
// immutable after construction.
func GrammarTable() dialect.Patch {
	return dialect.Patch{
		"statement": Node(KindStatement, OneOf(
			Ref("with_compound_statement"),
			Ref("select_statement"),
			Ref("insert_statement"),
			Ref("update_statement"),
			Ref("delete_statement"),
		)),

		// ---------- SELECT ----------

		"select_statement": Node(KindSelectStatement, Seq(
			Ref("select_clause"),
			Opt(Ref("from_clause")),
			Opt(Ref("where_clause")),
			Opt(Ref("groupby_clause")),
			Opt(Ref("having_clause")),
			Opt(Ref("orderby_clause")),
			Opt(Ref("limit_clause")),
		)),

		"select_clause": Node(KindSelectClause, Seq(
			Kw("SELECT"),
			Opt(OneOf(Kw("DISTINCT"), Kw("ALL"))),
			Delim(Ref("select_clause_element"), Ref("comma")),
		)),

		"select_clause_element": Node(KindSelectElement, Seq(
			OneOf(Ref("wildcard_expression"), Ref("expression")),
			Opt(Ref("alias_expression")),
		)),

		"wildcard_expression": Node(KindWildcard, OneOf(
			Sym("*"),
			Seq(Ref("identifier"), Sym("."), Sym("*")),
		)),

		"alias_expression": Node(KindAlias, OneOf(
			Seq(Kw("AS"), Ref("identifier")),
			Ref("identifier"),
		)),

		// ---------- FROM and joins ----------

		"from_clause": Node(KindFromClause, Seq(
			Kw("FROM"),
			Delim(Ref("from_expression"), Ref("comma")),
		)),

		"from_expression": Node(KindFromExpr, Seq(
			Ref("table_expression"),
			Opt(Ref("alias_expression")),
			Rep(Ref("join_clause")),
		)),

		"table_expression": Node(KindTableExpr, OneOf(
			Ref("object_reference"),
			Ref("bracketed"),
		)),

		"join_clause": Node(KindJoinClause, Seq(
			OneOf(
				Seq(
					Opt(OneOf(
						Kw("INNER"),
						Seq(OneOf(Kw("LEFT"), Kw("RIGHT"), Kw("FULL")), Opt(Kw("OUTER"))),
					)),
					Kw("JOIN"),
				),
				Seq(Kw("CROSS"), Kw("JOIN")),
			),
			Ref("table_expression"),
			Opt(Ref("alias_expression")),
			Opt(OneOf(
				Ref("join_on_condition"),
				Seq(Kw("USING"), Ref("bracketed")),
			)),
		)),

		"join_on_condition": Node(KindJoinOn, Seq(Kw("ON"), Ref("expression"))),

		// ---------- simple clauses ----------

		"where_clause":  Node(KindWhereClause, Seq(Kw("WHERE"), Ref("expression"))),
		"having_clause": Node(KindHavingClause, Seq(Kw("HAVING"), Ref("expression"))),

		"groupby_clause": Node(KindGroupByClause, Seq(
			Kw("GROUP"), Kw("BY"),
			Delim(Ref("expression"), Ref("comma")),
		)),

		"orderby_clause": Node(KindOrderByClause, Seq(
			Kw("ORDER"), Kw("BY"),
			Delim(
				Seq(Ref("expression"), Opt(OneOf(Kw("ASC"), Kw("DESC")))),
				Ref("comma"),
			),
		)),

		"limit_clause": Node(KindLimitClause, Seq(
			Kw("LIMIT"), Ref("expression"),
			Opt(Seq(Kw("OFFSET"), Ref("expression"))),
		)),

		// ---------- INSERT / UPDATE / DELETE ----------

		"insert_statement": Node(KindInsertStatement, Seq(
			Kw("INSERT"), Kw("INTO"),
			Ref("object_reference"),
			Opt(Ref("bracketed")),
			OneOf(Ref("values_clause"), Ref("select_statement")),
		)),

		"values_clause": Node(KindValuesClause, Seq(
			Kw("VALUES"),
			Delim(Ref("bracketed"), Ref("comma")),
		)),

		"update_statement": Node(KindUpdateStatement, Seq(
			Kw("UPDATE"),
			Ref("object_reference"),
			Opt(Ref("alias_expression")),
			Ref("set_clause"),
			Opt(Ref("from_clause")),
			Opt(Ref("where_clause")),
		)),

		"set_clause": Node(KindSetClause, Seq(
			Kw("SET"),
			Delim(
				Seq(Ref("object_reference"), Sym("="), Ref("expression")),
				Ref("comma"),
			),
		)),

		"delete_statement": Node(KindDeleteStatement, Seq(
			Kw("DELETE"), Kw("FROM"),
			Ref("object_reference"),
			Opt(Ref("alias_expression")),
			Opt(Ref("where_clause")),
		)),

		// ---------- WITH ----------

		"with_compound_statement": Node(KindWithCompound, Seq(
			Kw("WITH"),
			Opt(Kw("RECURSIVE")),
			Delim(Ref("common_table_expression"), Ref("comma")),
			OneOf(
				Ref("select_statement"),
				Ref("insert_statement"),
				Ref("update_statement"),
				Ref("delete_statement"),
			),
		)),

		"common_table_expression": Node(KindCTE, Seq(
			Ref("identifier"),
			Opt(Ref("bracketed")),
			Kw("AS"),
			Ref("bracketed"),
		)),

		// ---------- expressions ----------

		// Left recursion is unrolled as term (op term)*; precedence is
		// not modelled — the CST is a concrete tree, not a semantic one.
		"expression": Seq(
			Ref("term"),
			Rep(Seq(Ref("binary_operator"), Ref("term"))),
		),

		"term": OneOf(
			Ref("case_expression"),
			Ref("function"),
			Ref("literal"),
			Ref("object_reference"),
			Ref("bracketed"),
			Ref("unary_expression"),
		),

		"unary_expression": Seq(
			OneOf(Sym("-"), Sym("+"), Kw("NOT"), Kw("EXISTS")),
			Ref("term"),
		),

		"binary_operator": OneOf(
			Tok(token.Operator),
			Kw("AND"), Kw("OR"),
			Seq(Kw("NOT"), Kw("LIKE")),
			Kw("LIKE"),
			Seq(Kw("NOT"), Kw("IN")),
			Kw("IN"),
			Seq(Kw("IS"), Opt(Kw("NOT"))),
			Kw("BETWEEN"),
		),

		"case_expression": Node(KindCaseExpression, Seq(
			Kw("CASE"),
			Opt(Ref("expression")),
			Rep1(Ref("when_clause")),
			Opt(Ref("else_clause")),
			Kw("END"),
		)),

		"when_clause": Node(KindWhenClause, Seq(
			Kw("WHEN"), Ref("expression"),
			Kw("THEN"), Ref("expression"),
		)),

		"else_clause": Node(KindElseClause, Seq(Kw("ELSE"), Ref("expression"))),

		"function": Node(KindFunction, Seq(
			TokNode(KindFunctionName, Tok(token.Word)),
			Tok(token.LParen),
			Opt(OneOf(
				Sym("*"),
				Seq(Opt(Kw("DISTINCT")), Delim(Ref("expression"), Ref("comma"))),
			)),
			Tok(token.RParen),
		)),

		"object_reference": Node(KindObjectRef, Seq(
			Ref("identifier"),
			Rep(Seq(Sym("."), Ref("identifier"))),
		)),

		// Bracketed covers parenthesized sub-expressions, expression
		// lists and subqueries; all three recurse through the table by
		// name.
		"bracketed": Node(KindBracketed, Seq(
			Tok(token.LParen),
			OneOf(
				Ref("select_statement"),
				Delim(Ref("expression"), Ref("comma")),
			),
			Tok(token.RParen),
		)),

		"identifier": OneOf(
			TokNode(KindNakedIdent, Tok(token.Word)),
			Tok(token.QuotedIdent),
		),

		"literal": OneOf(
			Tok(token.String),
			Tok(token.Number),
			TokNode(KindNullLiteral, Kw("NULL")),
			TokNode(KindBooleanLiteral, Kw("TRUE")),
			TokNode(KindBooleanLiteral, Kw("FALSE")),
		),

		"comma": Tok(token.Comma),
	}
}

// Dialect is the built ANSI dialect.
var Dialect = dialect.MustBuild("ansi", nil, GrammarTable(),
	dialect.WithLexRules(LexRules()...),
	dialect.WithKeywords(Keywords...),
	dialect.WithBareWordAfter("AS"),
)

func init() {
	dialect.Register(Dialect)
}
