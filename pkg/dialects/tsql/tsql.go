// Package tsql defines the Transact-SQL dialect as a child of ansi.
//
// It exercises the whole dialect-composition surface: lexer rule patches
// (bracket identifiers, @variables, #temp names, GO batch separator,
// compound assignment operators) and grammar patches (table hints, MERGE,
// DECLARE/SET/THROW). Grammar patches fully replace the parent entry under
// the same name: the "statement" patch below must re-list every statement
// form it wants to keep, because replacement is wholesale, never a merge.
package tsql

import (
	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/dialect"
	"github.com/squill-labs/squill/pkg/dialects/ansi"
	. "github.com/squill-labs/squill/pkg/grammar"
	"github.com/squill-labs/squill/pkg/token"
)

// Node kinds specific to T-SQL.
const (
	KindTableHint        cst.Kind = "table_hint"
	KindMergeStatement   cst.Kind = "merge_statement"
	KindMergeMatch       cst.Kind = "merge_match_clause"
	KindMergeUpdate      cst.Kind = "merge_update_clause"
	KindMergeInsert      cst.Kind = "merge_insert_clause"
	KindDeclareStatement cst.Kind = "declare_statement"
	KindSetStatement     cst.Kind = "set_statement"
	KindThrowStatement   cst.Kind = "throw_statement"
	KindDataType         cst.Kind = "data_type"
	KindAssignmentOp     cst.Kind = "assignment_operator"
)

// Keywords reserved in T-SQL on top of the ANSI set. NOLOCK and the other
// hint names stay unreserved: they are plain words the table_hint grammar
// matches by text.
var Keywords = []string{"MERGE", "MATCHED", "DECLARE", "THROW", "OUTPUT"}

func grammarPatches() dialect.Patch {
	return dialect.Patch{
		// Wholesale replacement of the parent's statement list. A patch
		// that forgot merge_statement here would silently drop MERGE
		// support for the whole dialect — that is the documented
		// replace-not-merge property, not an inheritance bug.
		"statement": Node(ansi.KindStatement, OneOf(
			Ref("with_compound_statement"),
			Ref("select_statement"),
			Ref("insert_statement"),
			Ref("update_statement"),
			Ref("delete_statement"),
			Ref("merge_statement"),
			Ref("declare_statement"),
			Ref("set_statement"),
			Ref("throw_statement"),
		)),

		// Adds the table-hint slot after the alias. Replaces the ANSI
		// entry wholesale, so the alias and join handling is re-stated.
		"from_expression": Node(ansi.KindFromExpr, Seq(
			Ref("table_expression"),
			Opt(Ref("alias_expression")),
			Opt(Ref("table_hint")),
			Rep(Ref("join_clause")),
		)),

		// WITH (NOLOCK, INDEX(ix_name), ...). The leading WITH is only
		// taken when the bracket follows, which keeps a bare trailing
		// WITH out of the hint and therefore unparsable (reserved words
		// never match a naked alias).
		"table_hint": Node(KindTableHint, Seq(
			Kw("WITH"),
			Tok(token.LParen),
			Delim(Ref("table_hint_element"), Ref("comma")),
			Tok(token.RParen),
		)),

		"table_hint_element": Seq(
			Tok(token.Word),
			Opt(Seq(
				Tok(token.LParen),
				Delim(OneOf(Tok(token.Word), Tok(token.Number)), Ref("comma")),
				Tok(token.RParen),
			)),
		),

		// T-SQL identifiers include #temp / ##global names (and names
		// ending in #); bracket-quoted identifiers lex as QuotedIdent
		// and are covered by the inherited alternative.
		"identifier": OneOf(
			TokNode(ansi.KindNakedIdent, Tok(token.Word)),
			Tok(token.QuotedIdent),
			Tok(token.TempName),
		),

		// Re-listed with @variables added.
		"term": OneOf(
			Ref("case_expression"),
			Ref("function"),
			Ref("literal"),
			Tok(token.Variable),
			Ref("object_reference"),
			Ref("bracketed"),
			Ref("unary_expression"),
		),

		// ---------- MERGE ----------

		"merge_statement": Node(KindMergeStatement, Seq(
			Kw("MERGE"),
			Opt(Kw("INTO")),
			Ref("table_expression"),
			Opt(Ref("alias_expression")),
			Kw("USING"),
			Ref("table_expression"),
			Opt(Ref("alias_expression")),
			Kw("ON"),
			Ref("expression"),
			Rep1(Ref("merge_match_clause")),
		)),

		"merge_match_clause": Node(KindMergeMatch, Seq(
			Kw("WHEN"),
			Opt(Kw("NOT")),
			Kw("MATCHED"),
			Opt(Seq(Kw("BY"), OneOf(Kw("TARGET"), Kw("SOURCE")))),
			Kw("THEN"),
			OneOf(
				Node(KindMergeUpdate, Seq(Kw("UPDATE"), Ref("set_clause"))),
				Node(KindMergeInsert, Seq(
					Kw("INSERT"),
					Opt(Ref("bracketed")),
					Ref("values_clause"),
				)),
				Kw("DELETE"),
			),
		)),

		// ---------- DECLARE / SET / THROW ----------

		"declare_statement": Node(KindDeclareStatement, Seq(
			Kw("DECLARE"),
			Delim(
				Seq(
					Tok(token.Variable),
					Opt(Kw("AS")),
					Ref("data_type"),
					Opt(Seq(Sym("="), Ref("expression"))),
				),
				Ref("comma"),
			),
		)),

		"data_type": Node(KindDataType, Seq(
			Tok(token.Word),
			Opt(Seq(
				Tok(token.LParen),
				Delim(OneOf(Tok(token.Number), Kw("MAX")), Ref("comma")),
				Tok(token.RParen),
			)),
		)),

		"set_statement": Node(KindSetStatement, Seq(
			Kw("SET"),
			Tok(token.Variable),
			Ref("assignment_operator"),
			Ref("expression"),
		)),

		"assignment_operator": OneOf(
			TokNode(KindAssignmentOp, Sym("=")),
			TokNode(KindAssignmentOp, Sym("+=")),
			TokNode(KindAssignmentOp, Sym("-=")),
			TokNode(KindAssignmentOp, Sym("*=")),
			TokNode(KindAssignmentOp, Sym("/=")),
			TokNode(KindAssignmentOp, Sym("%=")),
		),

		"throw_statement": Node(KindThrowStatement, Seq(
			Kw("THROW"),
			Opt(Delim(Ref("expression"), Ref("comma"))),
		)),
	}
}

// Dialect is the built T-SQL dialect.
var Dialect = dialect.MustBuild("tsql", ansi.Dialect, grammarPatches(),
	dialect.WithLexRulesBefore("word",
		lexRuleSquareQuote(),
		lexRuleVariable(),
		lexRuleTempName(),
		lexRuleBatchSeparator(),
	),
	dialect.WithLexRulePatch(lexRuleOperators()),
	dialect.WithKeywords(Keywords...),
	dialect.WithBareWordAfter("THROW"),
	dialect.WithBatchSeparator("GO"),
)

func init() {
	dialect.Register(Dialect)
}
