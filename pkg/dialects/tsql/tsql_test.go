package tsql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/dialect"
	"github.com/squill-labs/squill/pkg/dialects/ansi"
	"github.com/squill-labs/squill/pkg/grammar"
	"github.com/squill-labs/squill/pkg/parser"
	"github.com/squill-labs/squill/pkg/token"
)

func mustParse(t *testing.T, src string) *cst.Node {
	t.Helper()
	root, err := parser.Parse(src, Dialect)
	require.NoError(t, err)
	return root
}

func assertClean(t *testing.T, root *cst.Node) {
	t.Helper()
	for _, d := range parser.Diagnostics(root) {
		t.Errorf("unexpected unparsable region: %s", d)
	}
}

func TestDialectRegistered(t *testing.T) {
	d, ok := dialect.Get("tsql")
	require.True(t, ok)
	assert.Same(t, Dialect, d)
	assert.Same(t, ansi.Dialect, d.Parent())
	assert.Equal(t, "GO", d.BatchSeparator())
}

func TestTableValidates(t *testing.T) {
	assert.NoError(t, grammar.Validate(Dialect.Table()))
}

func TestInheritedStatementsStillParse(t *testing.T) {
	srcs := []string{
		"SELECT a, b FROM t WHERE a = 1",
		"INSERT INTO t VALUES (1, 'x')",
		"UPDATE t SET a = 1",
		"DELETE FROM t WHERE a = 1",
		"WITH c AS (SELECT 1) SELECT * FROM c",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			root := mustParse(t, src)
			assertClean(t, root)
			assert.Equal(t, src, root.Raw())
		})
	}
}

func TestLexerExtensions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		raw  string
		typ  token.Type
	}{
		{"local variable", "SELECT @x", "@x", token.Variable},
		{"system variable", "SELECT @@rowcount", "@@rowcount", token.Variable},
		{"temp table", "SELECT a FROM #tmp", "#tmp", token.TempName},
		{"global temp table", "SELECT a FROM ##shared", "##shared", token.TempName},
		{"trailing hash name", "SELECT a FROM odd#", "odd#", token.TempName},
		{"bracket identifier", "SELECT [my col] FROM t", "[my col]", token.QuotedIdent},
		{"compound assignment", "SET @x += 1", "+=", token.Operator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, tok := range lexAll(tt.src) {
				if tok.Raw == tt.raw {
					assert.Equal(t, tt.typ, tok.Type)
					found = true
				}
			}
			assert.True(t, found, "token %q not produced", tt.raw)
		})
	}
}

func lexAll(src string) []token.Token {
	root, _ := parser.Parse(src, Dialect)
	var toks []token.Token
	root.Walk(func(n *cst.Node) bool {
		if n.IsLeaf() {
			toks = append(toks, *n.Tok)
		}
		return true
	})
	return toks
}

func TestTableHint(t *testing.T) {
	root := mustParse(t, "SELECT a FROM t WITH (NOLOCK) WHERE a = 1")
	assertClean(t, root)

	hints := root.FindAll(KindTableHint)
	require.Len(t, hints, 1)
	assert.Contains(t, hints[0].Raw(), "NOLOCK")
	assert.Len(t, root.FindAll(ansi.KindWhereClause), 1)
}

func TestTableHintWithoutSpace(t *testing.T) {
	root := mustParse(t, "SELECT * FROM Users WITH(NOLOCK)")
	assertClean(t, root)

	hints := root.FindAll(KindTableHint)
	require.Len(t, hints, 1)
	// Attached under the table's from expression, never taken as an alias.
	assert.Empty(t, root.FindAll(ansi.KindAlias))
}

func TestTableHintWithArguments(t *testing.T) {
	root := mustParse(t, "SELECT a FROM t WITH (NOLOCK, INDEX(ix_name))")
	assertClean(t, root)
	assert.Len(t, root.FindAll(KindTableHint), 1)
}

func TestBareTrailingWithIsUnparsable(t *testing.T) {
	// WITH is reserved, so it can never be taken as an alias; without the
	// bracket the hint grammar rejects it and the tail is flagged.
	root := mustParse(t, "SELECT a FROM t WITH")

	diags := parser.Diagnostics(root)
	require.Len(t, diags, 1)
	assert.Equal(t, "WITH", strings.TrimSpace(diags[0].Raw))

	// The statement before the damage still parsed.
	assert.Len(t, root.FindAll(ansi.KindSelectStatement), 1)
}

func TestMergeStatement(t *testing.T) {
	src := "MERGE INTO target t USING source s ON t.id = s.id " +
		"WHEN MATCHED THEN UPDATE SET t.v = s.v " +
		"WHEN NOT MATCHED BY TARGET THEN INSERT (id, v) VALUES (s.id, s.v) " +
		"WHEN NOT MATCHED BY SOURCE THEN DELETE"
	root := mustParse(t, src)
	assertClean(t, root)

	assert.Len(t, root.FindAll(KindMergeStatement), 1)
	assert.Len(t, root.FindAll(KindMergeMatch), 3)
	assert.Len(t, root.FindAll(KindMergeUpdate), 1)
	assert.Len(t, root.FindAll(KindMergeInsert), 1)
	assert.Equal(t, src, root.Raw())
}

func TestMergeWithAliases(t *testing.T) {
	src := "MERGE t1 AS tgt USING t2 AS src ON tgt.id=src.id WHEN MATCHED THEN UPDATE SET tgt.v=src.v"
	root := mustParse(t, src)
	assertClean(t, root)

	merges := root.FindAll(KindMergeStatement)
	require.Len(t, merges, 1)
	assert.Len(t, root.FindAll(ansi.KindAlias), 2)
	assert.Len(t, root.FindAll(KindMergeMatch), 1)
	assert.Len(t, root.FindAll(KindMergeUpdate), 1)
}

func TestDeclareStatement(t *testing.T) {
	tests := []string{
		"DECLARE @x int",
		"DECLARE @x AS int = 5",
		"DECLARE @name varchar(50), @total decimal(10, 2)",
		"DECLARE @s nvarchar(MAX)",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			root := mustParse(t, src)
			assertClean(t, root)
			assert.Len(t, root.FindAll(KindDeclareStatement), 1)
		})
	}
}

func TestSetStatement(t *testing.T) {
	tests := []struct {
		src string
		op  string
	}{
		{"SET @x = 1", "="},
		{"SET @x += 2", "+="},
		{"SET @x %= @y", "%="},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root := mustParse(t, tt.src)
			assertClean(t, root)
			assert.Len(t, root.FindAll(KindSetStatement), 1)
			ops := root.FindAll(KindAssignmentOp)
			require.Len(t, ops, 1)
			assert.Equal(t, tt.op, ops[0].Raw())
		})
	}
}

func TestThrowStatement(t *testing.T) {
	root := mustParse(t, "THROW 50000, 'oops', 1")
	assertClean(t, root)
	assert.Len(t, root.FindAll(KindThrowStatement), 1)

	root = mustParse(t, "THROW")
	assertClean(t, root)
	assert.Len(t, root.FindAll(KindThrowStatement), 1)
}

func TestVariablesInExpressions(t *testing.T) {
	root := mustParse(t, "SELECT a FROM t WHERE a = @min AND b < @@rowcount")
	assertClean(t, root)
}

func TestTempTableAsIdentifier(t *testing.T) {
	root := mustParse(t, "SELECT a FROM #tmp WHERE a = 1")
	assertClean(t, root)

	root = mustParse(t, "INSERT INTO ##shared SELECT a FROM t")
	assertClean(t, root)
}

func TestBatchSeparatedScript(t *testing.T) {
	src := "DECLARE @x int\nGO\nSELECT @x\nGO"
	root := mustParse(t, src)
	assertClean(t, root)

	assert.Len(t, root.FindAll(cst.KindBatchSeparator), 2)
	assert.Equal(t, src, root.Raw())
}

func TestGoInsideWordIsNotASeparator(t *testing.T) {
	// GO must be alone on its line; a column named go or a word
	// containing it stays a word.
	root := mustParse(t, "SELECT gone FROM going")
	assertClean(t, root)
	assert.Empty(t, root.FindAll(cst.KindBatchSeparator))
}

func TestOverrideReplacesParentWholesale(t *testing.T) {
	// A grammar patched in a child fully replaces the parent entry: the
	// late-bound reference from select_clause_element picks up the
	// child's term, which no longer accepts plain object references.
	restricted := dialect.MustBuild("tsql_restricted_test", Dialect, dialect.Patch{
		"term": grammar.OneOf(
			grammar.Ref("literal"),
			grammar.Tok(token.Variable),
		),
	})

	root, err := parser.Parse("SELECT 1", restricted)
	require.NoError(t, err)
	assert.Empty(t, parser.Diagnostics(root))

	root, err = parser.Parse("SELECT a FROM t", restricted)
	require.NoError(t, err)
	assert.NotEmpty(t, parser.Diagnostics(root), "column references should no longer parse")
}
