package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/dialects/ansi"
	_ "github.com/squill-labs/squill/pkg/dialects/tsql"
)

func TestParseSimpleSelect(t *testing.T) {
	root, err := Parse("SELECT a, b FROM t WHERE a = 1;", ansi.Dialect)
	require.NoError(t, err)

	assert.Equal(t, cst.KindFile, root.Kind)
	require.Len(t, root.FindAll(ansi.KindSelectStatement), 1)
	assert.Len(t, root.FindAll(ansi.KindSelectElement), 2)
	assert.Len(t, root.FindAll(ansi.KindWhereClause), 1)
	assert.Empty(t, root.FindAll(cst.KindUnparsable))
}

func TestParseLossless(t *testing.T) {
	inputs := []string{
		"SELECT a FROM t",
		"SELECT a FROM t;",
		"  -- leading comment\nSELECT a /* mid */ FROM t ;  ",
		"SELECT 1; GARBAGE HERE; SELECT 2",
		"complete nonsense ~~~",
		";;;",
		"",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			root, err := Parse(src, ansi.Dialect)
			require.NoError(t, err)
			assert.Equal(t, src, root.Raw(), "tree must reproduce the input byte-for-byte")
		})
	}
}

func TestParseBoundaryIsolation(t *testing.T) {
	src := "SELECT a FROM t; SELEKT nope nope; SELECT b FROM u;"
	root, err := Parse(src, ansi.Dialect)
	require.NoError(t, err)

	// The damaged middle statement is contained; its neighbors parse.
	assert.Len(t, root.FindAll(ansi.KindSelectStatement), 2)

	unparsable := root.FindAll(cst.KindUnparsable)
	require.Len(t, unparsable, 1)
	assert.Equal(t, "SELEKT nope nope", strings.TrimSpace(unparsable[0].Raw()))

	// Terminators stay at file level, outside the unparsable region.
	assert.Len(t, root.FindAll(cst.KindStatementTerminator), 3)
}

func TestParseLeftoverAfterStatement(t *testing.T) {
	// The statement grammar matches a prefix; the trailing junk before
	// the boundary becomes its own unparsable region.
	src := "SELECT a FROM t 123 456; SELECT b FROM u"
	root, err := Parse(src, ansi.Dialect)
	require.NoError(t, err)

	assert.Len(t, root.FindAll(ansi.KindSelectStatement), 2)
	unparsable := root.FindAll(cst.KindUnparsable)
	require.Len(t, unparsable, 1)
	assert.Equal(t, "123 456", strings.TrimSpace(unparsable[0].Raw()))
	assert.Equal(t, src, root.Raw())
}

func TestParseWhollyUnparsableInput(t *testing.T) {
	root, err := Parse("complete nonsense", ansi.Dialect)
	require.NoError(t, err)

	unparsable := root.FindAll(cst.KindUnparsable)
	require.Len(t, unparsable, 1)
	assert.NotEmpty(t, unparsable[0].GrammarPath)
}

func TestParseDepthTruncation(t *testing.T) {
	src := "SELECT " + strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
	root, err := ParseWithOptions(src, ansi.Dialect, Options{MaxDepth: 30})
	require.NoError(t, err)

	// The whole remaining input collapses into one trailing unparsable
	// region rather than recursing without bound.
	unparsable := root.FindAll(cst.KindUnparsable)
	require.Len(t, unparsable, 1)
	assert.Equal(t, src, root.Raw())
	assert.Empty(t, root.FindAll(ansi.KindSelectStatement))
}

func TestParseDeepNestingWithinBudget(t *testing.T) {
	src := "SELECT " + strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	root, err := Parse(src, ansi.Dialect)
	require.NoError(t, err)
	assert.Empty(t, root.FindAll(cst.KindUnparsable))
	assert.Len(t, root.FindAll(ansi.KindBracketed), 20)
}

func TestParseElapsedBudget(t *testing.T) {
	root, err := ParseWithOptions("SELECT a FROM t", ansi.Dialect, Options{Budget: time.Nanosecond})
	require.NoError(t, err)

	require.Len(t, root.FindAll(cst.KindUnparsable), 1)
	assert.Equal(t, "SELECT a FROM t", root.Raw())
}

func TestParseBatchSeparator(t *testing.T) {
	src := "SELECT 1\nGO\nSELECT 2"
	root, err := ParseNamed(src, "tsql")
	require.NoError(t, err)

	assert.Len(t, root.FindAll(cst.KindBatchSeparator), 1)
	assert.Len(t, root.FindAll(ansi.KindSelectStatement), 2)
	assert.Equal(t, src, root.Raw())
}

func TestParseBatchSeparatorBoundsRecovery(t *testing.T) {
	// Damage before GO must not leak past it.
	src := "SELEKT broken\nGO\nSELECT 2"
	root, err := ParseNamed(src, "tsql")
	require.NoError(t, err)

	unparsable := root.FindAll(cst.KindUnparsable)
	require.Len(t, unparsable, 1)
	assert.Equal(t, "SELEKT broken", strings.TrimSpace(unparsable[0].Raw()))
	assert.Len(t, root.FindAll(ansi.KindSelectStatement), 1)
}

func TestParseNilDialect(t *testing.T) {
	_, err := Parse("SELECT 1", nil)
	assert.ErrorIs(t, err, ErrNilDialect)
}

func TestParseNamedUnknownDialect(t *testing.T) {
	_, err := ParseNamed("SELECT 1", "no_such_dialect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_dialect")
}

func TestParseEmptyAndTriviaOnly(t *testing.T) {
	for _, src := range []string{"", "   ", "-- only a comment\n"} {
		root, err := Parse(src, ansi.Dialect)
		require.NoError(t, err)
		assert.Equal(t, src, root.Raw())
		assert.Empty(t, root.FindAll(cst.KindUnparsable))
	}
}

func TestDiagnostics(t *testing.T) {
	root, err := Parse("SELECT a FROM t; ???; SELECT b FROM u", ansi.Dialect)
	require.NoError(t, err)

	diags := Diagnostics(root)
	require.Len(t, diags, 1)
	assert.Equal(t, "???", strings.TrimSpace(diags[0].Raw))
	assert.NotEmpty(t, diags[0].GrammarPath)
	assert.NotEmpty(t, diags[0].String())
}

func TestParseConcurrentSameDialect(t *testing.T) {
	// Dialects are immutable; parses must be independent.
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				root, err := Parse("SELECT a, b FROM t WHERE a = 1", ansi.Dialect)
				assert.NoError(t, err)
				assert.NotNil(t, root)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
