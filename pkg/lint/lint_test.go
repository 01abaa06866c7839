package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squill-labs/squill/pkg/dialects/ansi"
	"github.com/squill-labs/squill/pkg/parser"
)

func TestUnparsableRule(t *testing.T) {
	root, err := parser.Parse("SELECT a FROM t; garbage here; SELECT b FROM u", ansi.Dialect)
	require.NoError(t, err)

	findings := UnparsableRule{}.Check(root)
	require.Len(t, findings, 1)
	assert.Equal(t, "PR01", findings[0].Rule)
	assert.Contains(t, findings[0].Message, "garbage here")
	assert.Contains(t, findings[0].Message, "attempted")
	assert.Less(t, findings[0].Start, findings[0].End)
}

func TestUnparsableRuleCleanInput(t *testing.T) {
	root, err := parser.Parse("SELECT a FROM t", ansi.Dialect)
	require.NoError(t, err)
	assert.Empty(t, UnparsableRule{}.Check(root))
}

func TestKeywordCaseRule(t *testing.T) {
	root, err := parser.Parse("select a FROM t where a = 1", ansi.Dialect)
	require.NoError(t, err)

	findings := KeywordCaseRule{}.Check(root)
	require.Len(t, findings, 2)
	assert.Contains(t, findings[0].Message, `"select"`)
	assert.Contains(t, findings[1].Message, `"where"`)
}

func TestKeywordCaseRuleSkipsUnparsable(t *testing.T) {
	// Keywords inside damaged regions are not worth reporting on.
	root, err := parser.Parse("1 select 2", ansi.Dialect)
	require.NoError(t, err)

	assert.Empty(t, KeywordCaseRule{}.Check(root))
}

func TestRunSortsFindings(t *testing.T) {
	root, err := parser.Parse("select a FROM t; nonsense!; SELECT b from u", ansi.Dialect)
	require.NoError(t, err)

	findings := Run(root, Defaults())
	require.NotEmpty(t, findings)
	for i := 1; i < len(findings); i++ {
		assert.LessOrEqual(t, findings[i-1].Start, findings[i].Start)
	}
}

func TestDefaults(t *testing.T) {
	rules := Defaults()
	require.Len(t, rules, 2)
	names := []string{rules[0].Name(), rules[1].Name()}
	assert.Contains(t, names, "PR01")
	assert.Contains(t, names, "CP01")
	for _, r := range rules {
		assert.NotEmpty(t, r.Description())
	}
}

func TestFindingString(t *testing.T) {
	f := Finding{Rule: "CP01", Start: 3, End: 9, Message: "msg"}
	assert.Contains(t, f.String(), "CP01")
	assert.Contains(t, f.String(), "msg")
}
