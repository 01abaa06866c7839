package lint

import (
	"fmt"
	"strings"

	"github.com/squill-labs/squill/pkg/cst"
)

// UnparsableRule reports every unparsable region the engine emitted. The
// engine itself never decides whether damage is acceptable; this rule is
// where that policy lands by default.
type UnparsableRule struct{}

func (UnparsableRule) Name() string        { return "PR01" }
func (UnparsableRule) Description() string { return "found unparsable section" }

func (r UnparsableRule) Check(root *cst.Node) []Finding {
	var out []Finding
	root.Walk(func(n *cst.Node) bool {
		if !n.IsUnparsable() {
			return true
		}
		out = append(out, Finding{
			Rule:        r.Name(),
			Description: r.Description(),
			Start:       n.Span.Start,
			End:         n.Span.End,
			Message: fmt.Sprintf("could not parse %q (attempted %s)",
				strings.TrimSpace(n.Raw()), strings.Join(n.GrammarPath, " -> ")),
		})
		return false
	})
	return out
}

// KeywordCaseRule flags keywords not written in upper case.
type KeywordCaseRule struct{}

func (KeywordCaseRule) Name() string        { return "CP01" }
func (KeywordCaseRule) Description() string { return "keywords should be upper case" }

func (r KeywordCaseRule) Check(root *cst.Node) []Finding {
	var out []Finding
	root.Walk(func(n *cst.Node) bool {
		if n.IsUnparsable() {
			return false
		}
		if n.IsLeaf() && n.Kind == "keyword" && n.Tok.Raw != strings.ToUpper(n.Tok.Raw) {
			out = append(out, Finding{
				Rule:        r.Name(),
				Description: r.Description(),
				Start:       n.Span.Start,
				End:         n.Span.End,
				Message:     fmt.Sprintf("keyword %q should be %q", n.Tok.Raw, strings.ToUpper(n.Tok.Raw)),
			})
		}
		return true
	})
	return out
}
