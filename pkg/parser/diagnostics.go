package parser

import (
	"fmt"
	"strings"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/token"
)

// Diagnostic describes one unparsable region for rendering by a caller.
// The engine does not decide whether an unparsable region is acceptable;
// that policy belongs to the lint/report layer.
type Diagnostic struct {
	Span        token.Span
	Raw         string
	GrammarPath []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("unparsable at bytes %d-%d while matching %s: %q",
		d.Span.Start, d.Span.End, strings.Join(d.GrammarPath, " -> "), d.Raw)
}

// Diagnostics collects every unparsable region in the tree, in document
// order.
func Diagnostics(root *cst.Node) []Diagnostic {
	var out []Diagnostic
	root.Walk(func(n *cst.Node) bool {
		if n.IsUnparsable() {
			out = append(out, Diagnostic{
				Span:        n.Span,
				Raw:         n.Raw(),
				GrammarPath: n.GrammarPath,
			})
			return false
		}
		return true
	})
	return out
}
