// Package lint provides the minimal rule surface consuming the CST: a
// rule interface, a violation model and the built-in rules the CLI runs.
// The full rule catalog and autofix machinery live outside this engine.
package lint

import (
	"fmt"
	"sort"

	"github.com/squill-labs/squill/pkg/cst"
)

// Rule checks a parsed file and reports findings.
type Rule interface {
	Name() string
	Description() string
	Check(root *cst.Node) []Finding
}

// Finding is one rule finding with its byte span.
type Finding struct {
	Rule        string
	Description string
	Start, End  int
	Message     string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s at bytes %d-%d: %s", f.Rule, f.Start, f.End, f.Message)
}

// Run applies rules to root and returns findings sorted by span.
func Run(root *cst.Node, rules []Rule) []Finding {
	var out []Finding
	for _, r := range rules {
		out = append(out, r.Check(root)...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Rule < out[j].Rule
	})
	return out
}

// Defaults returns the built-in rule set.
func Defaults() []Rule {
	return []Rule{UnparsableRule{}, KeywordCaseRule{}}
}
