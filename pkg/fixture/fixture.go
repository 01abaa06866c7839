// Package fixture implements the golden-fixture format used to pin parse
// trees: YAML files pairing input SQL with an expected node-kind tree,
// including explicit markers for expected unparsable spans. Dialect test
// suites load these and diff the engine's output against them.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/squill-labs/squill/pkg/cst"
)

// Suite is one fixture file: a dialect name and its cases.
type Suite struct {
	Dialect string `yaml:"dialect"`
	Cases   []Case `yaml:"cases"`
}

// Case pairs one SQL input with its expected tree.
type Case struct {
	Name string `yaml:"name"`
	SQL  string `yaml:"sql"`
	Tree *Tree  `yaml:"tree"`
}

// Tree is an expected node. Leaves may pin their raw text; an expected
// unparsable region is a node with kind "unparsable" and a raw covering
// the damaged span. Children listed are compared against the node's
// non-trivia children in order.
type Tree struct {
	Kind     string  `yaml:"kind"`
	Raw      string  `yaml:"raw,omitempty"`
	Children []*Tree `yaml:"children,omitempty"`
}

// Load reads a fixture suite from path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &s, nil
}

// Compare diffs an expected tree against an actual node and returns a
// list of human-readable mismatches; empty means equal. Trivia leaves on
// the actual side are ignored, everything else must correspond.
func Compare(want *Tree, got *cst.Node) []string {
	var diffs []string
	compare(want, got, "$", &diffs)
	return diffs
}

func compare(want *Tree, got *cst.Node, path string, diffs *[]string) {
	if string(got.Kind) != want.Kind {
		*diffs = append(*diffs, fmt.Sprintf("%s: kind %q, want %q", path, got.Kind, want.Kind))
		return
	}
	if want.Raw != "" && got.Raw() != want.Raw {
		*diffs = append(*diffs, fmt.Sprintf("%s: raw %q, want %q", path, got.Raw(), want.Raw))
	}
	if want.Children == nil {
		return
	}

	kids := got.CodeChildren()
	if len(kids) != len(want.Children) {
		*diffs = append(*diffs, fmt.Sprintf("%s: %d children, want %d", path, len(kids), len(want.Children)))
		return
	}
	for i, wc := range want.Children {
		compare(wc, kids[i], fmt.Sprintf("%s.%s[%d]", path, wc.Kind, i), diffs)
	}
}

// Dump renders a node as a fixture tree, convenient for regenerating
// golden files by hand inspection.
func Dump(n *cst.Node) *Tree {
	t := &Tree{Kind: string(n.Kind)}
	if n.IsLeaf() || n.IsUnparsable() {
		t.Raw = n.Raw()
		return t
	}
	for _, c := range n.CodeChildren() {
		t.Children = append(t.Children, Dump(c))
	}
	return t
}

// Marshal renders a tree back to YAML.
func (t *Tree) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
