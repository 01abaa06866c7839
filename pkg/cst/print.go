package cst

import (
	"fmt"
	"strings"
)

// TreeString renders the node as an indented tree, one node per line.
// Trivia leaves are included so the output accounts for every byte.
func (n *Node) TreeString() string {
	var b strings.Builder
	n.writeTree(&b, 0)
	return b.String()
}

func (n *Node) writeTree(b *strings.Builder, depth int) {
	indent := strings.Repeat("    ", depth)
	if n.IsLeaf() {
		fmt.Fprintf(b, "%s%s: %q\n", indent, n.Kind, n.Tok.Raw)
		return
	}
	if n.IsUnparsable() {
		fmt.Fprintf(b, "%s%s: %q (while matching %s)\n",
			indent, n.Kind, n.Raw(), strings.Join(n.GrammarPath, " -> "))
		return
	}
	fmt.Fprintf(b, "%s%s:\n", indent, n.Kind)
	for _, c := range n.Children {
		c.writeTree(b, depth+1)
	}
}
