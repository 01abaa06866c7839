package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"

	"github.com/squill-labs/squill/pkg/cst"
	"github.com/squill-labs/squill/pkg/dialect"
	"github.com/squill-labs/squill/pkg/parser"
)

func newParseCommand() *cobra.Command {
	var showTrivia bool

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse SQL files and print their syntax trees",
		Long: `Parse reads SQL from the given files (or stdin when none are given)
and prints the concrete syntax tree. Unparsable regions are printed with
the grammar path the engine was attempting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := dialect.Get(cfg.Dialect)
			if !ok {
				return fmt.Errorf("unknown dialect %q (registered: %v)", cfg.Dialect, dialect.List())
			}

			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				return printTree(cmd.OutOrStdout(), "<stdin>", string(src), d, showTrivia)
			}

			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := printTree(cmd.OutOrStdout(), path, string(src), d, showTrivia); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTrivia, "trivia", false, "include whitespace and comment leaves")
	return cmd
}

func printTree(w io.Writer, name, src string, d *dialect.Dialect, showTrivia bool) error {
	root, err := parser.ParseWithOptions(src, d, parser.Options{MaxDepth: cfg.MaxDepth})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "-- %s (dialect %s)\n", name, d.Name())

	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedLight)
	renderNode(lw, root, showTrivia)
	fmt.Fprintln(w, lw.Render())

	for _, diag := range parser.Diagnostics(root) {
		fmt.Fprintf(w, "warning: %s\n", diag)
	}
	return nil
}

func renderNode(lw list.Writer, n *cst.Node, showTrivia bool) {
	if n.IsLeaf() {
		if !showTrivia && n.Tok.IsTrivia() {
			return
		}
		lw.AppendItem(fmt.Sprintf("%s: %q", n.Kind, n.Tok.Raw))
		return
	}
	if n.IsUnparsable() {
		lw.AppendItem(fmt.Sprintf("%s: %q", n.Kind, n.Raw()))
		return
	}
	lw.AppendItem(string(n.Kind))
	lw.Indent()
	for _, c := range n.Children {
		renderNode(lw, c, showTrivia)
	}
	lw.UnIndent()
}
