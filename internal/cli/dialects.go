package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/squill-labs/squill/pkg/dialect"
)

func newDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered SQL dialects",
		Run: func(cmd *cobra.Command, _ []string) {
			tw := table.NewWriter()
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Name", "Inherits", "Grammar Rules", "Batch Separator"})
			for _, name := range dialect.List() {
				d := dialect.MustGet(name)
				parent := "-"
				if p := d.Parent(); p != nil {
					parent = p.Name()
				}
				sep := d.BatchSeparator()
				if sep == "" {
					sep = "-"
				}
				tw.AppendRow(table.Row{d.Name(), parent, len(d.Table()), strings.ToUpper(sep)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
		},
	}
}
