// Package cli provides the squill command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/squill-labs/squill/internal/config"

	// Register built-in dialects.
	_ "github.com/squill-labs/squill/pkg/dialects/ansi"
	_ "github.com/squill-labs/squill/pkg/dialects/tsql"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "squill",
		Short: "squill - SQL parser and linter",
		Long: `squill parses SQL into a lossless concrete syntax tree under a
selected dialect and runs lint rules over it. Parse failures never abort
a file: damaged statements become bounded unparsable regions.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err = config.Load(cfgFile, wd, cmd.Root().PersistentFlags())
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./squill.yaml)")
	rootCmd.PersistentFlags().StringP("dialect", "d", "", "SQL dialect to parse with")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newDialectsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "squill %s (%s)\n", Version, GitCommit)
		},
	}
}
