// Package main is the entry point for the squill CLI.
package main

import (
	"os"

	"github.com/squill-labs/squill/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
