// Package main provides the integrity CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "integrity",
		Short: "Tanking-integrity index for NBA team-seasons",
		Long: `Integrity evaluates NBA team-seasons for structural tanking signals:
star availability collapses, post-elimination trend breaks, rotation
disruption, and historical context, combined into a classified composite.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newCasesCmd(),
		newImportCmd(),
		newComputeCmd(),
		newScoreCmd(),
		newArchiveCmd(),
		newActivityCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
