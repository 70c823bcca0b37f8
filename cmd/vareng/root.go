package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vareng",
	Short: "Emit grammar-driven test cases for fuzz targets",
	Long: `vareng reads a grammar describing how to assemble textual artifacts
(values, variables and variances referencing one another) and writes the
requested number of generated artifacts to an output directory.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runGenerate,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
