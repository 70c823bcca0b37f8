package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/arborfuzz/grammar"
	"github.com/spf13/cobra"
)

var generateFlags = struct {
	input    *string
	output   *string
	count    *int
	filetype *string
	prefix   *string
	suffix   *string
	tabs     *int
	seed     *int64
}{}

func init() {
	flags := rootCmd.Flags()
	generateFlags.input = flags.StringP("input", "i", "", "path to the grammar file (required)")
	generateFlags.output = flags.StringP("output", "o", "", "output directory (required)")
	generateFlags.count = flags.IntP("count", "n", 1, "number of artifacts to generate")
	generateFlags.filetype = flags.StringP("filetype", "f", "html", "output file extension")
	generateFlags.prefix = flags.StringP("prefix", "p", "", "path to a file whose contents prefix every artifact")
	generateFlags.suffix = flags.StringP("suffix", "s", "", "path to a file whose contents suffix every artifact")
	generateFlags.tabs = flags.IntP("tabs", "t", 0, "number of tabs a literal \\n expands to")
	generateFlags.seed = flags.Int64("seed", int64(os.Getpid()), "PRNG seed (defaults to the process id)")

	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	grammarText, err := readFile(*generateFlags.input)
	if err != nil {
		return fmt.Errorf("cannot open grammar: %w", err)
	}

	prefix, err := readOptionalFile(*generateFlags.prefix)
	if err != nil {
		return fmt.Errorf("cannot open prefix: %w", err)
	}
	suffix, err := readOptionalFile(*generateFlags.suffix)
	if err != nil {
		return fmt.Errorf("cannot open suffix: %w", err)
	}

	g, err := grammar.Parse(grammarText, *generateFlags.tabs)
	if err != nil {
		return err
	}
	if err := g.Resolve(); err != nil {
		return err
	}
	g.AnalyzeLeafPaths()

	if fi, err := os.Stat(*generateFlags.output); err != nil || !fi.IsDir() {
		return fmt.Errorf("output directory missing: %s", *generateFlags.output)
	}

	rng := rand.New(rand.NewSource(*generateFlags.seed))

	for n := 1; n <= *generateFlags.count; n++ {
		out, err := g.Emit(rng, prefix, suffix)
		if err != nil {
			return err
		}

		path := filepath.Join(*generateFlags.output, fmt.Sprintf("%d.%s", n, *generateFlags.filetype))
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("cannot write output file %s: %w", path, err)
		}

		fmt.Fprintf(os.Stderr, "i: wrote %s\n", path)
	}

	return nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return readFile(path)
}
