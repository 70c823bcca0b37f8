package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()

	grammarPath := filepath.Join(dir, "g.txt")
	grammarSrc := "%section% := value\n" +
		"x :=\n" +
		"\thi\n" +
		"\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\t+x+\n"
	require.NoError(t, os.WriteFile(grammarPath, []byte(grammarSrc), 0644))

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0755))

	rootCmd.SetArgs([]string{
		"--input", grammarPath,
		"--output", outDir,
		"--count", "3",
		"--filetype", "txt",
		"--seed", "7",
	})

	require.NoError(t, rootCmd.Execute())

	for n := 1; n <= 3; n++ {
		path := filepath.Join(outDir, strconv.Itoa(n)+".txt")
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "hi\n", string(b))
	}
}

func TestGenerateRequiresOutputDirectory(t *testing.T) {
	dir := t.TempDir()

	grammarPath := filepath.Join(dir, "g.txt")
	grammarSrc := "%section% := value\n" +
		"x :=\n" +
		"\thi\n" +
		"\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\t+x+\n"
	require.NoError(t, os.WriteFile(grammarPath, []byte(grammarSrc), 0644))

	rootCmd.SetArgs([]string{
		"--input", grammarPath,
		"--output", filepath.Join(dir, "does-not-exist"),
	})

	require.Error(t, rootCmd.Execute())
}
