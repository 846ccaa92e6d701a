package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/qspgo/internal/cli"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0o600), "failed to set up test file")
	return filePath
}

func TestRun_FindingsDoNotFail(t *testing.T) {
	// --- Arrange ---
	filePath := writeModel(t, `
parameters {
  k0 = [0, "1/h"]
}
`)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, []string{"-log-level", "error", filePath})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "warning: [unused_quantities] Unused quantity: k0")
	require.Contains(t, out.String(), "warning: [zero_quantities] Zero-valued quantity: k0")
	require.Contains(t, out.String(), "2 findings")
}

func TestRun_DeclarationErrorExitsWithOne(t *testing.T) {
	// --- Arrange ---
	// A syntax error makes loading fail before anything is declared.
	filePath := writeModel(t, `
parameters {
  k1 = [1, "1/h"]
`)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, []string{filePath})

	// --- Assert ---
	require.Error(t, err)
	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok, "expected *cli.ExitError, got %T", err)
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
