// Package testutil provides shared helpers for tests that run the
// application against model files written to a temporary directory.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/qspgo/internal/app"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Report    *app.Report
	Err       error
}

// WriteFiles writes files (relative path -> content) under a fresh temporary
// directory and returns its path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return tmpDir
}

// RunIntegrationTest writes files to a temporary directory and runs the app
// over it with debug logging.
func RunIntegrationTest(t *testing.T, files map[string]string, mutate ...func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, mutate...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, mutate ...func(*app.Config)) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg := app.Config{
		ModelPaths: []string{dir},
		LogLevel:   "debug",
		LogFormat:  "text",
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	report, runErr := app.NewApp(out, logs, appConfig).Run(ctx)

	if os.Getenv("QSPGO_TEST_LOGS") == "true" {
		t.Logf("--- output ---\n%s\n--- logs ---\n%s", out, logs)
	}
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Report:    report,
		Err:       runErr,
	}
}
