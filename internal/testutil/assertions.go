package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertEntityRegistered checks the log output within a HarnessResult to
// confirm that the registry accepted an entity with the given name.
func AssertEntityRegistered(t *testing.T, result *HarnessResult, name string) {
	t.Helper()

	expected := fmt.Sprintf("name=%s", name)
	for _, line := range strings.Split(result.LogOutput, "\n") {
		if strings.Contains(line, "Registered entity.") && strings.HasSuffix(strings.TrimSpace(line), expected) {
			return
		}
	}
	require.Fail(t, "entity not registered", "expected a registration log line for %q", name)
}

// AssertFinding checks that the run reported a finding for subject under
// the named check.
func AssertFinding(t *testing.T, result *HarnessResult, check, subject string) {
	t.Helper()

	require.NotNil(t, result.Report, "run failed: %v", result.Err)
	for _, f := range result.Report.Findings {
		if f.Check == check && f.Subject == subject {
			return
		}
	}
	require.Fail(t, "finding not reported", "expected a %s finding for %q, got %v", check, subject, result.Report.Findings)
}
