package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertWarned checks that a WARN record containing every fragment was
// logged. Fragments are matched against a single log line, so a test can
// pin the message together with its kind and id attributes.
func AssertWarned(t *testing.T, logs *SafeBuffer, fragments ...string) {
	t.Helper()

	for _, line := range strings.Split(logs.String(), "\n") {
		if !strings.Contains(line, "level=WARN") {
			continue
		}
		if containsAll(line, fragments) {
			return
		}
	}
	require.Failf(t, "warning not logged", "no WARN line contains %q in:\n%s", fragments, logs.String())
}

func containsAll(s string, fragments []string) bool {
	for _, f := range fragments {
		if !strings.Contains(s, f) {
			return false
		}
	}
	return true
}
