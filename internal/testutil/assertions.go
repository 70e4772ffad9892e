package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertComponentStepped checks captured log output to confirm that a
// component completed its step for a year. It abstracts the log attribute
// layout so tests survive message rewording.
func AssertComponentStepped(t *testing.T, logs string, componentName string, year int) {
	t.Helper()

	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, "component="+componentName) && strings.Contains(line, fmt.Sprintf("year=%d", year)) {
			return
		}
	}
	require.Fail(t, "component step not logged",
		"expected a log line for component '%s' in year %d", componentName, year)
}
