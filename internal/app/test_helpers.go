package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/internal/testutil"
)

// WriteSimulationFile writes content under a fresh temporary directory and
// returns the file path.
func WriteSimulationFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// SetupAppTest creates a new app instance for system testing. Results go to
// the returned output buffer and logs to the log buffer, which is dumped
// when TRANSITIONSIM_TEST_LOGS=true.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	out := &testutil.SafeBuffer{}
	logs := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp, err := NewApp(out, logs, cfg, DefaultLoader(), modules...)
	require.NoError(t, err, "app setup failed, logs:\n%s", logs.String())

	t.Cleanup(func() {
		require.NoError(t, testApp.Close())
		if os.Getenv("TRANSITIONSIM_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
