package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/flowrecon/internal/hcl"
	"github.com/specialistvlad/flowrecon/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Reports are
// captured in out and debug logs in logs.
func SetupAppTest(t *testing.T, cfg Config, opts ...Option) (a *App, out, logs *testutil.SafeBuffer) {
	t.Helper()

	out, logs = &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	valid, err := NewConfig(cfg)
	require.NoError(t, err)

	a, err = NewApp(out, logs, valid, hcl.NewLoader(), opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = a.Close()
		if os.Getenv(testutil.LogEnvVar) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}
