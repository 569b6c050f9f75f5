package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonwise/internal/cli"
	"github.com/rshade/carbonwise/internal/config"
)

const (
	// One record per configuration.
	pairRunLog = `{"run_name":"baseline","energy_kwh":0.92,"co2e_kg":0.42,"latency_ms":980,"sci_wh_per_req":920}
{"run_name":"optimized","energy_kwh":0.58,"co2e_kg":0.27,"latency_ms":710,"sci_wh_per_req":580}
`
	regressedRunLog = `{"run_name":"baseline","energy_kwh":0.92,"co2e_kg":0.42,"latency_ms":1000,"sci_wh_per_req":900}
{"run_name":"optimized","energy_kwh":0.58,"co2e_kg":0.27,"latency_ms":1120,"sci_wh_per_req":950}
`
	baselineOnlyRunLog = `{"run_name":"baseline","energy_kwh":0.92,"co2e_kg":0.42,"latency_ms":980,"sci_wh_per_req":920}
`
	regionTable = `[
  {"region": "us-east-1", "gco2_per_kwh": 380, "country": "US"},
  {"region": "eu-north-1", "gco2_per_kwh": 13, "country": "SE"},
  {"region": "eu-west-1", "gco2_per_kwh": 50, "country": "IE", "display_name": "Ireland"}
]`
)

// setupCLITest isolates the global config directory, clears CARBONWISE_*
// overrides and resets package state after the test.
func setupCLITest(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvKWhEUR, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
}

// writeFixture writes content to name in a fresh temp dir and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// executeCLI runs the root command with args and returns stdout and stderr.
func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
