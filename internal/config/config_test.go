package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonwise/internal/config"
)

// isolate points the global config at an empty directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, env := range []string{config.EnvOutputFormat, config.EnvKWhEUR, config.EnvLogLevel, config.EnvLogFormat} {
		t.Setenv(env, "")
	}
	return home
}

func TestDefault(t *testing.T) {
	home := isolate(t)
	cfg := config.Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.OutputTable, cfg.Output.DefaultFormat)
	assert.Equal(t, "baseline", cfg.Compare.BaselineLabel)
	assert.InDelta(t, 5.0, cfg.Gate.MaxLatencyRegressPct, 0)
	assert.Equal(t, 1, cfg.Gate.ExitCode)
	assert.Equal(t, 3, cfg.Regions.TopK)
	assert.InDelta(t, config.DefaultKWhEUR, cfg.Cost.KWhEUR, 0)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
}

func TestLoad_FileAndEnv(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
gate:
  max_latency_regress_pct: 2.5
  max_sci_regress_pct: 7
  exit_code: 4
regions:
  top_k: 5
  sort: carbon:asc
`), 0o600))
	t.Setenv(config.EnvOutputFormat, "JSON")
	t.Setenv(config.EnvLogLevel, "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Gate.ExitCode)

	limits := cfg.Gate.Thresholds()
	assert.InDelta(t, 2.5, limits.MaxLatencyRegressPct, 0)
	assert.InDelta(t, 7.0, limits.MaxSCIRegressPct, 0)

	logCfg := cfg.Logging.ToLogging()
	assert.Equal(t, "debug", logCfg.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default().Gate, cfg.Gate)
}

func TestLoad_InvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvKWhEUR, "cheap")

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrInvalidEnvValue)

	// New tolerates the same problem.
	assert.InDelta(t, config.DefaultKWhEUR, config.New().Cost.KWhEUR, 0)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{name: "bad format", mutate: func(c *config.Config) { c.Output.DefaultFormat = "xml" }, wantErr: config.ErrInvalidOutputFormat},
		{name: "negative latency limit", mutate: func(c *config.Config) { c.Gate.MaxLatencyRegressPct = -1 }, wantErr: config.ErrNegativeThreshold},
		{name: "exit code too large", mutate: func(c *config.Config) { c.Gate.ExitCode = 256 }, wantErr: config.ErrExitCodeOutOfRange},
		{name: "exit code negative", mutate: func(c *config.Config) { c.Gate.ExitCode = -1 }, wantErr: config.ErrExitCodeOutOfRange},
		{name: "top k zero", mutate: func(c *config.Config) { c.Regions.TopK = 0 }, wantErr: config.ErrInvalidTopK},
		{name: "negative price", mutate: func(c *config.Config) { c.Cost.KWhEUR = -0.1 }, wantErr: config.ErrNegativePrice},
		{name: "prometheus accepted", mutate: func(c *config.Config) { c.Output.DefaultFormat = config.OutputPrometheus }},
		{name: "exit code zero accepted", mutate: func(c *config.Config) { c.Gate.ExitCode = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	cfg := config.Default()
	cfg.Regions.Sort = "country"
	require.Error(t, cfg.Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	cfg := config.Default()
	cfg.SetConfigPath(filepath.Join(t.TempDir(), "nested", "config.yaml"))
	cfg.Compare.Workers = 6

	require.NoError(t, cfg.Save())

	loaded := config.Default()
	require.NoError(t, config.ShallowMergeYAML(loaded, cfg.ConfigPath()))
	assert.Equal(t, 6, loaded.Compare.Workers)
}

func TestGetAndList(t *testing.T) {
	isolate(t)
	cfg := config.Default()

	v, err := cfg.Get("gate.exit_code")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = cfg.Get("Output.Default_Format")
	require.NoError(t, err)
	assert.Equal(t, "table", v)

	_, err = cfg.Get("gate.nope")
	require.ErrorIs(t, err, config.ErrUnknownKey)

	settings, err := cfg.List()
	require.NoError(t, err)
	require.NotEmpty(t, settings)
	for i := 1; i < len(settings); i++ {
		assert.Less(t, settings[i-1].Key, settings[i].Key)
	}
}
