package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonwise/internal/cli"
	"github.com/rshade/carbonwise/internal/config"
)

// TestConfigInit_InsideProject verifies that "config init" with
// CARBONWISE_PROJECT_DIR creates .carbonwise/config.yaml and .carbonwise/.gitignore.
func TestConfigInit_InsideProject(t *testing.T) {
	setupCLITest(t)

	tmpDir := t.TempDir()
	// Avoids leaking the --project-dir flag value to other tests.
	t.Setenv(config.EnvProjectDir, tmpDir)

	out, _, err := executeCLI(t, "config", "init")
	require.NoError(t, err, "config init should succeed inside a project")
	assert.Contains(t, out, "Configuration initialized at")
	assert.Contains(t, out, "Created .gitignore for generated output")

	configPath := filepath.Join(tmpDir, ".carbonwise", "config.yaml")
	_, statErr := os.Stat(configPath)
	require.NoError(t, statErr, ".carbonwise/config.yaml should exist")

	gitignoreData, readErr := os.ReadFile(filepath.Join(tmpDir, ".carbonwise", ".gitignore"))
	require.NoError(t, readErr)
	assert.Equal(t, config.GitignoreContent(), string(gitignoreData))
}

func TestConfigInit_ProjectDirFlag(t *testing.T) {
	setupCLITest(t)

	tmpDir := t.TempDir()
	out, _, err := executeCLI(t, "config", "init", "--project-dir", tmpDir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(tmpDir, ".carbonwise", "config.yaml"))
}

// TestConfigInit_ExistingGitignorePreserved verifies that "config init --force"
// never overwrites an existing .gitignore.
func TestConfigInit_ExistingGitignorePreserved(t *testing.T) {
	setupCLITest(t)

	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, ".carbonwise")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))

	customContent := "# My custom gitignore\n*.secret\n"
	gitignorePath := filepath.Join(projectDir, ".gitignore")
	require.NoError(t, os.WriteFile(gitignorePath, []byte(customContent), 0o600))

	t.Setenv(config.EnvProjectDir, tmpDir)

	out, _, err := executeCLI(t, "config", "init", "--force")
	require.NoError(t, err, "config init --force should succeed")
	assert.NotContains(t, out, "Created .gitignore")

	gitignoreData, readErr := os.ReadFile(gitignorePath)
	require.NoError(t, readErr)
	assert.Equal(t, customContent, string(gitignoreData))
}

// TestConfigInit_GlobalFlag verifies that --global writes to CARBONWISE_HOME
// even inside a project.
func TestConfigInit_GlobalFlag(t *testing.T) {
	setupCLITest(t)

	tmpDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, tmpDir)
	globalDir := t.TempDir()
	t.Setenv(config.EnvHome, globalDir)

	out, _, err := executeCLI(t, "config", "init", "--global")
	require.NoError(t, err, "config init --global should succeed")
	assert.Contains(t, out, "Configuration initialized successfully")

	_, statErr := os.Stat(filepath.Join(globalDir, "config.yaml"))
	require.NoError(t, statErr, "global config.yaml should exist in CARBONWISE_HOME")

	_, statErr = os.Stat(filepath.Join(tmpDir, ".carbonwise", "config.yaml"))
	assert.True(t, os.IsNotExist(statErr), "project-local config.yaml should not exist with --global")
}

// TestConfigInit_OutsideProject runs the subcommand directly so no project
// directory is resolved, which falls back to the global configuration.
func TestConfigInit_OutsideProject(t *testing.T) {
	setupCLITest(t)
	globalDir := t.TempDir()
	t.Setenv(config.EnvHome, globalDir)

	cmd := cli.NewConfigInitCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Configuration initialized successfully")

	_, statErr := os.Stat(filepath.Join(globalDir, "config.yaml"))
	require.NoError(t, statErr)
}

func TestConfigInit_ExistingWithoutForce(t *testing.T) {
	setupCLITest(t)

	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, ".carbonwise")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	existing := filepath.Join(projectDir, "config.yaml")
	original := "output:\n  default_format: json\n"
	require.NoError(t, os.WriteFile(existing, []byte(original), 0o600))
	t.Setenv(config.EnvProjectDir, tmpDir)

	_, _, err := executeCLI(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	assert.Equal(t, original, string(data))
}

// TestConfigInit_ForceOverwritesConfig verifies that --force replaces an
// existing config.yaml with defaults, even one that does not validate.
func TestConfigInit_ForceOverwritesConfig(t *testing.T) {
	setupCLITest(t)

	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, ".carbonwise")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	existing := filepath.Join(projectDir, "config.yaml")
	original := "output:\n  default_format: xml\n"
	require.NoError(t, os.WriteFile(existing, []byte(original), 0o600))
	t.Setenv(config.EnvProjectDir, tmpDir)

	out, errOut, err := executeCLI(t, "config", "init", "--force")
	require.NoError(t, err, "config init --force should succeed")
	assert.Contains(t, out, "Configuration initialized at")
	assert.Contains(t, errOut, "Warning:")

	data, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	assert.NotEqual(t, original, string(data))
	assert.Contains(t, string(data), "default_format: table")
}
