package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/carbonwise/internal/logging"
)

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .carbonwise directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. CARBONWISE_PROJECT_DIR env var
//  3. the nearest existing .carbonwise directory at or above startDir
//
// Returns an absolute path, or empty string if no project was found.
// Does NOT create the directory.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	home := HomeDir()
	for {
		candidate := filepath.Join(dir, dirName)
		// The global directory is not a project.
		if candidate != home {
			if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir loads the global config, shallow-merges the project-local
// config.yaml from projectDir on top and applies the environment last. A
// missing project file is not an error.
func NewWithProjectDir(ctx context.Context, projectDir string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(cfg.configPath); err != nil {
		return nil, err
	}

	if projectDir != "" {
		overlayPath := filepath.Join(projectDir, configFileName)
		_, statErr := os.Stat(overlayPath)
		switch {
		case statErr == nil:
			if err := ShallowMergeYAML(cfg, overlayPath); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
			logging.FromContext(ctx).Debug().
				Str("component", "config").
				Str("operation", "merge_project_config").
				Str("overlay_path", overlayPath).
				Msg("merged project config")
		case !errors.Is(statErr, os.ErrNotExist):
			return nil, fmt.Errorf("cannot access project config %s: %w", overlayPath, statErr)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// toAbsProjectDir converts dir to an absolute path and appends ".carbonwise"
// unless it already ends with it.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == dirName {
		return abs
	}

	return filepath.Join(abs, dirName)
}
