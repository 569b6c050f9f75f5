// Package config loads carbonwise settings from ~/.carbonwise/config.yaml,
// an optional project-local .carbonwise/config.yaml overlay and CARBONWISE_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/logging"
)

// Environment variables read by carbonwise.
const (
	EnvHome         = "CARBONWISE_HOME"
	EnvProjectDir   = "CARBONWISE_PROJECT_DIR"
	EnvOutputFormat = "CARBONWISE_OUTPUT_FORMAT"
	EnvKWhEUR       = "CARBONWISE_KWH_EUR"
	EnvLogLevel     = "CARBONWISE_LOG_LEVEL"
	EnvLogFormat    = "CARBONWISE_LOG_FORMAT"
)

// Output formats accepted by the reporting commands.
const (
	OutputTable      = "table"
	OutputJSON       = "json"
	OutputNDJSON     = "ndjson"
	OutputPrometheus = "prometheus"
)

const (
	dirName        = ".carbonwise"
	configFileName = "config.yaml"

	// DefaultKWhEUR is the electricity price used to derive cost_eur when a
	// run log omits it.
	DefaultKWhEUR = 0.25

	defaultPrecision = 3
	maxExitCode      = 255
)

var (
	// ErrInvalidOutputFormat is returned for an output format outside ValidOutputFormats.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrNegativeThreshold is returned for a negative gate threshold.
	ErrNegativeThreshold = errors.New("gate threshold must be non-negative")
	// ErrExitCodeOutOfRange is returned when the gate exit code is outside 0-255.
	ErrExitCodeOutOfRange = errors.New("exit code must be between 0 and 255")
	// ErrInvalidTopK is returned when regions.top_k is below 1.
	ErrInvalidTopK = errors.New("regions.top_k must be at least 1")
	// ErrNegativePrice is returned for a negative cost.kwh_eur.
	ErrNegativePrice = errors.New("cost.kwh_eur must be non-negative")
	// ErrInvalidEnvValue is returned when a CARBONWISE_* variable cannot be parsed.
	ErrInvalidEnvValue = errors.New("invalid environment value")
	// ErrUnknownKey is returned by Get for a key that names no setting.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// ValidOutputFormats lists the accepted output formats.
func ValidOutputFormats() []string {
	return []string{OutputTable, OutputJSON, OutputNDJSON, OutputPrometheus}
}

// Config is the full carbonwise configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Compare CompareConfig `yaml:"compare"`
	Gate    GateConfig    `yaml:"gate"`
	Regions RegionsConfig `yaml:"regions"`
	Cost    CostConfig    `yaml:"cost"`

	configPath string
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// CompareConfig holds defaults for compare, report and gate.
type CompareConfig struct {
	BaselineLabel  string `yaml:"baseline_label"`
	OptimizedLabel string `yaml:"optimized_label"`
	// Workers > 1 aggregates large run logs concurrently.
	Workers   int  `yaml:"workers"`
	ChunkSize int  `yaml:"chunk_size"`
	Strict    bool `yaml:"strict"`
}

// GateConfig holds quality gate limits.
type GateConfig struct {
	MaxLatencyRegressPct float64 `yaml:"max_latency_regress_pct"`
	MaxSCIRegressPct     float64 `yaml:"max_sci_regress_pct"`
	ExitCode             int     `yaml:"exit_code"`
}

// RegionsConfig holds defaults for the regions commands.
type RegionsConfig struct {
	Table   string `yaml:"table,omitempty"`
	Current string `yaml:"current,omitempty"`
	TopK    int    `yaml:"top_k"`
	Sort    string `yaml:"sort"`
}

// CostConfig holds pricing.
type CostConfig struct {
	KWhEUR float64 `yaml:"kwh_eur"`
}

// Thresholds converts the gate section to greenops limits.
func (g GateConfig) Thresholds() greenops.GateThresholds {
	return greenops.GateThresholds{
		MaxLatencyRegressPct: g.MaxLatencyRegressPct,
		MaxSCIRegressPct:     g.MaxSCIRegressPct,
	}
}

// ToLogging converts the logging section to a logging.Config.
func (l LoggingConfig) ToLogging() logging.Config {
	return logging.Config{Level: l.Level, Format: l.Format, File: l.File}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: OutputTable,
			Precision:     defaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Compare: CompareConfig{
			BaselineLabel:  greenops.DefaultBaselineLabel,
			OptimizedLabel: greenops.DefaultOptimizedLabel,
			Workers:        1,
		},
		Gate: GateConfig{
			MaxLatencyRegressPct: greenops.DefaultMaxLatencyRegressPct,
			MaxSCIRegressPct:     greenops.DefaultMaxSCIRegressPct,
			ExitCode:             1,
		},
		Regions: RegionsConfig{
			TopK: greenops.DefaultTopK,
			Sort: "carbon:asc",
		},
		Cost: CostConfig{
			KWhEUR: DefaultKWhEUR,
		},
		configPath: filepath.Join(HomeDir(), configFileName),
	}
}

// HomeDir returns the global carbonwise directory: $CARBONWISE_HOME when set,
// otherwise ~/.carbonwise.
func HomeDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// New returns the defaults overlaid with the global config file, if present,
// and the environment. Problems with either are ignored; use Load to see them.
func New() *Config {
	cfg := Default()
	if data, err := os.ReadFile(cfg.configPath); err == nil {
		_ = yaml.Unmarshal(data, cfg)
	}
	_ = cfg.ApplyEnv()
	return cfg
}

// Load reads the global config file (a missing file is not an error),
// applies the environment and validates the result.
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(cfg.configPath); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from CARBONWISE_* variables. Unparseable
// values are reported and leave the setting unchanged.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvKWhEUR); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnvValue, EnvKWhEUR, v, err)
		}
		c.Cost.KWhEUR = price
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if !isValidOutputFormat(c.Output.DefaultFormat) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidOutputFormat,
			c.Output.DefaultFormat, strings.Join(ValidOutputFormats(), ", "))
	}
	if c.Gate.MaxLatencyRegressPct < 0 || c.Gate.MaxSCIRegressPct < 0 {
		return fmt.Errorf("%w: latency %.2f, sci %.2f", ErrNegativeThreshold,
			c.Gate.MaxLatencyRegressPct, c.Gate.MaxSCIRegressPct)
	}
	if err := ValidateExitCode(c.Gate.ExitCode); err != nil {
		return err
	}
	if c.Regions.TopK < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, c.Regions.TopK)
	}
	if c.Regions.Sort != "" {
		if _, _, err := greenops.ParseSortExpression(c.Regions.Sort); err != nil {
			return fmt.Errorf("regions.sort: %w", err)
		}
	}
	if c.Cost.KWhEUR < 0 {
		return fmt.Errorf("%w: got %g", ErrNegativePrice, c.Cost.KWhEUR)
	}
	return nil
}

// ValidateExitCode checks that code is usable as a process exit status.
func ValidateExitCode(code int) error {
	if code < 0 || code > maxExitCode {
		return fmt.Errorf("%w: got %d", ErrExitCodeOutOfRange, code)
	}
	return nil
}

func isValidOutputFormat(format string) bool {
	for _, f := range ValidOutputFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
