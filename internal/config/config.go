package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// AnalysisConfig contains analysis pipeline defaults.
type AnalysisConfig struct {
	// Workers bounds the per-ticker fan-out of batch runs.
	Workers int `yaml:"workers" envconfig:"WORKERS"`
	// RiskFreeRate is in percent per period.
	RiskFreeRate float64 `yaml:"risk_free_rate" envconfig:"RISK_FREE_RATE"`
	// EventHalfWidth is the default T-N..T+N half-width for event windows.
	EventHalfWidth int `yaml:"event_half_width" envconfig:"EVENT_HALF_WIDTH"`
	// CacheSize caps the number of memoized analysis results.
	CacheSize int `yaml:"cache_size" envconfig:"CACHE_SIZE"`
}

// Load builds the configuration in precedence order: compiled defaults, then
// the config file when one is found, then environment variables. Each layer
// only touches the keys it actually sets, so a file value survives unless an
// SZN_* variable overrides it.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("SZN", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile unmarshals a YAML file over cfg. Keys absent from the file
// leave the existing values in place.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("data dir must be set")
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("analysis workers must be positive, got %d", c.Analysis.Workers)
	}
	if c.Analysis.EventHalfWidth <= 0 || c.Analysis.EventHalfWidth > 60 {
		return fmt.Errorf("event half-width out of range: %d", c.Analysis.EventHalfWidth)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	return resolve(c.Paths.DataDir)
}

// GetOutputDir returns the resolved output directory path.
func (c *Config) GetOutputDir() string {
	return resolve(c.Paths.OutputDir)
}

// GetLogsDir returns the resolved logs directory path.
func (c *Config) GetLogsDir() string {
	return resolve(c.Paths.LogsDir)
}

// EnsureDirectories creates the output and logs directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.GetOutputDir(), c.GetLogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(wd, path)
}

// findConfigFile probes the conventional config file locations.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration used by tests and tools that
// bypass Load.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:   "data",
			OutputDir: "out",
			LogsDir:   "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Analysis: AnalysisConfig{
			Workers:        4,
			RiskFreeRate:   0,
			EventHalfWidth: 5,
			CacheSize:      256,
		},
	}
}
