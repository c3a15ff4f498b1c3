package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the full configuration for the cleaning executables.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/cleaner.log"`
}

// PipelineConfig points one run at its artifacts. Empty fields fall back to
// the well-known locations under Paths; an empty InputFile triggers
// raw-directory snapshot discovery.
type PipelineConfig struct {
	InputFile    string `yaml:"input_file" envconfig:"INPUT_FILE"`
	OutputFile   string `yaml:"output_file" envconfig:"OUTPUT_FILE"`
	CodebookFile string `yaml:"codebook_file" envconfig:"CODEBOOK_FILE"`
	ReportFile   string `yaml:"report_file" envconfig:"REPORT_FILE"`
}

// PathsConfig overrides the executable-relative directory layout.
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load builds the configuration from the environment and, when one is found
// near the working directory, a config.yaml file. Environment values win
// over file values.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("CENSUS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.ValidatePaths(); err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}

	return &cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs folds file values into the env-derived config. A field set in
// the environment (or by an envconfig default) always wins.
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := envCfg

	fallback(&merged.Logging.Level, fileCfg.Logging.Level)
	fallback(&merged.Logging.Format, fileCfg.Logging.Format)
	fallback(&merged.Logging.Output, fileCfg.Logging.Output)
	fallback(&merged.Logging.FilePath, fileCfg.Logging.FilePath)

	fallback(&merged.Pipeline.InputFile, fileCfg.Pipeline.InputFile)
	fallback(&merged.Pipeline.OutputFile, fileCfg.Pipeline.OutputFile)
	fallback(&merged.Pipeline.CodebookFile, fileCfg.Pipeline.CodebookFile)
	fallback(&merged.Pipeline.ReportFile, fileCfg.Pipeline.ReportFile)

	fallback(&merged.Paths.DataDir, fileCfg.Paths.DataDir)
	fallback(&merged.Paths.LogsDir, fileCfg.Paths.LogsDir)

	return merged
}

func fallback(dst *string, from string) {
	if *dst == "" {
		*dst = from
	}
}

// resolvePaths pins the executable directory from the centralized paths.
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// ValidatePaths ensures the directory layout exists before anything runs.
func (c *Config) ValidatePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution()
	return nil
}

// GetDataDir returns the resolved data directory.
func (c *Config) GetDataDir() string {
	if paths, err := GetPaths(); err == nil {
		return paths.DataDir
	}
	return c.executableRelative(c.Paths.DataDir)
}

// GetLogsDir returns the resolved logs directory.
func (c *Config) GetLogsDir() string {
	if paths, err := GetPaths(); err == nil {
		return paths.LogsDir
	}
	return c.executableRelative(c.Paths.LogsDir)
}

// executableRelative anchors dir under the executable directory when the
// centralized paths are unavailable.
func (c *Config) executableRelative(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Paths.ExecutableDir, dir)
}

// validate normalizes the logging section. The executables only emit JSON,
// so format and output are coerced rather than rejected; the level is the
// one field a typo should surface.
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	case "":
		c.Logging.Level = DefaultLogLevel
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "both", "file", "stdout":
	default:
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	return nil
}

// getConfigFilePath looks for config.yaml in the conventional locations,
// nearest first.
func getConfigFilePath() string {
	for _, location := range []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
	}
}
