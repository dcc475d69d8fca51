package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/process.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
	Workbook   string `yaml:"workbook" envconfig:"WORKBOOK" default:"data/business_demography.xlsx" validate:"required"`
}

// PipelineConfig pins the analysis window and the industry-group allow-list.
// The five reference groups are defaults, not constants: both are parameters
// of the aggregation stage.
type PipelineConfig struct {
	YearFrom int      `yaml:"year_from" envconfig:"YEAR_FROM" default:"2019" validate:"min=1900,max=2100"`
	YearTo   int      `yaml:"year_to" envconfig:"YEAR_TO" default:"2023" validate:"min=1900,max=2100,gtefield=YearFrom"`
	Groups   []string `yaml:"groups" envconfig:"GROUPS" validate:"min=1"`
}

// DefaultGroups is the reference allow-list of coarse industry groups.
var DefaultGroups = []string{
	"Manufacturing",
	"Construction",
	"Wholesale and retail trade",
	"Accommodation and food service activities",
	"Information and communication",
}

// Load loads configuration from environment variables and an optional
// YAML config file, then validates the result.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("BD", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(cfg, *fileCfg)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays non-zero file values on top of the env-derived config.
func mergeConfigs(base, file Config) Config {
	out := base
	if file.Logging.Level != "" {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.Output != "" {
		out.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		out.Logging.FilePath = file.Logging.FilePath
	}
	if file.Paths.DataDir != "" {
		out.Paths.DataDir = file.Paths.DataDir
	}
	if file.Paths.ReportsDir != "" {
		out.Paths.ReportsDir = file.Paths.ReportsDir
	}
	if file.Paths.LogsDir != "" {
		out.Paths.LogsDir = file.Paths.LogsDir
	}
	if file.Paths.Workbook != "" {
		out.Paths.Workbook = file.Paths.Workbook
	}
	if file.Pipeline.YearFrom != 0 {
		out.Pipeline.YearFrom = file.Pipeline.YearFrom
	}
	if file.Pipeline.YearTo != 0 {
		out.Pipeline.YearTo = file.Pipeline.YearTo
	}
	if len(file.Pipeline.Groups) > 0 {
		out.Pipeline.Groups = file.Pipeline.Groups
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/process.log"
	}
	if len(c.Pipeline.Groups) == 0 {
		c.Pipeline.Groups = append([]string(nil), DefaultGroups...)
	}
}

// Validate checks the configuration using struct validation tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the configuration file location.
func getConfigFilePath() string {
	if path := os.Getenv("BD_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
