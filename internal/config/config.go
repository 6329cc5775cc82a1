package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "housingcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Render    RenderConfig    `yaml:"render" envconfig:"RENDER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// AnalysisConfig lists the regions, colors and year bounds of a run.
// Region lists are file-only: region labels contain commas, which
// envconfig would split on.
type AnalysisConfig struct {
	TransactionsFile string `yaml:"transactions_file" envconfig:"TRANSACTIONS_FILE" validate:"required"`
	RatesFile        string `yaml:"rates_file" envconfig:"RATES_FILE"`

	SideRegions      []string `yaml:"side_regions" ignored:"true" validate:"min=1,dive,required"`
	SideColors       []string `yaml:"side_colors" envconfig:"SIDE_COLORS"`
	CommunityRegions []string `yaml:"community_regions" ignored:"true" validate:"dive,required"`
	CommunityColors  []string `yaml:"community_colors" envconfig:"COMMUNITY_COLORS"`
	SeasonColors     []string `yaml:"season_colors" envconfig:"SEASON_COLORS"`

	BaseRegion      string `yaml:"base_region" envconfig:"BASE_REGION" validate:"required"`
	ShareYearAfter  int    `yaml:"share_year_after" envconfig:"SHARE_YEAR_AFTER"`
	ShareYearBefore int    `yaml:"share_year_before" envconfig:"SHARE_YEAR_BEFORE" validate:"gtfield=ShareYearAfter"`
}

// RenderConfig selects the chart backend and image geometry
type RenderConfig struct {
	Backend     string `yaml:"backend" envconfig:"BACKEND" validate:"oneof=gochart gonum"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=png svg"`
	Width       int    `yaml:"width" envconfig:"WIDTH" validate:"min=200"`
	Height      int    `yaml:"height" envconfig:"HEIGHT" validate:"min=200"`
	Parallelism int    `yaml:"parallelism" envconfig:"PARALLELISM" validate:"min=1,max=32"`
}

// TelemetryConfig controls tracing and the metrics textfile
type TelemetryConfig struct {
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
}

var validate = validator.New()

// Load loads configuration from defaults, the config file and environment
// variables, in increasing order of precedence. An empty configFile falls
// back to the well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Load from environment variables last so they win
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", describeValidation(err))
	}

	// Logs are always structured JSON
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	return nil
}

// describeValidation flattens validator errors into one readable error
func describeValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/housing-report.log",
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Analysis: AnalysisConfig{
			TransactionsFile: DefaultTransactionsFile,
			RatesFile:        DefaultRatesFile,
			SideRegions:      append([]string(nil), DefaultSideRegions...),
			SideColors:       append([]string(nil), DefaultSideColors...),
			CommunityRegions: append([]string(nil), DefaultCommunityRegions...),
			CommunityColors:  append([]string(nil), DefaultCommunityColors...),
			SeasonColors:     append([]string(nil), DefaultSeasonColors...),
			BaseRegion:       DefaultBaseRegion,
			ShareYearAfter:   DefaultShareYearAfter,
			ShareYearBefore:  DefaultShareYearBefore,
		},
		Render: RenderConfig{
			Backend:     BackendGoChart,
			Format:      DefaultChartFormat,
			Width:       DefaultChartWidth,
			Height:      DefaultChartHeight,
			Parallelism: 1,
		},
		Telemetry: TelemetryConfig{
			Environment: "development",
		},
	}
}
