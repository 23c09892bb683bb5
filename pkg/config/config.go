// Package config loads splice configuration from YAML files and SPLICE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidWorkers     = errors.New("workers must not be negative")
	ErrInvalidDiffContext = errors.New("diff context must not be negative")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const envPrefix = "SPLICE"

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config is the full splice configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Rewrite   RewriteConfig   `mapstructure:"rewrite"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlogLevel returns the configured level.
func (c LoggingConfig) SlogLevel() slog.Level {
	return logLevels[strings.ToLower(c.Level)]
}

// JSON reports whether logs are written as JSON.
func (c LoggingConfig) JSON() bool { return c.Format == FormatJSON }

// RewriteConfig controls rule application.
type RewriteConfig struct {
	Rules       string   `mapstructure:"rules"`
	Exclude     []string `mapstructure:"exclude"`
	Workers     int      `mapstructure:"workers"`
	DiffContext int      `mapstructure:"diff_context"`
	DryRun      bool     `mapstructure:"dry_run"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	TraceVerbose bool    `mapstructure:"trace_verbose"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
}

// LoadConfig loads configuration. An empty configPath searches for
// .splice.yaml in the working directory, ./config and /etc/splice; a
// missing file is not an error there. Environment variables override
// file values, e.g. SPLICE_REWRITE_WORKERS.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".splice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/splice")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("rewrite.rules", DefaultRules)
	v.SetDefault("rewrite.exclude", DefaultExclude)
	v.SetDefault("rewrite.workers", DefaultWorkers)
	v.SetDefault("rewrite.diff_context", DefaultDiffContext)
	v.SetDefault("rewrite.dry_run", DefaultDryRun)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_headers", "")
	v.SetDefault("telemetry.environment", "")
	v.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	v.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	v.SetDefault("telemetry.trace_verbose", false)
	v.SetDefault("telemetry.debug_trace", false)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, ok := logLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if !slices.Contains([]string{FormatText, FormatJSON}, c.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Rewrite.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Rewrite.Workers)
	}

	if c.Rewrite.DiffContext < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDiffContext, c.Rewrite.DiffContext)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}
