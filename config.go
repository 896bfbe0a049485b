package bpmnflow

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/viant/bpmnflow/service/kernel"
	"github.com/viant/bpmnflow/service/meta"
)

// Config is a serialisable representation of the engine configuration. It can
// be loaded from YAML, TOML or JSON; unspecified settings keep their defaults.
type Config struct {
	Models  ModelsConfig  `json:"models" yaml:"models"`
	Kernel  KernelConfig  `json:"kernel" yaml:"kernel"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

type ModelsConfig struct {
	BaseURL   string   `json:"baseURL" yaml:"baseURL"`
	Locations []string `json:"locations" yaml:"locations"`
}

type KernelConfig struct {
	MaxSteps    int      `json:"maxSteps" yaml:"maxSteps"`
	MaxEventLog int      `json:"maxEventLog" yaml:"maxEventLog"`
	Plugins     []string `json:"plugins" yaml:"plugins"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to NewFromConfig.
func DefaultConfig() *Config {
	return &Config{
		Kernel: KernelConfig{
			MaxSteps:    kernel.DefaultMaxSteps,
			MaxEventLog: kernel.DefaultMaxEventLog,
		},
		Log: LogConfig{Level: "info"},
		Tracing: TracingConfig{
			ServiceName:    "bpmnflow",
			ServiceVersion: "dev",
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Kernel.MaxSteps <= 0 {
		return fmt.Errorf("kernel.maxSteps must be > 0")
	}
	if c.Kernel.MaxEventLog <= 0 {
		return fmt.Errorf("kernel.maxEventLog must be > 0")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("log.level %q is not supported", c.Log.Level)
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		return fmt.Errorf("tracing.serviceName is required when tracing is enabled")
	}
	return nil
}

// tomlConfig maps flat config.toml keys onto Config.
type tomlConfig struct {
	ModelsBaseURL         string   `toml:"models_base_url"`
	Models                []string `toml:"models"`
	MaxSteps              int      `toml:"max_steps"`
	MaxEventLog           int      `toml:"max_event_log"`
	Plugins               []string `toml:"plugins"`
	LogLevel              string   `toml:"log_level"`
	LogPretty             bool     `toml:"log_pretty"`
	TracingEnabled        bool     `toml:"tracing_enabled"`
	TracingServiceName    string   `toml:"tracing_service_name"`
	TracingServiceVersion string   `toml:"tracing_service_version"`
	TracingOutputFile     string   `toml:"tracing_output_file"`
}

// LoadConfig loads a configuration overlaid on DefaultConfig, the format is selected by URL extension.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	metaService := meta.New(afs.New(), "", options...)
	cfg := DefaultConfig()
	if strings.ToLower(path.Ext(URL)) != ".toml" {
		if err := metaService.Load(ctx, URL, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return validated(cfg)
	}
	raw := tomlConfig{}
	metadata, err := metaService.LoadTOML(ctx, URL, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if metadata.IsDefined("models_base_url") {
		cfg.Models.BaseURL = strings.TrimSpace(raw.ModelsBaseURL)
	}
	if metadata.IsDefined("models") {
		cfg.Models.Locations = raw.Models
	}
	if metadata.IsDefined("max_steps") {
		cfg.Kernel.MaxSteps = raw.MaxSteps
	}
	if metadata.IsDefined("max_event_log") {
		cfg.Kernel.MaxEventLog = raw.MaxEventLog
	}
	if metadata.IsDefined("plugins") {
		cfg.Kernel.Plugins = raw.Plugins
	}
	if metadata.IsDefined("log_level") {
		cfg.Log.Level = strings.TrimSpace(raw.LogLevel)
	}
	if metadata.IsDefined("log_pretty") {
		cfg.Log.Pretty = raw.LogPretty
	}
	if metadata.IsDefined("tracing_enabled") {
		cfg.Tracing.Enabled = raw.TracingEnabled
	}
	if metadata.IsDefined("tracing_service_name") {
		cfg.Tracing.ServiceName = strings.TrimSpace(raw.TracingServiceName)
	}
	if metadata.IsDefined("tracing_service_version") {
		cfg.Tracing.ServiceVersion = strings.TrimSpace(raw.TracingServiceVersion)
	}
	if metadata.IsDefined("tracing_output_file") {
		cfg.Tracing.OutputFile = strings.TrimSpace(raw.TracingOutputFile)
	}
	return validated(cfg)
}

func validated(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
