package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/specialistvlad/qspgo/internal/registry"
	"gopkg.in/yaml.v3"
)

// Valid values for Config.LogFormat and Config.LogLevel.
var (
	LogFormats = []string{"text", "json"}
	LogLevels  = []string{"debug", "info", "warn", "error"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPaths []string `yaml:"model_paths"` // .hcl files or directories

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`

	ExtraChecks bool `yaml:"extra_checks"`
	Verbose     bool `yaml:"verbose"`

	// Units overrides the simulation units declared by the model files.
	Units *registry.SimulationUnits `yaml:"units"`
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ModelPaths) == 0 {
		return nil, errors.New("ModelPaths is a required configuration field and cannot be empty")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(LogFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log format %q: must be one of %v", cfg.LogFormat, LogFormats)
	}
	if !slices.Contains(LogLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q: must be one of %v", cfg.LogLevel, LogLevels)
	}
	if cfg.Units != nil && (cfg.Units.Concentration == "" || cfg.Units.Time == "" || cfg.Units.Volume == "") {
		return nil, errors.New("units must set concentration, time and volume")
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML config file. Unknown keys are rejected.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return cfg, nil
}
