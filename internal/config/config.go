package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete codescope configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Scan     ScanConfig     `json:"scan" mapstructure:"scan"`
	Security SecurityConfig `json:"security" mapstructure:"security"`
	Weights  WeightsConfig  `json:"weights" mapstructure:"weights"`
	History  HistoryConfig  `json:"history" mapstructure:"history"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls file discovery
type ScanConfig struct {
	IgnoreDirs       []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`
	IgnoreGlobs      []string `json:"ignoreGlobs" mapstructure:"ignoreGlobs"`
	MaxFileSizeBytes int64    `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
	Workers          int      `json:"workers" mapstructure:"workers"`
}

// SecurityConfig controls the security scanner
type SecurityConfig struct {
	CatalogPath string  `json:"catalogPath" mapstructure:"catalogPath"`
	MinEntropy  float64 `json:"minEntropy" mapstructure:"minEntropy"`
}

// WeightsConfig controls the quality score deductions
type WeightsConfig struct {
	ComplexityPenalty    float64 `json:"complexityPenalty" mapstructure:"complexityPenalty"`
	SecurityHighPenalty  float64 `json:"securityHighPenalty" mapstructure:"securityHighPenalty"`
	SecurityMedPenalty   float64 `json:"securityMedPenalty" mapstructure:"securityMedPenalty"`
	SecurityLowPenalty   float64 `json:"securityLowPenalty" mapstructure:"securityLowPenalty"`
	LongFilePenalty      float64 `json:"longFilePenalty" mapstructure:"longFilePenalty"`
	LongFileLineThreshold int    `json:"longFileLineThreshold" mapstructure:"longFileLineThreshold"`
}

// HistoryConfig controls the analysis history store
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Scan: ScanConfig{
			IgnoreDirs: []string{
				"node_modules", ".git", "__pycache__", ".venv", "venv",
				"dist", "build", "target", ".dart_tool", "vendor",
				".idea", ".vscode", "coverage", ".pytest_cache", ".mypy_cache",
			},
			IgnoreGlobs:      []string{"*.min.js", "*.min.css", "*.map", "*.lock"},
			MaxFileSizeBytes: 10 * 1024 * 1024,
			Workers:          0, // 0 means runtime.NumCPU()
		},
		Security: SecurityConfig{
			CatalogPath: "",
			// Short real-world keys like "sk-abc123" sit just above 3
			// bits per character; a higher floor would miss them.
			MinEntropy: 3.0,
		},
		Weights: WeightsConfig{
			ComplexityPenalty:     2.0,
			SecurityHighPenalty:   10.0,
			SecurityMedPenalty:    5.0,
			SecurityLowPenalty:    2.0,
			LongFilePenalty:       1.0,
			LongFileLineThreshold: 500,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(".codescope", "history.db"),
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .codescope/config.json under root.
// A missing file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".codescope"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .codescope/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".codescope")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Scan.MaxFileSizeBytes < 0 {
		return &ConfigError{Field: "scan.maxFileSizeBytes", Message: "must not be negative"}
	}
	if c.Security.MinEntropy < 0 {
		return &ConfigError{Field: "security.minEntropy", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
