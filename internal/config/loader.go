package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and merges configuration from global and project paths.
// Order of precedence (highest to lowest): project config, global config, defaults.
// Missing files are not errors; malformed files return an error.
func Load(globalPath, projectPath string) (*AnalyzerConfig, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// A replaced strategy list may not contain the inherited default.
	if cfg.StrategyIndex(cfg.DefaultStrategy) < 0 {
		cfg.DefaultStrategy = cfg.Strategies[0].ID
	}
	return cfg, nil
}

// configNames lists the file names looked up in a config directory, in order.
var configNames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultPaths returns the conventional config locations.
// Global: ~/.taskanalyzer/config.{json,yaml,yml}
// Project: .taskanalyzer/config.{json,yaml,yml} (relative to cwd)
// The first existing file wins; config.json is returned when none exists.
func DefaultPaths() (globalPath, projectPath string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("getting home directory: %w", err)
	}
	return locate(filepath.Join(homeDir, ".taskanalyzer")), locate(".taskanalyzer"), nil
}

func locate(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, configNames[0])
}

// LoadDefault loads configuration from the conventional paths.
func LoadDefault() (*AnalyzerConfig, error) {
	globalPath, projectPath, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return Load(globalPath, projectPath)
}

// Validate checks the merged configuration.
func (c *AnalyzerConfig) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("at least one strategy must be configured")
	}
	for i, s := range c.Strategies {
		if s.ID == "" {
			return fmt.Errorf("strategies[%d]: id must not be empty", i)
		}
	}
	if c.DefaultImportance < 1 || c.DefaultImportance > 10 {
		return fmt.Errorf("default_importance must be between 1 and 10, got %d", c.DefaultImportance)
	}
	return nil
}

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// mergeConfigFile reads a config file and merges the fields it sets into base.
func mergeConfigFile(base *AnalyzerConfig, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var loaded fileConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &loaded)
	} else {
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if loaded.API.BaseURL != "" {
		base.API.BaseURL = loaded.API.BaseURL
	}
	// A strategy list replaces the previous one wholesale.
	if len(loaded.Strategies) > 0 {
		base.Strategies = loaded.Strategies
	}
	if loaded.DefaultStrategy != "" {
		base.DefaultStrategy = loaded.DefaultStrategy
	}
	if loaded.DefaultImportance != 0 {
		base.DefaultImportance = loaded.DefaultImportance
	}
	// Zero is meaningful for the breaker, so only absent keys are skipped.
	if loaded.Breaker.MaxFailures != nil {
		base.Breaker.MaxFailures = *loaded.Breaker.MaxFailures
	}
	if loaded.Breaker.OpenTimeoutSeconds != nil {
		base.Breaker.OpenTimeoutSeconds = *loaded.Breaker.OpenTimeoutSeconds
	}

	return nil
}

// fileConfig is the on-disk shape of AnalyzerConfig. Pointer fields tell an
// explicit zero apart from a missing key.
type fileConfig struct {
	API               APIConfig        `json:"api" yaml:"api"`
	Strategies        []StrategyConfig `json:"strategies" yaml:"strategies"`
	DefaultStrategy   string           `json:"default_strategy" yaml:"default_strategy"`
	DefaultImportance int              `json:"default_importance" yaml:"default_importance"`
	Breaker           struct {
		MaxFailures        *uint32 `json:"max_failures" yaml:"max_failures"`
		OpenTimeoutSeconds *int    `json:"open_timeout_seconds" yaml:"open_timeout_seconds"`
	} `json:"breaker" yaml:"breaker"`
}
