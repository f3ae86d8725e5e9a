package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name             string
		globalConfig     *AnalyzerConfig
		projectConfig    *AnalyzerConfig
		expectBaseURL    string
		expectStrategy   string
		expectCount      int
		expectImportance int
	}{
		{
			name:             "No config files - returns defaults",
			expectBaseURL:    DefaultBaseURL,
			expectStrategy:   "smart_balance",
			expectCount:      4,
			expectImportance: 5,
		},
		{
			name:             "Global only - overrides base URL",
			globalConfig:     &AnalyzerConfig{API: APIConfig{BaseURL: "http://localhost:8000"}},
			expectBaseURL:    "http://localhost:8000",
			expectStrategy:   "smart_balance",
			expectCount:      4,
			expectImportance: 5,
		},
		{
			name:             "Project overrides global",
			globalConfig:     &AnalyzerConfig{API: APIConfig{BaseURL: "http://global"}, DefaultStrategy: "fastest_wins"},
			projectConfig:    &AnalyzerConfig{API: APIConfig{BaseURL: "http://project"}, DefaultImportance: 8},
			expectBaseURL:    "http://project",
			expectStrategy:   "fastest_wins",
			expectCount:      4,
			expectImportance: 8,
		},
		{
			name: "Strategy list replaced - default falls back to first",
			projectConfig: &AnalyzerConfig{
				Strategies: []StrategyConfig{{ID: "custom_a"}, {ID: "custom_b", Label: "Custom B"}},
			},
			expectBaseURL:    DefaultBaseURL,
			expectStrategy:   "custom_a",
			expectCount:      2,
			expectImportance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			globalPath := ""
			if tt.globalConfig != nil {
				globalPath = filepath.Join(tmpDir, "global.json")
				data, err := json.Marshal(tt.globalConfig)
				if err != nil {
					t.Fatalf("marshaling global config: %v", err)
				}
				writeFile(t, globalPath, string(data))
			}

			projectPath := ""
			if tt.projectConfig != nil {
				projectPath = filepath.Join(tmpDir, "project.json")
				data, err := json.Marshal(tt.projectConfig)
				if err != nil {
					t.Fatalf("marshaling project config: %v", err)
				}
				writeFile(t, projectPath, string(data))
			}

			cfg, err := Load(globalPath, projectPath)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cfg.API.BaseURL != tt.expectBaseURL {
				t.Errorf("base URL = %q, want %q", cfg.API.BaseURL, tt.expectBaseURL)
			}
			if cfg.DefaultStrategy != tt.expectStrategy {
				t.Errorf("default strategy = %q, want %q", cfg.DefaultStrategy, tt.expectStrategy)
			}
			if len(cfg.Strategies) != tt.expectCount {
				t.Errorf("strategies count = %d, want %d", len(cfg.Strategies), tt.expectCount)
			}
			if cfg.DefaultImportance != tt.expectImportance {
				t.Errorf("default importance = %d, want %d", cfg.DefaultImportance, tt.expectImportance)
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	writeFile(t, path, `
api:
  base_url: http://127.0.0.1:8000
default_strategy: deadline_driven
breaker:
  max_failures: 2
  open_timeout_seconds: 10
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.DefaultStrategy != "deadline_driven" {
		t.Errorf("default strategy = %q", cfg.DefaultStrategy)
	}
	if cfg.Breaker.MaxFailures != 2 || cfg.Breaker.OpenTimeout().Seconds() != 10 {
		t.Errorf("breaker = %+v", cfg.Breaker)
	}
}

func TestLoad_BreakerExplicitZero(t *testing.T) {
	tmpDir := t.TempDir()
	globalPath := filepath.Join(tmpDir, "global.json")
	projectPath := filepath.Join(tmpDir, "project.yaml")

	writeFile(t, globalPath, `{"breaker": {"max_failures": 3, "open_timeout_seconds": 15}}`)
	writeFile(t, projectPath, "breaker:\n  max_failures: 0\n")

	cfg, err := Load(globalPath, projectPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Breaker.MaxFailures != 0 {
		t.Errorf("max failures = %d, want explicit 0 to win", cfg.Breaker.MaxFailures)
	}
	if cfg.Breaker.OpenTimeoutSeconds != 15 {
		t.Errorf("open timeout = %d, want 15 kept from global", cfg.Breaker.OpenTimeoutSeconds)
	}

	writeFile(t, projectPath, "breaker:\n  open_timeout_seconds: 0\n")
	cfg, err = Load(globalPath, projectPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Breaker.MaxFailures != 3 || cfg.Breaker.OpenTimeoutSeconds != 0 {
		t.Errorf("breaker = %+v, want {3 0}", cfg.Breaker)
	}
}

func TestLoadDefault_FindsYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	globalPath, _, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error: %v", err)
	}
	if want := filepath.Join(home, ".taskanalyzer", "config.json"); globalPath != want {
		t.Errorf("global path without files = %q, want %q", globalPath, want)
	}

	yamlPath := filepath.Join(home, ".taskanalyzer", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(yamlPath), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, yamlPath, "api:\n  base_url: http://yaml.example.com\ndefault_importance: 8\n")

	globalPath, _, err = DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error: %v", err)
	}
	if globalPath != yamlPath {
		t.Errorf("global path = %q, want %q", globalPath, yamlPath)
	}

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.API.BaseURL != "http://yaml.example.com" || cfg.DefaultImportance != 8 {
		t.Errorf("config = %+v, want values from %s", cfg, yamlPath)
	}

	// JSON takes precedence when both exist.
	jsonPath := filepath.Join(home, ".taskanalyzer", "config.json")
	writeFile(t, jsonPath, `{"default_importance": 3}`)
	if globalPath, _, _ = DefaultPaths(); globalPath != jsonPath {
		t.Errorf("global path = %q, want %q", globalPath, jsonPath)
	}
}

func TestLoad_MalformedFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json", file: "global.json", content: "{invalid json"},
		{name: "yaml", file: "global.yml", content: "api: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			if _, err := Load(path, ""); err == nil {
				t.Fatal("expected error for malformed config, got nil")
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	writeFile(t, path, `{"default_importance": 42}`)

	if _, err := Load("", path); err == nil {
		t.Fatal("expected error for out-of-range default importance")
	}
}

func TestLoad_MissingFilesNotError(t *testing.T) {
	cfg, err := Load("/nonexistent/global.json", "/nonexistent/project.json")
	if err != nil {
		t.Fatalf("expected no error for missing files, got: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base URL = %q, want default", cfg.API.BaseURL)
	}
}

func TestStrategyLabel(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.StrategyLabel("high_impact"); got != "High Impact" {
		t.Errorf("StrategyLabel(high_impact) = %q", got)
	}
	if got := cfg.StrategyLabel("unknown"); got != "unknown" {
		t.Errorf("StrategyLabel(unknown) = %q", got)
	}
}
