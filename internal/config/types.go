package config

import "time"

// APIConfig locates the remote scoring service.
type APIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"` // scheme and host, no trailing path
}

// StrategyConfig is one entry of the strategy selector. ID is sent to the
// service unmodified; Label is only shown to the user.
type StrategyConfig struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// BreakerConfig tunes the health tracking of the scoring service. It never
// blocks a request.
type BreakerConfig struct {
	MaxFailures        uint32 `json:"max_failures" yaml:"max_failures"`                 // 0 disables health tracking
	OpenTimeoutSeconds int    `json:"open_timeout_seconds" yaml:"open_timeout_seconds"` // time reported unhealthy before outcomes count again
}

// OpenTimeout returns the open period as a duration.
func (b BreakerConfig) OpenTimeout() time.Duration {
	return time.Duration(b.OpenTimeoutSeconds) * time.Second
}

// AnalyzerConfig is the top-level configuration.
type AnalyzerConfig struct {
	API               APIConfig        `json:"api" yaml:"api"`
	Strategies        []StrategyConfig `json:"strategies" yaml:"strategies"`
	DefaultStrategy   string           `json:"default_strategy" yaml:"default_strategy"`
	DefaultImportance int              `json:"default_importance" yaml:"default_importance"`
	Breaker           BreakerConfig    `json:"breaker" yaml:"breaker"`
}

// StrategyIndex returns the position of id in Strategies, or -1.
func (c *AnalyzerConfig) StrategyIndex(id string) int {
	for i, s := range c.Strategies {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// StrategyLabel returns the display label for id, falling back to the id itself.
func (c *AnalyzerConfig) StrategyLabel(id string) string {
	if i := c.StrategyIndex(id); i >= 0 && c.Strategies[i].Label != "" {
		return c.Strategies[i].Label
	}
	return id
}
