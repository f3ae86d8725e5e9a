package config

// DefaultBaseURL is the hosted scoring service.
const DefaultBaseURL = "https://task-analyzer-l6sh.onrender.com"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Strategies: []StrategyConfig{
			{ID: "smart_balance", Label: "Smart Balance"},
			{ID: "fastest_wins", Label: "Fastest Wins"},
			{ID: "high_impact", Label: "High Impact"},
			{ID: "deadline_driven", Label: "Deadline Driven"},
		},
		DefaultStrategy:   "smart_balance",
		DefaultImportance: 5,
		Breaker: BreakerConfig{
			MaxFailures:        0,
			OpenTimeoutSeconds: 30,
		},
	}
}
