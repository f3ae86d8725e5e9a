package session

import (
	"github.com/aristath/taskanalyzer/internal/analysis"
	"github.com/aristath/taskanalyzer/internal/config"
)

// DispatcherFromConfig builds a dispatcher backed by the HTTP scoring client
// described by cfg.
func DispatcherFromConfig(cfg *config.AnalyzerConfig) *analysis.Dispatcher {
	client := analysis.NewClient(analysis.ClientConfig{
		BaseURL:     cfg.API.BaseURL,
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout(),
	})
	return analysis.NewDispatcher(client)
}
