package analysis

import (
	"context"
	"fmt"

	"github.com/aristath/taskanalyzer/internal/tasks"
)

// Dispatcher resolves a payload and hands it to the scoring service.
type Dispatcher struct {
	scorer Scorer
}

// NewDispatcher creates a dispatcher backed by the given scorer.
func NewDispatcher(scorer Scorer) *Dispatcher {
	return &Dispatcher{scorer: scorer}
}

// Analyze scores either the pasted bulk tasks or, when bulkText is blank, the
// current task list. Nothing is sent if the payload cannot be built.
// Callers that need to observe the payload before it is sent resolve it
// themselves and call Send.
func (d *Dispatcher) Analyze(ctx context.Context, bulkText, strategy string, current []tasks.Record) ([]ScoredRecord, error) {
	payload, err := ResolvePayload(bulkText, current)
	if err != nil {
		return nil, err
	}
	return d.Send(ctx, payload, strategy)
}

// Send scores an already resolved payload.
func (d *Dispatcher) Send(ctx context.Context, payload Payload, strategy string) ([]ScoredRecord, error) {
	body, err := payload.Body()
	if err != nil {
		return nil, err
	}

	scored, err := d.scorer.Score(ctx, strategy, body)
	if err != nil {
		return nil, fmt.Errorf("analyzing %d %s task(s): %w", payload.Len(), payload.Source(), err)
	}
	return scored, nil
}

// Degraded reports whether the scorer considers the service unhealthy.
// Scorers that do not track health are never degraded.
func (d *Dispatcher) Degraded() bool {
	h, ok := d.scorer.(interface{ Degraded() bool })
	return ok && h.Degraded()
}
