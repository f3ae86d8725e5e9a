package events

import (
	"strconv"
	"time"

	"github.com/aristath/taskanalyzer/internal/render"
	"github.com/aristath/taskanalyzer/internal/tasks"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	// CorrelationID ties related events together: the analysis id for
	// analysis events, the task id for task events ("" if none).
	CorrelationID() string
}

// Topic constants
const (
	TopicTasks    = "tasks"
	TopicAnalysis = "analysis"
)

// Event type constants
const (
	EventTypeTaskAdded         = "task.added"
	EventTypeTaskRejected      = "task.rejected"
	EventTypeAnalysisStarted   = "analysis.started"
	EventTypeAnalysisCompleted = "analysis.completed"
	EventTypeAnalysisFailed    = "analysis.failed"
)

// TaskAddedEvent is published when a record enters the task list.
type TaskAddedEvent struct {
	Record    tasks.Record
	Total     int
	Timestamp time.Time
}

func (e TaskAddedEvent) EventType() string     { return EventTypeTaskAdded }
func (e TaskAddedEvent) CorrelationID() string { return strconv.Itoa(e.Record.ID) }

// TaskRejectedEvent is published when input fails validation.
type TaskRejectedEvent struct {
	Err       error
	Timestamp time.Time
}

func (e TaskRejectedEvent) EventType() string     { return EventTypeTaskRejected }
func (e TaskRejectedEvent) CorrelationID() string { return "" }

// AnalysisStartedEvent is published right before the scoring request is sent.
type AnalysisStartedEvent struct {
	ID        string
	Strategy  string
	Source    string // "bulk" or "accumulated"
	Count     int
	Timestamp time.Time
}

func (e AnalysisStartedEvent) EventType() string     { return EventTypeAnalysisStarted }
func (e AnalysisStartedEvent) CorrelationID() string { return e.ID }

// AnalysisCompletedEvent carries the rendered results of a successful analysis.
type AnalysisCompletedEvent struct {
	ID        string
	Strategy  string
	Entries   []render.Entry
	Duration  time.Duration
	Timestamp time.Time
}

func (e AnalysisCompletedEvent) EventType() string     { return EventTypeAnalysisCompleted }
func (e AnalysisCompletedEvent) CorrelationID() string { return e.ID }

// AnalysisFailedEvent is published when an analysis could not produce results.
// Failures before the request (bad bulk input, nothing to analyze) are included.
type AnalysisFailedEvent struct {
	ID        string
	Err       error
	Duration  time.Duration
	Timestamp time.Time
}

func (e AnalysisFailedEvent) EventType() string     { return EventTypeAnalysisFailed }
func (e AnalysisFailedEvent) CorrelationID() string { return e.ID }
