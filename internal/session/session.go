// Package session owns the state of one interactive run: the task list being
// built and the most recent analysis results.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/taskanalyzer/internal/analysis"
	"github.com/aristath/taskanalyzer/internal/events"
	"github.com/aristath/taskanalyzer/internal/render"
	"github.com/aristath/taskanalyzer/internal/tasks"
)

// AnalyzeRequest describes one analysis run.
type AnalyzeRequest struct {
	ID       string // correlation id; generated when empty
	BulkText string // pasted JSON array; blank means use the task list
	Strategy string // forwarded to the scoring service unmodified
}

// Session ties the task builder, the dispatcher and the event bus together.
// Overlapping Analyze calls are not prevented here; the last one to finish
// owns Results.
type Session struct {
	builder    *tasks.Builder
	dispatcher *analysis.Dispatcher
	bus        *events.EventBus

	mu      sync.RWMutex // guards dispatcher and results
	results []render.Entry
}

// New creates a session with an empty task list. bus may be nil.
func New(dispatcher *analysis.Dispatcher, bus *events.EventBus) *Session {
	return &Session{
		builder:    tasks.NewBuilder(),
		dispatcher: dispatcher,
		bus:        bus,
	}
}

// NewAnalysisID returns a fresh correlation id.
func NewAnalysisID() string {
	return uuid.NewString()
}

// AddTask validates fields and appends the resulting record.
func (s *Session) AddTask(fields tasks.Fields) (tasks.Record, error) {
	rec, err := s.builder.Add(fields)
	if err != nil {
		s.bus.Publish(events.TopicTasks, events.TaskRejectedEvent{Err: err, Timestamp: time.Now()})
		return tasks.Record{}, err
	}

	s.bus.Publish(events.TopicTasks, events.TaskAddedEvent{
		Record:    rec,
		Total:     s.builder.Len(),
		Timestamp: time.Now(),
	})
	return rec, nil
}

// Snapshot returns the current task list.
func (s *Session) Snapshot() []tasks.Record {
	return s.builder.Snapshot()
}

// Preview returns the task list as indented JSON.
func (s *Session) Preview() (string, error) {
	return s.builder.Preview()
}

// Dependencies reports dangling and circular dependencies in the task list.
func (s *Session) Dependencies() tasks.DependencyReport {
	return tasks.Inspect(s.builder.Snapshot())
}

// Results returns the entries of the last successful analysis.
func (s *Session) Results() []render.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]render.Entry(nil), s.results...)
}

// Analyze scores the bulk tasks or the task list and renders the outcome.
// Previous results are cleared when the analysis starts. The task list is
// only read.
func (s *Session) Analyze(ctx context.Context, req AnalyzeRequest) ([]render.Entry, error) {
	if req.ID == "" {
		req.ID = NewAnalysisID()
	}
	start := time.Now()

	s.setResults(nil)

	payload, err := analysis.ResolvePayload(req.BulkText, s.builder.Snapshot())
	if err != nil {
		s.fail(req.ID, start, err)
		return nil, err
	}

	log.Printf("analysis %s: sending %d %s task(s), strategy %q", req.ID, payload.Len(), payload.Source(), req.Strategy)
	s.bus.Publish(events.TopicAnalysis, events.AnalysisStartedEvent{
		ID:        req.ID,
		Strategy:  req.Strategy,
		Source:    payload.Source(),
		Count:     payload.Len(),
		Timestamp: start,
	})

	scored, err := s.currentDispatcher().Send(analysis.WithRequestID(ctx, req.ID), payload, req.Strategy)
	if err != nil {
		s.fail(req.ID, start, err)
		return nil, err
	}

	entries := render.Render(scored)
	s.setResults(entries)

	duration := time.Since(start)
	log.Printf("analysis %s: %d task(s) scored in %v", req.ID, len(entries), duration)
	s.bus.Publish(events.TopicAnalysis, events.AnalysisCompletedEvent{
		ID:        req.ID,
		Strategy:  req.Strategy,
		Entries:   entries,
		Duration:  duration,
		Timestamp: time.Now(),
	})
	return entries, nil
}

// UseDispatcher swaps the dispatcher used by later analyses, e.g. after the
// API settings changed. An analysis already in flight keeps the old one.
func (s *Session) UseDispatcher(d *analysis.Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = d
}

// ServiceDegraded reports whether the scoring service has been failing
// repeatedly. It is informational; analyses are still sent.
func (s *Session) ServiceDegraded() bool {
	return s.currentDispatcher().Degraded()
}

func (s *Session) currentDispatcher() *analysis.Dispatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatcher
}

func (s *Session) fail(id string, start time.Time, err error) {
	log.Printf("analysis %s failed: %v", id, err)
	s.bus.Publish(events.TopicAnalysis, events.AnalysisFailedEvent{
		ID:        id,
		Err:       err,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	})
}

func (s *Session) setResults(entries []render.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = entries
}
