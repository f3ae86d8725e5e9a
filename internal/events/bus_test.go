package events

import (
	"errors"
	"testing"
	"time"

	"github.com/aristath/taskanalyzer/internal/tasks"
)

func started(id string) AnalysisStartedEvent {
	return AnalysisStartedEvent{ID: id, Strategy: "smart_balance", Source: "accumulated", Count: 1, Timestamp: time.Now()}
}

// TestPublishSubscribe verifies basic publish/subscribe functionality.
func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch := bus.Subscribe(TopicAnalysis, 10)
	bus.Publish(TopicAnalysis, started("run-1"))

	select {
	case received := <-ch:
		if received.CorrelationID() != "run-1" {
			t.Errorf("expected correlation ID 'run-1', got '%s'", received.CorrelationID())
		}
		if received.EventType() != EventTypeAnalysisStarted {
			t.Errorf("expected event type '%s', got '%s'", EventTypeAnalysisStarted, received.EventType())
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

// TestMultipleSubscribers verifies every subscriber of a topic gets the event.
func TestMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch1 := bus.Subscribe(TopicAnalysis, 10)
	ch2 := bus.Subscribe(TopicAnalysis, 10)

	bus.Publish(TopicAnalysis, AnalysisFailedEvent{ID: "run-2", Err: errors.New("boom"), Timestamp: time.Now()})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			if received.CorrelationID() != "run-2" {
				t.Errorf("subscriber %d: expected 'run-2', got '%s'", i+1, received.CorrelationID())
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("subscriber %d: timeout waiting for event", i+1)
		}
	}
}

// TestNonBlockingSend verifies that publishing doesn't block when channels are full.
func TestNonBlockingSend(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch := bus.Subscribe(TopicAnalysis, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(TopicAnalysis, started("run"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("publisher blocked (expected non-blocking behavior)")
	}

	select {
	case received := <-ch:
		if received == nil {
			t.Error("received nil event")
		}
	default:
		t.Error("expected at least one event in buffer")
	}
}

// TestCloseSignalsSubscribers verifies that closing the bus closes subscriber channels.
func TestCloseSignalsSubscribers(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe(TopicTasks, 10)
	all := bus.SubscribeAll(10)

	bus.Close()
	bus.Close()

	for _, c := range []<-chan Event{ch, all} {
		received := 0
		for range c {
			received++
		}
		if received != 0 {
			t.Errorf("expected 0 events after close, got %d", received)
		}
	}
}

// TestPublishAfterClose verifies publishing after close doesn't panic.
func TestPublishAfterClose(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe(TopicTasks, 10)
	bus.Close()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("publishing after close caused panic: %v", r)
		}
	}()

	bus.Publish(TopicTasks, TaskRejectedEvent{Err: tasks.ErrMissingTitle, Timestamp: time.Now()})

	if _, ok := <-ch; ok {
		t.Error("received event after bus was closed")
	}
}

// TestSubscribeAfterClose verifies late subscribers get a closed channel.
func TestSubscribeAfterClose(t *testing.T) {
	bus := NewEventBus()
	bus.Close()

	if _, ok := <-bus.Subscribe(TopicTasks, 1); ok {
		t.Error("expected closed channel from Subscribe")
	}
	if _, ok := <-bus.SubscribeAll(1); ok {
		t.Error("expected closed channel from SubscribeAll")
	}
}

// TestNilBusPublish verifies a nil bus can be published to.
func TestNilBusPublish(t *testing.T) {
	var bus *EventBus
	bus.Publish(TopicTasks, TaskRejectedEvent{Err: tasks.ErrMissingTitle})
}

// TestTopicIsolationAndSubscribeAll verifies topic filtering and the all-topics feed.
func TestTopicIsolationAndSubscribeAll(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	taskCh := bus.Subscribe(TopicTasks, 10)
	analysisCh := bus.Subscribe(TopicAnalysis, 10)
	allCh := bus.SubscribeAll(10)

	added := TaskAddedEvent{Record: tasks.Record{ID: 3, Title: "t"}, Total: 3, Timestamp: time.Now()}
	bus.Publish(TopicTasks, added)
	bus.Publish(TopicAnalysis, started("run-3"))

	select {
	case received := <-taskCh:
		if received.EventType() != EventTypeTaskAdded {
			t.Errorf("task channel: got %s", received.EventType())
		}
		if received.CorrelationID() != "3" {
			t.Errorf("task correlation ID = %q, want 3", received.CorrelationID())
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("task channel: timeout waiting for event")
	}

	select {
	case received := <-analysisCh:
		if received.EventType() != EventTypeAnalysisStarted {
			t.Errorf("analysis channel: got %s", received.EventType())
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("analysis channel: timeout waiting for event")
	}

	select {
	case <-taskCh:
		t.Error("task channel received unexpected event")
	case <-time.After(10 * time.Millisecond):
	}

	receivedTypes := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case received := <-allCh:
			receivedTypes[received.EventType()] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for event on SubscribeAll")
		}
	}
	if !receivedTypes[EventTypeTaskAdded] || !receivedTypes[EventTypeAnalysisStarted] {
		t.Errorf("SubscribeAll missed events: %v", receivedTypes)
	}
}
