package analysis

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientScoreSuccess(t *testing.T) {
	var gotMethod, gotPath, gotStrategy, gotContentType, gotRequestID, gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotStrategy = r.URL.Query().Get("strategy")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"title":"A","score":8.2,"importance":9,"estimated_hours":2,"due_date":"2025-01-01","explanation":"Overdue task"},{"title":"B"}]`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL + "/"})
	ctx := WithRequestID(context.Background(), "req-123")

	scored, err := client.Score(ctx, "high_impact & more", []byte(`[{"title":"A"}]`))
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != AnalyzePath {
		t.Errorf("path = %s, want %s", gotPath, AnalyzePath)
	}
	if gotStrategy != "high_impact & more" {
		t.Errorf("strategy = %q, want it forwarded unmodified", gotStrategy)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotRequestID != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", gotRequestID)
	}
	if gotBody != `[{"title":"A"}]` {
		t.Errorf("body = %s", gotBody)
	}

	if len(scored) != 2 {
		t.Fatalf("got %d records, want 2", len(scored))
	}
	a := scored[0]
	if a.Title != "A" || a.Score != 8.2 || a.Explanation != "Overdue task" {
		t.Errorf("unexpected first record: %+v", a)
	}
	if a.Importance == nil || *a.Importance != 9 {
		t.Errorf("Importance = %v, want 9", a.Importance)
	}
	b := scored[1]
	if b.Score != 0 || b.Importance != nil || b.EstimatedHours != nil || b.DueDate != nil {
		t.Errorf("absent fields should decode to defaults: %+v", b)
	}
}

func TestClientScoreRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"importance":["Ensure this value is less than or equal to 10."]}`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})

	_, err := client.Score(context.Background(), "smart_balance", []byte(`[]`))
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if aerr.Kind != KindRemoteError {
		t.Fatalf("Kind = %v, want RemoteError", aerr.Kind)
	}
	if aerr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", aerr.Status)
	}
	if aerr.Body != `{"importance":["Ensure this value is less than or equal to 10."]}` {
		t.Errorf("Body = %q", aerr.Body)
	}
}

func TestClientScoreNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := NewClient(ClientConfig{BaseURL: baseURL})

	_, err := client.Score(context.Background(), "smart_balance", []byte(`[]`))
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestClientScoreUndecodableSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"not a list"}`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})

	_, err := client.Score(context.Background(), "smart_balance", []byte(`[]`))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var aerr *Error
	if errors.As(err, &aerr) {
		t.Errorf("decode failure should be a generic error, got kind %v", aerr.Kind)
	}
	if !strings.Contains(err.Error(), "decoding scoring response") {
		t.Errorf("error = %q", err)
	}
}

// TestClientKeepsSendingWhileDegraded verifies repeated 5xx mark the service
// degraded while every call still reaches the server and reports its answer.
func TestClientKeepsSendingWhileDegraded(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxFailures: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := client.Score(ctx, "smart_balance", []byte(`[]`))
		var aerr *Error
		if !errors.As(err, &aerr) || aerr.Kind != KindRemoteError || aerr.Status != http.StatusBadGateway {
			t.Fatalf("call %d: expected RemoteError 502, got %v", i, err)
		}
		if got := calls.Load(); got != int32(i) {
			t.Fatalf("call %d: server saw %d requests", i, got)
		}
		if want := i >= 2; client.Degraded() != want {
			t.Errorf("call %d: Degraded() = %v, want %v", i, client.Degraded(), want)
		}
	}
}

// TestClientRecoversAfterSuccess verifies a success after the open period clears the degraded state.
func TestClientRecoversAfterSuccess(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxFailures: 1, OpenTimeout: 10 * time.Millisecond})
	ctx := context.Background()

	if _, err := client.Score(ctx, "smart_balance", []byte(`[]`)); !errors.Is(err, ErrRemote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if !client.Degraded() {
		t.Fatal("service not degraded after failure")
	}

	time.Sleep(20 * time.Millisecond)
	healthy.Store(true)
	if _, err := client.Score(ctx, "smart_balance", []byte(`[]`)); err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if client.Degraded() {
		t.Error("service still degraded after a success")
	}
}

// TestClientHealthIgnoresClientErrors verifies 4xx answers never degrade the service.
func TestClientHealthIgnoresClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad task", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxFailures: 1})

	for i := 0; i < 3; i++ {
		_, err := client.Score(context.Background(), "smart_balance", []byte(`[]`))
		if !errors.Is(err, ErrRemote) {
			t.Fatalf("call %d: expected RemoteError, got %v", i+1, err)
		}
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
	if client.Degraded() {
		t.Error("4xx answers degraded the service")
	}
}

func TestClientHealthTrackingDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	for i := 0; i < 10; i++ {
		client.Score(context.Background(), "smart_balance", []byte(`[]`))
	}
	if client.Degraded() {
		t.Error("Degraded() = true with MaxFailures 0")
	}
}

func TestClientEndpoint(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://scores.example.com/"})

	got := client.Endpoint("deadline_driven")
	want := "https://scores.example.com/api/tasks/analyze/?strategy=deadline_driven"
	if got != want {
		t.Errorf("Endpoint() = %q, want %q", got, want)
	}
}
