package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aristath/taskanalyzer/internal/tasks"
)

// Payload is the set of tasks sent in one analysis request.
// It is either UseBulk or UseAccumulated.
type Payload interface {
	// Len returns the number of tasks in the payload.
	Len() int
	// Body returns the JSON request body.
	Body() ([]byte, error)
	// Source names where the tasks came from ("bulk" or "accumulated").
	Source() string

	isPayload()
}

// UseBulk carries tasks pasted as a raw JSON array. Elements are forwarded as written.
type UseBulk struct {
	Items []json.RawMessage
}

// UseAccumulated carries the builder's task list.
type UseAccumulated struct {
	Records []tasks.Record
}

func (p UseBulk) Len() int       { return len(p.Items) }
func (p UseBulk) Source() string { return "bulk" }
func (UseBulk) isPayload()       {}

func (p UseBulk) Body() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding bulk payload: %w", err)
	}
	return data, nil
}

func (p UseAccumulated) Len() int       { return len(p.Records) }
func (p UseAccumulated) Source() string { return "accumulated" }
func (UseAccumulated) isPayload()       {}

func (p UseAccumulated) Body() ([]byte, error) {
	records := p.Records
	if records == nil {
		records = []tasks.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding task payload: %w", err)
	}
	return data, nil
}

// ResolvePayload picks the request payload. Non-blank bulk text always wins and
// replaces the accumulated list entirely; otherwise the accumulated list is used.
// An empty result is rejected with ErrNoTasksToAnalyze.
func ResolvePayload(bulkText string, current []tasks.Record) (Payload, error) {
	var p Payload
	if trimmed := strings.TrimSpace(bulkText); trimmed != "" {
		bulk, err := decodeBulk(trimmed)
		if err != nil {
			return nil, err
		}
		p = bulk
	} else {
		p = UseAccumulated{Records: current}
	}

	if p.Len() == 0 {
		return nil, &Error{Kind: KindNoTasksToAnalyze}
	}
	return p, nil
}

func decodeBulk(text string) (UseBulk, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return UseBulk{}, &Error{Kind: KindMalformedBulkInput, Err: err}
	}
	if _, ok := v.([]any); !ok {
		return UseBulk{}, &Error{Kind: KindBulkInputNotArray}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return UseBulk{}, &Error{Kind: KindMalformedBulkInput, Err: err}
	}
	return UseBulk{Items: items}, nil
}
