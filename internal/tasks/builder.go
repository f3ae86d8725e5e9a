package tasks

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
)

// Builder accumulates validated task records for one session.
// Records are only ever appended; ids start at 1 and are never reused.
type Builder struct {
	mu      sync.RWMutex
	records []Record
	nextID  int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{nextID: 1}
}

// Add validates the raw fields and, on success, appends a new record with the
// next sequential id. Validation stops at the first failing rule and a rejected
// candidate leaves the builder untouched.
func (b *Builder) Add(f Fields) (Record, error) {
	rec, err := parseFields(f)
	if err != nil {
		return Record{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rec.ID = b.nextID
	b.nextID++
	b.records = append(b.records, rec)

	return cloneRecord(rec), nil
}

// Snapshot returns a copy of the accumulated records in insertion order.
func (b *Builder) Snapshot() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Record, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, cloneRecord(r))
	}
	return out
}

// Len returns the number of accumulated records.
func (b *Builder) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Preview renders the current sequence as indented JSON.
func (b *Builder) Preview() (string, error) {
	data, err := json.MarshalIndent(b.Snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling task preview: %w", err)
	}
	return string(data), nil
}

func parseFields(f Fields) (Record, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Record{}, ErrMissingTitle
	}

	importance, ok := leadingInt(f.Importance)
	if !ok || importance < MinImportance || importance > MaxImportance {
		return Record{}, ErrInvalidImportance
	}

	var hours *float64
	if raw := strings.TrimSpace(f.EstimatedHours); raw != "" {
		h, ok := leadingFloat(raw)
		if !ok || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return Record{}, ErrInvalidEffort
		}
		hours = &h
	}

	var due *string
	if d := strings.TrimSpace(f.DueDate); d != "" {
		due = &d
	}

	return Record{
		Title:          title,
		DueDate:        due,
		EstimatedHours: hours,
		Importance:     importance,
		Dependencies:   ParseDependencies(f.Dependencies),
	}, nil
}

// ParseDependencies splits a comma-separated id list. Each token contributes
// its leading integer ("3.0" is 3, "2a" is 2); empty tokens and tokens without
// one are dropped without error. Order is preserved.
func ParseDependencies(raw string) []int {
	deps := []int{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, ok := leadingInt(tok)
		if !ok {
			continue
		}
		deps = append(deps, id)
	}
	return deps
}
