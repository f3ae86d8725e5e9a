package tasks

import "errors"

// Validation errors returned by Builder.Add.
var (
	ErrMissingTitle      = errors.New("title is required")
	ErrInvalidImportance = errors.New("importance must be between 1 and 10")
	ErrInvalidEffort     = errors.New("estimated hours must be a non-negative number")
)

// Importance bounds (inclusive).
const (
	MinImportance = 1
	MaxImportance = 10
)

// Fields holds the raw, unvalidated input for one task as typed by the user.
type Fields struct {
	Title          string
	DueDate        string // YYYY-MM-DD or empty
	EstimatedHours string // empty means unspecified
	Importance     string
	Dependencies   string // comma-separated task ids
}

// Record is a validated task ready to be sent for scoring.
type Record struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Importance     int      `json:"importance"`
	Dependencies   []int    `json:"dependencies"`
}

func cloneRecord(r Record) Record {
	cp := r
	if r.DueDate != nil {
		d := *r.DueDate
		cp.DueDate = &d
	}
	if r.EstimatedHours != nil {
		h := *r.EstimatedHours
		cp.EstimatedHours = &h
	}
	cp.Dependencies = append([]int{}, r.Dependencies...)
	return cp
}
