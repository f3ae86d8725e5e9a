package analysis

import "encoding/json"

// ScoredRecord is one task as returned by the scoring service.
// Only Title and Score are expected; everything else may be absent.
type ScoredRecord struct {
	ID             json.RawMessage `json:"id,omitempty"`
	Title          string          `json:"title"`
	DueDate        *string         `json:"due_date"`
	EstimatedHours *float64        `json:"estimated_hours"`
	Importance     *float64        `json:"importance"`
	Dependencies   json.RawMessage `json:"dependencies,omitempty"`
	Score          float64         `json:"score"`
	Explanation    string          `json:"explanation"`
}
