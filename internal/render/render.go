package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aristath/taskanalyzer/internal/analysis"
)

// Entry is the presentation of one scored task.
type Entry struct {
	Title       string
	Tier        Tier
	Score       float64
	Label       string
	Meta        string
	Explanation string
}

// Render maps scored tasks to entries, one per task, in response order.
func Render(scored []analysis.ScoredRecord) []Entry {
	entries := make([]Entry, 0, len(scored))
	for _, s := range scored {
		entries = append(entries, renderOne(s))
	}
	return entries
}

func renderOne(s analysis.ScoredRecord) Entry {
	return Entry{
		Title:       s.Title,
		Tier:        Classify(s.Score),
		Score:       s.Score,
		Label:       Label(s.Score),
		Meta:        Meta(s),
		Explanation: s.Explanation,
	}
}

// Meta builds the "Due | Effort | Importance" line.
func Meta(s analysis.ScoredRecord) string {
	due := "None"
	if s.DueDate != nil && *s.DueDate != "" {
		due = *s.DueDate
	}
	return fmt.Sprintf("Due: %s | Effort: %sh | Importance: %s", due, number(s.EstimatedHours), number(s.Importance))
}

func number(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Text renders entries as plain text, one block per task.
func Text(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  [%s]\n", e.Title, e.Label)
		fmt.Fprintf(&b, "  %s\n", e.Meta)
		if e.Explanation != "" {
			fmt.Fprintf(&b, "  %s\n", e.Explanation)
		}
	}
	return b.String()
}
