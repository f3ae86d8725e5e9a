package session

import (
	"errors"
	"fmt"

	"github.com/aristath/taskanalyzer/internal/analysis"
	"github.com/aristath/taskanalyzer/internal/tasks"
)

// Status line texts.
const (
	MsgTaskAdded = "Task added to list."
	MsgAnalyzing = "Analyzing tasks..."
)

// CompletedMessage is the status line after a successful analysis.
func CompletedMessage(count int) string {
	return fmt.Sprintf("Analysis complete. %d task(s) scored.", count)
}

// UserMessage turns an add or analyze failure into the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tasks.ErrMissingTitle):
		return "Title is required."
	case errors.Is(err, tasks.ErrInvalidImportance):
		return "Importance must be between 1 and 10."
	case errors.Is(err, tasks.ErrInvalidEffort):
		return "Estimated hours must be a non-negative number."
	}

	var aerr *analysis.Error
	if !errors.As(err, &aerr) {
		return "Network or server error: " + err.Error()
	}

	switch aerr.Kind {
	case analysis.KindMalformedBulkInput:
		return "Invalid JSON in bulk input: " + errMessage(aerr.Err)
	case analysis.KindBulkInputNotArray:
		return "Bulk JSON must be an array of tasks."
	case analysis.KindNoTasksToAnalyze:
		return "No tasks to analyze. Add tasks or paste JSON."
	case analysis.KindRemoteError:
		return fmt.Sprintf("API error (%d): %s", aerr.Status, aerr.Body)
	default:
		return "Network or server error: " + errMessage(aerr.Err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
