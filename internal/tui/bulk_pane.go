package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// BulkPaneModel holds the pasted JSON array that replaces the task list when non-empty.
type BulkPaneModel struct {
	input   textarea.Model
	width   int
	height  int
	focused bool
}

// NewBulkPaneModel creates an empty bulk input.
func NewBulkPaneModel() BulkPaneModel {
	ta := textarea.New()
	ta.Placeholder = `[{"id": 1, "title": "Fix login bug", "due_date": "2025-12-01", "estimated_hours": 3, "importance": 8, "dependencies": []}]`
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Blur()
	return BulkPaneModel{input: ta}
}

// Update forwards messages to the textarea when focused.
func (m BulkPaneModel) Update(msg tea.Msg) (BulkPaneModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value returns the pasted text.
func (m BulkPaneModel) Value() string {
	return m.input.Value()
}

// View renders the bulk pane.
func (m BulkPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := StyleTitle.Render("Bulk JSON")
	hint := StyleMuted.Render("overrides the task list when not empty")
	if strings.TrimSpace(m.input.Value()) != "" {
		hint = StyleWarning.Render("in use: the task list will be ignored")
	}

	return paneStyle(m.focused).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(title + " " + hint + "\n" + m.input.View())
}

// SetSize updates the pane dimensions.
func (m *BulkPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.SetWidth(max(w-4, 10))
	m.input.SetHeight(max(h-3, 1))
}

// SetFocused updates the focus state.
func (m *BulkPaneModel) SetFocused(focused bool) tea.Cmd {
	m.focused = focused
	if focused {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}
