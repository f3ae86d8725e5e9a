package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/taskanalyzer/internal/render"
)

// ResultsPaneModel lists the entries of the last analysis.
type ResultsPaneModel struct {
	viewport viewport.Model
	entries  []render.Entry
	width    int
	height   int
	focused  bool
}

// NewResultsPaneModel creates an empty results pane.
func NewResultsPaneModel() ResultsPaneModel {
	return ResultsPaneModel{viewport: viewport.New(0, 0)}
}

// SetEntries replaces the displayed results. nil clears the pane.
func (m *ResultsPaneModel) SetEntries(entries []render.Entry) {
	m.entries = entries
	m.viewport.SetContent(renderEntries(entries, m.viewport.Width))
	m.viewport.GotoTop()
}

// Entries returns the displayed results.
func (m ResultsPaneModel) Entries() []render.Entry {
	return m.entries
}

func renderEntries(entries []render.Entry, width int) string {
	if len(entries) == 0 {
		return StyleMuted.Render("No results yet.")
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleTitle.Render(e.Title))
		b.WriteString(" ")
		b.WriteString(BadgeStyle(e.Tier).Render(e.Label))
		b.WriteString("\n")
		b.WriteString(StyleMuted.Render("  " + e.Meta))
		b.WriteString("\n")
		if e.Explanation != "" {
			text := e.Explanation
			if width > 4 {
				text = StyleHelp.Width(width - 2).Render(text)
			}
			b.WriteString("  ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Update scrolls the results when focused.
func (m ResultsPaneModel) Update(msg tea.Msg) (ResultsPaneModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the results pane.
func (m ResultsPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return paneStyle(m.focused).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(StyleTitle.Render("Results") + "\n" + m.viewport.View())
}

// SetSize updates the pane dimensions and re-wraps the content.
func (m *ResultsPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-4, 0)
	m.viewport.Height = max(h-3, 0)
	m.viewport.SetContent(renderEntries(m.entries, m.viewport.Width))
}

// SetFocused updates the focus state.
func (m *ResultsPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
