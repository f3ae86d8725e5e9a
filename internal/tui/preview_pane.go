package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/taskanalyzer/internal/tasks"
)

// PreviewPaneModel shows the task list as JSON together with dependency warnings.
type PreviewPaneModel struct {
	viewport viewport.Model
	count    int
	preview  string
	warnings []string
	order    []int
	width    int
	height   int
	focused  bool
}

// NewPreviewPaneModel creates a preview pane for an empty task list.
func NewPreviewPaneModel() PreviewPaneModel {
	m := PreviewPaneModel{
		viewport: viewport.New(0, 0),
		preview:  "[]",
	}
	m.refreshContent()
	return m
}

// SetTasks replaces the displayed preview.
func (m *PreviewPaneModel) SetTasks(count int, preview string, report tasks.DependencyReport) {
	m.count = count
	m.preview = preview
	m.warnings = report.Warnings()
	m.order = report.Order
	m.refreshContent()
}

func (m *PreviewPaneModel) refreshContent() {
	var b strings.Builder
	for _, w := range m.warnings {
		b.WriteString(StyleWarning.Render("! " + w))
		b.WriteString("\n")
	}
	if len(m.order) > 1 {
		ids := make([]string, len(m.order))
		for i, id := range m.order {
			ids[i] = strconv.Itoa(id)
		}
		b.WriteString(StyleMuted.Render("Dependency order: " + strings.Join(ids, " → ")))
		b.WriteString("\n")
	}
	if len(m.warnings) > 0 || len(m.order) > 1 {
		b.WriteString("\n")
	}
	b.WriteString(m.preview)
	m.viewport.SetContent(b.String())
}

// Update scrolls the preview when focused.
func (m PreviewPaneModel) Update(msg tea.Msg) (PreviewPaneModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the preview pane.
func (m PreviewPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	title := StyleTitle.Render(fmt.Sprintf("Task List (%d)", m.count))
	return paneStyle(m.focused).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(title + "\n" + m.viewport.View())
}

// SetSize updates the pane dimensions.
func (m *PreviewPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-4, 0)
	m.viewport.Height = max(h-3, 0)
}

// SetFocused updates the focus state.
func (m *PreviewPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
