package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/aristath/taskanalyzer/internal/tasks"
)

// taskFormValues lives on the heap so the huh fields keep pointing at it
// while the pane model is copied around by value.
type taskFormValues struct {
	title          string
	dueDate        string
	estimatedHours string
	importance     string
	dependencies   string
}

// FormPaneModel is the add-task form.
type FormPaneModel struct {
	form              *huh.Form
	values            *taskFormValues
	defaultImportance int
	submitted         bool
	width             int
	height            int
	focused           bool
}

// NewFormPaneModel creates an empty form with importance pre-filled.
func NewFormPaneModel(defaultImportance int) FormPaneModel {
	m := FormPaneModel{
		values:            &taskFormValues{},
		defaultImportance: defaultImportance,
	}
	m.resetValues()
	m.buildForm()
	return m
}

// buildForm constructs the huh form bound to m.values.
func (m *FormPaneModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.values.title).
				Placeholder("Fix login bug"),

			huh.NewInput().
				Key("due_date").
				Title("Due date").
				Value(&m.values.dueDate).
				Placeholder("YYYY-MM-DD"),

			huh.NewInput().
				Key("estimated_hours").
				Title("Estimated hours").
				Value(&m.values.estimatedHours).
				Placeholder("2.5"),

			huh.NewInput().
				Key("importance").
				Title("Importance (1-10)").
				Value(&m.values.importance),

			huh.NewInput().
				Key("dependencies").
				Title("Dependencies").
				Description("Comma-separated task ids").
				Value(&m.values.dependencies).
				Placeholder("1, 2"),
		).Title("Add Task"),
	).WithShowHelp(false)

	if m.width > 0 {
		m.form = m.form.WithWidth(m.width - 4)
	}
	m.submitted = false
}

func (m *FormPaneModel) resetValues() {
	*m.values = taskFormValues{importance: strconv.Itoa(m.defaultImportance)}
}

// Init initializes the form.
func (m FormPaneModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards messages to the form and records a submission.
func (m FormPaneModel) Update(msg tea.Msg) (FormPaneModel, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); isKey && !m.focused {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitted = true
	case huh.StateAborted:
		// keep the typed values in a fresh form
		m.buildForm()
		return m, m.form.Init()
	}

	return m, cmd
}

// TakeSubmission returns the submitted fields once per completed form.
func (m *FormPaneModel) TakeSubmission() (tasks.Fields, bool) {
	if !m.submitted {
		return tasks.Fields{}, false
	}
	m.submitted = false
	return m.Fields(), true
}

// Fields returns the current raw input.
func (m FormPaneModel) Fields() tasks.Fields {
	return tasks.Fields{
		Title:          m.values.title,
		DueDate:        m.values.dueDate,
		EstimatedHours: m.values.estimatedHours,
		Importance:     m.values.importance,
		Dependencies:   m.values.dependencies,
	}
}

// Reset clears the inputs after a task was added.
func (m *FormPaneModel) Reset() tea.Cmd {
	m.resetValues()
	m.buildForm()
	return m.form.Init()
}

// Retry reopens the form with the rejected input still filled in.
func (m *FormPaneModel) Retry() tea.Cmd {
	m.buildForm()
	return m.form.Init()
}

// SetDefaultImportance changes the value used when the form is reset.
func (m *FormPaneModel) SetDefaultImportance(v int) {
	m.defaultImportance = v
}

// View renders the form pane.
func (m FormPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return paneStyle(m.focused).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(m.form.View())
}

// SetSize updates the pane dimensions.
func (m *FormPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form = m.form.WithWidth(w - 4)
	}
}

// SetFocused updates the focus state.
func (m *FormPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
