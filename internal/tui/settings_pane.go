package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/taskanalyzer/internal/config"
)

// settingsValues is heap-allocated so the huh bindings survive copies of the pane.
type settingsValues struct {
	saveTarget      string
	baseURL         string
	defaultStrategy string
}

// SettingsPaneModel manages the settings form overlay.
type SettingsPaneModel struct {
	form        *huh.Form
	values      *settingsValues
	config      *config.AnalyzerConfig
	globalPath  string
	projectPath string
	width       int
	height      int
	visible     bool
	saved       bool
	applied     bool // saved since the last TakeApplied
	err         error
}

// NewSettingsPaneModel creates a new settings pane.
func NewSettingsPaneModel(cfg *config.AnalyzerConfig, globalPath, projectPath string) SettingsPaneModel {
	m := SettingsPaneModel{
		config:      cfg,
		values:      &settingsValues{},
		globalPath:  globalPath,
		projectPath: projectPath,
	}
	m.loadValues()
	m.buildForm()
	return m
}

func (m *SettingsPaneModel) loadValues() {
	*m.values = settingsValues{
		saveTarget:      "global",
		baseURL:         m.config.API.BaseURL,
		defaultStrategy: m.config.DefaultStrategy,
	}
}

// buildForm constructs the huh form with all settings fields.
func (m *SettingsPaneModel) buildForm() {
	strategies := make([]huh.Option[string], 0, len(m.config.Strategies))
	for _, s := range m.config.Strategies {
		strategies = append(strategies, huh.NewOption(s.Label, s.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("saveTarget").
				Title("Save To").
				Options(
					huh.NewOption(fmt.Sprintf("Global (%s)", m.globalPath), "global"),
					huh.NewOption(fmt.Sprintf("Project (%s)", m.projectPath), "project"),
				).
				Value(&m.values.saveTarget),
		).Title("Save Target"),

		huh.NewGroup(
			huh.NewInput().
				Key("baseURL").
				Title("API Base URL").
				Value(&m.values.baseURL).
				Placeholder(config.DefaultBaseURL).
				Validate(validateBaseURL),

			huh.NewSelect[string]().
				Key("defaultStrategy").
				Title("Default Strategy").
				Options(strategies...).
				Value(&m.values.defaultStrategy),
		).Title("Scoring Service"),
	)
	if m.width > 0 {
		m.form = m.form.WithWidth(m.width - 8)
	}
}

func validateBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("base URL must look like https://host")
	}
	return nil
}

// Init initializes the settings pane.
func (m SettingsPaneModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings pane.
func (m SettingsPaneModel) Update(msg tea.Msg) (SettingsPaneModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == KeyEsc {
		m.visible = false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.saved && m.err == nil {
		m.save()
	}

	return m, cmd
}

// save applies the form to the running config and writes it to the chosen
// file. The file keeps its format: a .yaml/.yml target is written as YAML.
func (m *SettingsPaneModel) save() {
	m.applyFormToConfig()

	targetPath := m.globalPath
	if m.values.saveTarget == "project" {
		targetPath = m.projectPath
	}

	// the running config is updated even if the file could not be written
	m.applied = true
	if err := config.Save(m.config, targetPath); err != nil {
		m.err = err
		return
	}
	m.saved = true
	m.err = nil
	m.visible = false
}

// applyFormToConfig copies form values back to the config struct.
func (m *SettingsPaneModel) applyFormToConfig() {
	m.config.API.BaseURL = strings.TrimRight(strings.TrimSpace(m.values.baseURL), "/")
	if m.config.StrategyIndex(m.values.defaultStrategy) >= 0 {
		m.config.DefaultStrategy = m.values.defaultStrategy
	}
}

// TakeApplied reports once whether the form changed the config.
func (m *SettingsPaneModel) TakeApplied() bool {
	applied := m.applied
	m.applied = false
	return applied
}

// Err returns the last save error.
func (m SettingsPaneModel) Err() error {
	return m.err
}

// View renders the settings pane.
func (m SettingsPaneModel) View() string {
	if !m.visible {
		return ""
	}

	content := m.form.View()
	if m.err != nil {
		content = StyleStatusError.Render(fmt.Sprintf("✗ Error saving: %v", m.err)) +
			"\n\n" + StyleHelp.Render("esc: close")
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(m.width - 4).
		Height(m.height - 4)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render("⚙ Settings")

	return lipgloss.JoinVertical(lipgloss.Left, title, style.Render(content))
}

// SetSize updates the dimensions of the settings pane.
func (m *SettingsPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form = m.form.WithWidth(w - 8).WithHeight(h - 8)
	}
}

// SetVisible shows or hides the settings pane. Showing it reloads the
// current config into a fresh form.
func (m *SettingsPaneModel) SetVisible(v bool) {
	m.visible = v
	m.saved = false
	m.err = nil
	if v {
		m.loadValues()
		m.buildForm()
	}
}

// IsVisible returns whether the settings pane is currently visible.
func (m SettingsPaneModel) IsVisible() bool {
	return m.visible
}
