package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/taskanalyzer/internal/config"
	"github.com/aristath/taskanalyzer/internal/events"
	"github.com/aristath/taskanalyzer/internal/render"
	"github.com/aristath/taskanalyzer/internal/session"
	"github.com/aristath/taskanalyzer/internal/tasks"
)

// PaneID identifies which pane is focused.
type PaneID int

const (
	PaneForm PaneID = iota
	PaneBulk
	PanePreview
	PaneResults
	paneCount
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	ctx          context.Context
	session      *session.Session
	config       *config.AnalyzerConfig
	formPane     FormPaneModel
	bulkPane     BulkPaneModel
	previewPane  PreviewPaneModel
	resultsPane  ResultsPaneModel
	settingsPane SettingsPaneModel
	spinner      spinner.Model
	focusedPane  PaneID
	eventSub     <-chan events.Event
	strategyIdx  int
	status       string
	statusKind   statusKind
	analyzing    bool
	degraded     bool // scoring service has been failing; shown next to the status
	analysisID   string
	width        int
	height       int
	quitting     bool
	showSettings bool
}

// New creates a new TUI model. It subscribes to all events on bus.
// ctx bounds every analysis started from the UI.
func New(ctx context.Context, sess *session.Session, bus *events.EventBus, cfg *config.AnalyzerConfig, globalPath, projectPath string) Model {
	m := Model{
		ctx:          ctx,
		session:      sess,
		config:       cfg,
		formPane:     NewFormPaneModel(cfg.DefaultImportance),
		bulkPane:     NewBulkPaneModel(),
		previewPane:  NewPreviewPaneModel(),
		resultsPane:  NewResultsPaneModel(),
		settingsPane: NewSettingsPaneModel(cfg, globalPath, projectPath),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		focusedPane:  PaneForm,
		eventSub:     bus.SubscribeAll(events.DefaultBufferSize),
		strategyIdx:  max(cfg.StrategyIndex(cfg.DefaultStrategy), 0),
	}
	m.updateFocusStates()
	m.refreshPreview()
	return m
}

// Init initializes the model and returns the initial command.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.eventSub), m.formPane.Init())
}

// waitForEvent returns a command that waits for the next event from the event bus.
func waitForEvent(sub <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil // bus closed
		}
		return event
	}
}

// analyzeCmd runs one analysis off the UI goroutine. The outcome reaches the
// model through the bus as AnalysisCompletedEvent or AnalysisFailedEvent.
func analyzeCmd(ctx context.Context, sess *session.Session, req session.AnalyzeRequest) tea.Cmd {
	return func() tea.Msg {
		sess.Analyze(ctx, req)
		return nil
	}
}

// Strategy returns the id of the selected strategy.
func (m Model) Strategy() string {
	if len(m.config.Strategies) == 0 {
		return m.config.DefaultStrategy
	}
	return m.config.Strategies[m.strategyIdx%len(m.config.Strategies)].ID
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == KeyQuit {
			m.quitting = true
			return m, tea.Quit
		}

		// settings overlay is modal
		if m.showSettings {
			var cmd tea.Cmd
			m.settingsPane, cmd = m.settingsPane.Update(msg)
			cmds = append(cmds, cmd)
			if !m.settingsPane.IsVisible() {
				m.showSettings = false
			}
			m.applySettings()
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case KeySettings:
			m.showSettings = true
			m.settingsPane.SetVisible(true)
			cmds = append(cmds, m.settingsPane.Init())

		case KeyNextPane:
			m.focusedPane = (m.focusedPane + 1) % paneCount
			cmds = append(cmds, m.updateFocusStates())

		case KeyPrevPane:
			m.focusedPane = (m.focusedPane + paneCount - 1) % paneCount
			cmds = append(cmds, m.updateFocusStates())

		case KeyStrategy:
			if n := len(m.config.Strategies); n > 0 {
				m.strategyIdx = (m.strategyIdx + 1) % n
			}

		case KeyAnalyze:
			cmds = append(cmds, m.startAnalysis())

		default:
			cmds = append(cmds, m.updateFocusedPane(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()
		m.settingsPane.SetSize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.analyzing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case events.TaskAddedEvent, events.TaskRejectedEvent, events.AnalysisStartedEvent:
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.AnalysisCompletedEvent:
		m.finishAnalysis(msg.ID, msg.Entries, nil)
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.AnalysisFailedEvent:
		m.finishAnalysis(msg.ID, nil, msg.Err)
		cmds = append(cmds, waitForEvent(m.eventSub))

	default:
		// cursor blinks and huh's internal messages
		if m.showSettings {
			var cmd tea.Cmd
			m.settingsPane, cmd = m.settingsPane.Update(msg)
			cmds = append(cmds, cmd)
			if !m.settingsPane.IsVisible() {
				m.showSettings = false
			}
			m.applySettings()
		} else {
			cmds = append(cmds, m.updateFocusedPane(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

// updateFocusedPane routes msg to the focused pane and handles a submitted form.
func (m *Model) updateFocusedPane(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focusedPane {
	case PaneForm:
		m.formPane, cmd = m.formPane.Update(msg)
		if fields, ok := m.formPane.TakeSubmission(); ok {
			return tea.Batch(cmd, m.addTask(fields))
		}
	case PaneBulk:
		m.bulkPane, cmd = m.bulkPane.Update(msg)
	case PanePreview:
		m.previewPane, cmd = m.previewPane.Update(msg)
	case PaneResults:
		m.resultsPane, cmd = m.resultsPane.Update(msg)
	}
	return cmd
}

func (m *Model) addTask(fields tasks.Fields) tea.Cmd {
	if _, err := m.session.AddTask(fields); err != nil {
		m.setStatus(session.UserMessage(err), statusError)
		return m.formPane.Retry()
	}
	m.setStatus(session.MsgTaskAdded, statusSuccess)
	m.refreshPreview()
	return m.formPane.Reset()
}

// startAnalysis launches an analysis unless one is already in flight.
func (m *Model) startAnalysis() tea.Cmd {
	if m.analyzing {
		return nil
	}
	m.analyzing = true
	m.analysisID = session.NewAnalysisID()
	m.resultsPane.SetEntries(nil)
	m.setStatus(session.MsgAnalyzing, statusInfo)

	req := session.AnalyzeRequest{
		ID:       m.analysisID,
		BulkText: m.bulkPane.Value(),
		Strategy: m.Strategy(),
	}
	return tea.Batch(m.spinner.Tick, analyzeCmd(m.ctx, m.session, req))
}

// finishAnalysis applies the outcome of the current analysis. Outcomes of
// other analyses, and a second outcome for the same one, are ignored.
func (m *Model) finishAnalysis(id string, entries []render.Entry, err error) {
	if !m.analyzing || id != m.analysisID {
		return
	}
	m.analyzing = false
	m.degraded = m.session.ServiceDegraded()
	if err != nil {
		m.setStatus(session.UserMessage(err), statusError)
		return
	}
	m.resultsPane.SetEntries(entries)
	m.setStatus(session.CompletedMessage(len(entries)), statusSuccess)
}

// applySettings rebuilds the scoring client after the settings form saved.
func (m *Model) applySettings() {
	if !m.settingsPane.TakeApplied() {
		return
	}
	m.session.UseDispatcher(session.DispatcherFromConfig(m.config))
	m.degraded = false
	m.strategyIdx = max(m.config.StrategyIndex(m.config.DefaultStrategy), 0)
	if err := m.settingsPane.Err(); err != nil {
		m.setStatus(fmt.Sprintf("Settings applied but not saved: %v", err), statusError)
		return
	}
	m.setStatus("Settings saved.", statusSuccess)
}

func (m *Model) refreshPreview() {
	preview, err := m.session.Preview()
	if err != nil {
		preview = err.Error()
	}
	m.previewPane.SetTasks(len(m.session.Snapshot()), preview, m.session.Dependencies())
}

func (m *Model) setStatus(text string, kind statusKind) {
	m.status = text
	m.statusKind = kind
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.showSettings {
		return m.settingsPane.View()
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.formPane.View(), m.bulkPane.View())
	right := lipgloss.JoinVertical(lipgloss.Left, m.previewPane.View(), m.resultsPane.View())
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.statusView(), HelpView())
}

// statusView renders the strategy and the status line.
func (m Model) statusView() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Strategy: " + m.config.StrategyLabel(m.Strategy())))
	b.WriteString(" ")

	status := m.status
	if m.analyzing {
		status = m.spinner.View() + " " + status
	}
	switch m.statusKind {
	case statusSuccess:
		b.WriteString(StyleStatusSuccess.Render(status))
	case statusError:
		b.WriteString(StyleStatusError.Render(status))
	default:
		b.WriteString(StyleStatusInfo.Render(status))
	}
	if m.degraded {
		b.WriteString(" ")
		b.WriteString(StyleWarning.Render("(scoring service keeps failing)"))
	}
	return b.String()
}

// computeLayout calculates pane dimensions and updates all child models.
func (m *Model) computeLayout() {
	leftWidth := (m.width * 45) / 100
	rightWidth := m.width - leftWidth
	availableHeight := m.height - 2 // status line and help bar
	formHeight := (availableHeight * 65) / 100
	previewHeight := (availableHeight * 40) / 100

	m.formPane.SetSize(leftWidth, formHeight)
	m.bulkPane.SetSize(leftWidth, availableHeight-formHeight)
	m.previewPane.SetSize(rightWidth, previewHeight)
	m.resultsPane.SetSize(rightWidth, availableHeight-previewHeight)
}

// updateFocusStates updates the focus state of all panes.
func (m *Model) updateFocusStates() tea.Cmd {
	m.formPane.SetFocused(m.focusedPane == PaneForm)
	m.previewPane.SetFocused(m.focusedPane == PanePreview)
	m.resultsPane.SetFocused(m.focusedPane == PaneResults)
	return m.bulkPane.SetFocused(m.focusedPane == PaneBulk)
}
