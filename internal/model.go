package internal

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"countdown/internal/countdown"
	"countdown/internal/history"
)

// RunLister is the read side of the run history.
type RunLister interface {
	Recent(limit int) ([]history.Run, error)
	Stats() ([]history.OutcomeStats, error)
}

type Model struct {
	Input    textinput.Model
	Progress progress.Model
	Snapshot countdown.Snapshot
	Err      error // last rejected duration input
	Runs     []history.Run
	Stats    []history.OutcomeStats
	Width    int

	machine  *countdown.Machine
	feed     *Feed
	runs     RunLister // nil when history is disabled
	runLimit int
	log      logrus.FieldLogger
}

// NewModel subscribes a feed to machine. runs may be nil.
func NewModel(machine *countdown.Machine, runs RunLister, runLimit int, log logrus.FieldLogger) *Model {
	input := textinput.New()
	input.Placeholder = "Enter duration in seconds"
	input.CharLimit = 6
	input.Width = 28
	input.Focus()

	feed := NewFeed()
	machine.Subscribe(feed.Push)

	m := &Model{
		Input:    input,
		Progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		Snapshot: machine.Snapshot(),
		machine:  machine,
		feed:     feed,
		runs:     runs,
		runLimit: runLimit,
		log:      log.WithField("component", "tui"),
	}
	m.refreshRuns()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.feed.Wait())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgChanged:
		m.Snapshot = msg.Snapshot
		m.refreshRuns()
		return m, m.feed.Wait()
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	return m.mainView()
}

func (m *Model) refreshRuns() {
	if m.runs == nil {
		return
	}
	runs, err := m.runs.Recent(m.runLimit)
	if err != nil {
		m.log.WithError(err).Warn("failed to load recent runs")
		return
	}
	m.Runs = runs

	stats, err := m.runs.Stats()
	if err != nil {
		m.log.WithError(err).Warn("failed to load run stats")
		return
	}
	m.Stats = stats
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "enter":
		// Set
		if err := m.machine.ConfigureInput(m.Input.Value()); err != nil {
			m.Err = err
		} else {
			m.Err = nil
		}
	case "s", " ":
		m.machine.Start()
	case "p":
		m.machine.Pause()
	case "r":
		m.machine.Reset()
	default:
		if !editsDuration(msg) {
			return m, nil
		}
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	m.Snapshot = m.machine.Snapshot()
	return m, nil
}

// editsDuration reports whether msg belongs to the numeric input.
func editsDuration(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return false
			}
		}
		return len(msg.Runes) > 0
	}
	return false
}
