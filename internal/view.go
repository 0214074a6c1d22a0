package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"countdown/internal/countdown"
	"countdown/internal/history"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	timerExpiredStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// startLabel names the start key: "Resume" while paused.
func startLabel(s countdown.State) string {
	if s == countdown.Paused {
		return "Resume"
	}
	return "Start"
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(50).Render("Countdown Timer"))
	sb.WriteString("\n\n")
	sb.WriteString(boxStyle.Width(50).Render(m.timerView()))
	sb.WriteString("\n")

	if runs := m.runsView(); runs != "" {
		sb.WriteString(boxStyle.Width(50).Render(runs))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	help := fmt.Sprintf("Set: Enter | %s: s | Pause: p | Reset: r | Quit: q", startLabel(m.Snapshot.State))
	sb.WriteString(helpStyle.Render(help))

	return sb.String()
}

func (m *Model) timerView() string {
	s := m.Snapshot

	var display string
	switch s.State {
	case countdown.Running:
		display = timerRunningStyle.Render(s.Display())
	case countdown.Expired:
		display = timerExpiredStyle.Render(s.Display())
	default:
		display = timerDisplayStyle.Render(s.Display())
	}

	var sb strings.Builder
	sb.WriteString(inputStyle.Render("→ Duration: "))
	sb.WriteString(m.Input.View())
	sb.WriteString("\n")
	if m.Err != nil {
		sb.WriteString(errStyle.Render(m.Err.Error()))
	}
	sb.WriteString("\n\n")
	sb.WriteString(display)
	sb.WriteString("  ")
	sb.WriteString(inactiveStyle.Render(s.State.String()))
	sb.WriteString("\n\n")
	sb.WriteString(m.Progress.ViewAs(s.Remaining()))
	return sb.String()
}

func (m *Model) runsView() string {
	if len(m.Runs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render("Recent Runs"))
	for _, r := range m.Runs {
		sb.WriteString("\n")
		sb.WriteString(m.formatRunEntry(r))
	}
	if len(m.Stats) > 0 {
		totals := make([]string, 0, len(m.Stats))
		for _, st := range m.Stats {
			totals = append(totals, fmt.Sprintf("%s %d (%s)", st.Outcome, st.Count, formatDuration(time.Duration(st.Seconds)*time.Second)))
		}
		sb.WriteString("\n\n")
		sb.WriteString(logTimeStyle.Render(strings.Join(totals, " · ")))
	}
	return sb.String()
}

func (m *Model) formatRunEntry(r history.Run) string {
	timeStr := logTimeStyle.Render(r.EndedAt.Local().Format("Jan 02 15:04"))
	set := countdown.Format(r.Duration)
	took := formatDuration(r.Elapsed())
	outcome := logTagStyle.Render("[" + string(r.Outcome) + "]")
	return fmt.Sprintf("  %s  %s in %s %s", timeStr, set, took, outcome)
}
