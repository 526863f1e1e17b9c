// Package tui provides terminal user interface components for outpost-ctl
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-outpost/internal/health"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	readyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	degradedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	unreachableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// statusGlyph returns the rendered indicator for a service status.
func statusGlyph(status health.ServiceStatus) string {
	switch status {
	case health.StatusReady:
		return readyStyle.Render("✓")
	case health.StatusDegraded:
		return degradedStyle.Render("⚠")
	case health.StatusUnreachable:
		return unreachableStyle.Render("✗")
	default:
		return dimStyle.Render("○")
	}
}

// transitionMsg carries a per-service state change out of a running battery.
type transitionMsg struct {
	service string
	status  health.ServiceStatus
}

// summaryMsg carries a completed battery run.
type summaryMsg struct {
	summary *health.Summary
}

// rerunMsg fires when the next battery pass is due.
type rerunMsg struct{}

// Watch is the bubbletea model for live convergence status.
type Watch struct {
	checker  *health.Checker
	target   string
	address  string
	interval time.Duration

	spinner     spinner.Model
	statuses    map[string]health.ServiceStatus
	messages    map[string]string
	transitions chan transitionMsg
	lastSummary *health.Summary
	lastRun     time.Time
	runs        int
	quitting    bool
}

// NewWatch creates a watch model. The checker is re-run against address
// every interval; live per-service transitions are fed through an observer
// the model installs itself.
func NewWatch(checker *health.Checker, target, address string, interval time.Duration) *Watch {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	w := &Watch{
		checker:     checker,
		target:      target,
		address:     address,
		interval:    interval,
		spinner:     s,
		statuses:    make(map[string]health.ServiceStatus),
		messages:    make(map[string]string),
		transitions: make(chan transitionMsg, 16),
	}
	for _, service := range health.ServiceOrder {
		w.statuses[service] = health.StatusNotChecked
	}
	return w
}

// Observer returns the callback to install on the Checker so the model
// sees transitions as they happen.
func (w *Watch) Observer() health.Observer {
	return func(service string, status health.ServiceStatus) {
		select {
		case w.transitions <- transitionMsg{service: service, status: status}:
		default:
		}
	}
}

// runBattery executes one battery pass off the UI goroutine.
func (w *Watch) runBattery() tea.Cmd {
	return func() tea.Msg {
		return summaryMsg{summary: w.checker.Run(context.Background(), w.address)}
	}
}

// listenTransitions waits for the next per-service state change.
func (w *Watch) listenTransitions() tea.Cmd {
	return func() tea.Msg {
		return <-w.transitions
	}
}

func (w *Watch) scheduleRerun() tea.Cmd {
	return tea.Tick(w.interval, func(time.Time) tea.Msg {
		return rerunMsg{}
	})
}

func (w *Watch) Init() tea.Cmd {
	return tea.Batch(w.spinner.Tick, w.runBattery(), w.listenTransitions())
}

func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			w.quitting = true
			return w, tea.Quit
		}

	case transitionMsg:
		w.statuses[msg.service] = msg.status
		return w, w.listenTransitions()

	case summaryMsg:
		w.lastSummary = msg.summary
		w.lastRun = time.Now()
		w.runs++
		for _, r := range msg.summary.Reports {
			w.statuses[r.Service] = r.Status
			w.messages[r.Service] = r.Message
		}
		return w, w.scheduleRerun()

	case rerunMsg:
		return w, w.runBattery()

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	return w, nil
}

func (w *Watch) View() string {
	if w.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Outpost - %s (%s)", w.target, w.address)))
	b.WriteString("\n")

	for _, service := range health.ServiceOrder {
		status := w.statuses[service]
		indicator := statusGlyph(status)
		if status == health.StatusChecking {
			indicator = w.spinner.View()
		}

		line := fmt.Sprintf("%s %-10s %s", indicator, service, status)
		if msg := w.messages[service]; msg != "" && status != health.StatusChecking {
			line += dimStyle.Render("  " + msg)
		}
		b.WriteString(line + "\n")
	}

	if w.lastSummary != nil {
		b.WriteString("\n")
		if w.lastSummary.Converged() {
			b.WriteString(readyStyle.Render("converged"))
		} else {
			b.WriteString(degradedStyle.Render("not converged"))
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("  run %d at %s",
			w.runs, w.lastRun.Format("15:04:05"))))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("[q] Quit  rechecking every %s", w.interval)))
	return b.String()
}

// Summary returns the most recent battery result.
func (w *Watch) Summary() *health.Summary {
	return w.lastSummary
}

// RunWatch runs the live status view until the user quits, returning the
// last completed summary.
func RunWatch(w *Watch) (*health.Summary, error) {
	p := tea.NewProgram(w, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(*Watch).Summary(), nil
}
