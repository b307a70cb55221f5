// Package tui is the optional interactive dashboard for cmd/gatectl's
// --ui=tui mode: a read-only view of the gate controller's retained
// status snapshot, repainted whenever the bus delivers a new one.
// Grounded on the newhook-6502 monitor's bubbletea/lipgloss structure
// (poll/tick -> Update -> View), adapted from a CPU-register dashboard
// to a gate-status one.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/srmuseum/gatekeeper/bus"
	"github.com/srmuseum/gatekeeper/internal/duty"
	"github.com/srmuseum/gatekeeper/internal/gate"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	alert     = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(46)

	alertStyle = lipgloss.NewStyle().Foreground(alert).Bold(true)
)

// statusMsg wraps one gate.Status delivered over the bus.
type statusMsg gate.Status

// Model is the bubbletea model. It holds no domain logic, only the last
// snapshot received.
type Model struct {
	conn *bus.Connection
	sub  *bus.Subscription
	last gate.Status
	have bool
	duty progress.Model
}

// New builds a Model subscribed to gate.TopicStatus on conn.
func New(conn *bus.Connection) Model {
	return Model{
		conn: conn,
		sub:  conn.Subscribe(gate.TopicStatus),
		duty: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForStatus()
}

// waitForStatus blocks on the subscription channel; bubbletea reissues it
// after every message so the dashboard keeps repainting as long as the
// controller keeps publishing.
func (m Model) waitForStatus() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		msg := <-sub.Channel()
		if msg == nil {
			return nil
		}
		st, ok := msg.Payload.(gate.Status)
		if !ok {
			return nil
		}
		return statusMsg(st)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case statusMsg:
		m.last = gate.Status(msg)
		m.have = true
		fillCmd := m.duty.SetPercent(dutyFraction(gate.Status(msg)))
		return m, tea.Batch(m.waitForStatus(), fillCmd)
	case progress.FrameMsg:
		updated, cmd := m.duty.Update(msg)
		m.duty = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// dutyFraction maps the accumulated motor-on time onto [0,1] against the
// duty-cycle ceiling, for the progress bar's fill.
func dutyFraction(st gate.Status) float64 {
	f := float64(st.Accumulated) / float64(duty.Limit)
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	return f
}

func (m Model) View() string {
	if !m.have {
		return titleStyle.Render("Level Crossing Gate") + "\n\nwaiting for first status snapshot...\n"
	}

	st := m.last
	lines := []string{
		fmt.Sprintf("Position:    %s", st.Position),
		fmt.Sprintf("Track:       %s", st.TrackState),
		fmt.Sprintf("Phase:       %s", st.Movement),
		fmt.Sprintf("Blinkers:    %v", st.BlinkersLive),
		fmt.Sprintf("Motor duty:  %s  %s", st.Accumulated.Round(time.Millisecond), m.duty.View()),
	}
	if st.DutyExceeded {
		lines = append(lines, alertStyle.Render("DUTY CYCLE LIMIT EXCEEDED"))
	}
	if st.Movement == gate.DownHold {
		lines = append(lines, fmt.Sprintf("Hold remaining: %s", st.HoldRemaining.Round(time.Millisecond)))
	}

	body := ""
	for _, l := range lines {
		body += l + "\n"
	}

	return titleStyle.Render("Level Crossing Gate") + "\n\n" +
		panelStyle.Render(body) + "\n\npress q to quit\n"
}
