// Package progress renders a live terminal view of a running render job.
// It consumes generator snapshots over a channel; dropping the UI entirely
// (quiet mode) just means nobody reads the channel.
package progress

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ringfall/internal/generator"
)

const rateHistory = 120

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	barDone     = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	barRest     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type snapMsg generator.Snapshot

type doneMsg struct{}

// Model is the bubbletea model for the render progress view.
type Model struct {
	snaps <-chan generator.Snapshot
	last  generator.Snapshot
	rates []float64
	start time.Time
	done  bool
}

func NewModel(snaps <-chan generator.Snapshot) Model {
	return Model{
		snaps: snaps,
		rates: make([]float64, 0, rateHistory),
		start: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.snaps
		if !ok {
			return doneMsg{}
		}
		return snapMsg(s)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case snapMsg:
		m.last = generator.Snapshot(msg)
		m.rates = append(m.rates, m.last.EventRate)
		if len(m.rates) > rateHistory {
			m.rates = m.rates[1:]
		}
		return m, m.wait()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("ringfall render"))
	b.WriteString("\n")

	s := m.last
	pct := 0.0
	if s.Total > 0 {
		pct = float64(s.Frame) / float64(s.Total)
	}
	b.WriteString(progressBar(pct, 40))
	b.WriteString(fmt.Sprintf(" %3.0f%%\n\n", pct*100))

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("frame", fmt.Sprintf("%d / %d", s.Frame, s.Total))
	row("sim time", fmt.Sprintf("%.2fs", s.Time))
	row("elapsed", time.Since(m.start).Truncate(time.Second).String())
	row("queued", fmt.Sprintf("%d", s.Stats.Produced-s.Stats.Forwarded-s.Stats.Dropped))
	if s.Stats.Dropped > 0 {
		b.WriteString(labelStyle.Render("dropped"))
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d", s.Stats.Dropped)))
		b.WriteString("\n")
	}

	if len(m.rates) > 1 {
		chart := asciigraph.Plot(m.rates,
			asciigraph.Height(4), asciigraph.Width(40),
			asciigraph.Caption("events/s"))
		b.WriteString(graphStyle.Render(chart))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q: quit view (render continues)"))
	return b.String()
}

func progressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	return barDone.Render(strings.Repeat("█", filled)) +
		barRest.Render(strings.Repeat("░", width-filled))
}
