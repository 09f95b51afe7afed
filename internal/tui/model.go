package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"xorbatch/internal/processor"
)

// historySize is how many log lines the view keeps on screen.
const historySize = 8

type Model struct {
	events  <-chan processor.Event
	stop    func()
	title   string
	started time.Time
	width   int

	state       processor.State
	status      string
	percent     int
	file        string
	filePercent int
	runs        int
	stopping    bool
	quitting    bool

	history *History
}

type doneMsg struct{}

type eventMsg processor.Event

// NewModel returns a view that folds events into a progress display. stop is
// called when the user presses q or ctrl+c; the view keeps running until the
// event channel is closed.
func NewModel(title string, events <-chan processor.Event, stop func()) Model {
	return Model{
		events:  events,
		stop:    stop,
		title:   title,
		started: time.Now(),
		history: &History{},
	}
}

// History returns everything the view recorded.
func (m Model) History() *History {
	return m.history
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m = m.apply(processor.Event(msg))
		return m, listenForEvents(m.events)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.stopping {
				m.stopping = true
				m.status = "stopping..."
				if m.stop != nil {
					m.stop()
				}
			}
		}
		return m, nil
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) apply(ev processor.Event) Model {
	m.history.Record(ev)

	switch ev.Kind {
	case processor.EventState:
		m.state = ev.State
		if ev.State == processor.StateScanning {
			m.runs++
			m.percent = 0
			m.file = ""
		}
	case processor.EventStatus:
		if !m.stopping {
			m.status = ev.Message
		}
	case processor.EventProgress:
		m.percent = ev.Percent
		m.file = ""
	case processor.EventFileProgress:
		m.file = filepath.Base(ev.Path)
		m.filePercent = ev.Percent
	case processor.EventFinished:
		m.state = ev.Result.State
		m.file = ""
	}
	return m
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	elapsed := time.Since(m.started).Round(time.Second)

	lines := []string{
		titleStyle.Render(m.title),
		labelStyle.Render(fmt.Sprintf("State: %s", m.state)) + dimStyle.Render(fmt.Sprintf("  runs:%d  errors:%d", m.runs, len(m.history.Errors))),
		labelStyle.Render(m.status),
		barStyle.Render(renderBar(barWidth, float64(m.percent)/100)) + labelStyle.Render(fmt.Sprintf(" %3d%%", m.percent)),
	}
	if m.file != "" {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s %3d%%", m.file, m.filePercent)))
	}

	for _, line := range m.history.Tail(historySize) {
		style := dimStyle
		if strings.HasPrefix(line.Text, errorPrefix) {
			style = errorStyle
		}
		lines = append(lines, style.Render(line.String()))
	}

	lines = append(lines, dimStyle.Render(fmt.Sprintf("Elapsed: %s  (q to stop)", elapsed)))
	return strings.Join(lines, "\n")
}

func listenForEvents(events <-chan processor.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError)
)
