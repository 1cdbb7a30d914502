package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cjeanneret/TrapGo/internal/config"
	"github.com/cjeanneret/TrapGo/internal/logic/trap"
)

// eventMsg wraps a trap event for the update loop.
type eventMsg struct {
	evt trap.Event
}

// eventsClosedMsg reports the event subscription ended.
type eventsClosedMsg struct{}

// tickMsg refreshes relative timestamps once a second.
type tickMsg time.Time

// Model is the interactive dashboard around a trap.Model.
type Model struct {
	trap   *trap.Model
	events <-chan trap.Event
	unsub  func()

	mode     trap.Mode
	interval float64
	workDir  string

	lastImage string
	lastShot  time.Time
	lastErr   string
	captures  int
	notice    string
	now       time.Time

	editing bool
	input   textinput.Model

	width    int
	quitting bool
}

// New builds the dashboard and subscribes to the model's events.
func New(t *trap.Model) Model {
	ch, unsub := t.Subscribe()

	ti := textinput.New()
	ti.Placeholder = "seconds"
	ti.CharLimit = 8
	ti.Width = 10

	s := t.Settings()
	return Model{
		trap:     t,
		events:   ch,
		unsub:    unsub,
		mode:     t.Mode(),
		interval: s.Interval,
		workDir:  s.WorkDir,
		now:      time.Now(),
		input:    ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listen(m.events), tick())
}

func listen(ch <-chan trap.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{evt: evt}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case eventsClosedMsg:
		return m, nil

	case eventMsg:
		m.applyEvent(msg.evt)
		return m, listen(m.events)

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.unsub()
		return m, tea.Quit

	case "p":
		if m.mode == trap.ModePreview {
			m.trap.StopPreview()
		} else if path, err := m.trap.StartPreview(); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = "preview at " + path
		}
		return m, nil

	case "r":
		if m.mode == trap.ModeRecording {
			m.trap.StopRecording()
		} else if path, err := m.trap.StartRecording(); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = "first capture " + path
		}
		return m, nil

	case "+", "=":
		m.adjustInterval(1)
		return m, nil

	case "-", "_":
		m.adjustInterval(-1)
		return m, nil

	case "i":
		m.editing = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.input.Blur()
		m.submitInterval(strings.TrimSpace(m.input.Value()))
		return m, nil

	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) applyEvent(evt trap.Event) {
	switch e := evt.(type) {
	case trap.ModeChanged:
		m.mode = e.To
	case trap.ImageCaptured:
		m.lastImage = e.Path
		m.lastShot = e.Taken
		if e.Mode == trap.ModeRecording {
			m.captures++
		}
	case trap.CaptureFailed:
		m.lastErr = e.Err.Error()
	case trap.DiskFull:
		m.lastErr = fmt.Sprintf("disk full: %s free, %s required",
			formatBytes(e.Free), formatBytes(e.Need))
	}
}

func (m *Model) adjustInterval(delta float64) {
	before := m.trap.Interval()
	m.trap.SetInterval(before + delta)
	m.interval = m.trap.Interval()
	if m.interval == before {
		m.notice = fmt.Sprintf("interval stays %gs, valid range is %g-%gs",
			before, config.MinInterval, config.MaxInterval)
	} else {
		m.notice = fmt.Sprintf("interval set to %gs", m.interval)
	}
}

func (m *Model) submitInterval(raw string) {
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.notice = fmt.Sprintf("not a number: %q", raw)
		return
	}
	before := m.trap.Interval()
	m.trap.SetInterval(seconds)
	m.interval = m.trap.Interval()
	if m.interval == before && seconds != before {
		m.notice = fmt.Sprintf("interval %g out of range, keeping %gs", seconds, before)
	} else {
		m.notice = fmt.Sprintf("interval set to %gs", m.interval)
	}
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for rest := n / unit; rest >= unit; rest /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
