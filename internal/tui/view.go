package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/cjeanneret/TrapGo/internal/logic/trap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	idleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	previewStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	recordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("TrapGo") + " " + m.modeBadge() + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("interval", fmt.Sprintf("%gs", m.interval))
	row("work dir", m.workDir)
	if m.lastImage != "" {
		row("last image", fmt.Sprintf("%s (%s)", m.lastImage, m.shotAge()))
	}
	if m.captures > 0 {
		row("captured", strconv.Itoa(m.captures))
	}

	if m.editing {
		b.WriteString("\nnew interval: " + m.input.View() + "\n")
	}
	if m.lastErr != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+m.lastErr) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("p preview · r record · +/- interval · i set interval · q quit"))

	out := b.String()
	if m.width > 0 {
		lines := strings.Split(out, "\n")
		for i, line := range lines {
			lines[i] = ansi.Truncate(line, m.width, "…")
		}
		out = strings.Join(lines, "\n")
	}
	return out
}

func (m Model) modeBadge() string {
	switch m.mode {
	case trap.ModePreview:
		return previewStyle.Render("PREVIEW")
	case trap.ModeRecording:
		return recordStyle.Render("RECORDING")
	default:
		return idleStyle.Render("IDLE")
	}
}

func (m Model) shotAge() string {
	age := m.now.Sub(m.lastShot).Round(time.Second)
	if age < 0 {
		age = 0
	}
	return fmt.Sprintf("%s ago", age)
}
