package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/epcltv/epcltv/color"
	"github.com/epcltv/epcltv/constant"
	"github.com/epcltv/epcltv/icon"
	"github.com/epcltv/epcltv/style"
	"github.com/epcltv/epcltv/util"
	"github.com/muesli/reflow/truncate"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTitle())
	b.WriteString("\n\n")
	b.WriteString(m.notifier.View(m.viewStatus()))
	b.WriteString("\n\n")
	b.WriteString(m.viewProgress())
	b.WriteString("\n")

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(style.ErrorTitle("error") + " " + style.Fg(color.Red)(m.lastError))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpC.View(m.keymap))

	return paddingStyle.Render(b.String())
}

func (m *Model) viewTitle() string {
	title := style.Title(constant.App)
	width := m.width - lipgloss.Width(title) - 6
	if width <= 0 {
		width = 60
	}
	return title + " " + truncate.StringWithTail(m.options.Locator, uint(width), "…")
}

func (m *Model) viewStatus() string {
	switch {
	case m.completed:
		return icon.Get(icon.Done) + " " + style.Fg(color.Green)("Completed")
	case !m.adapter.IsPrepared():
		return icon.Get(icon.Buffering) + " " + style.Faint("Preparing")
	case m.buffering:
		return icon.Get(icon.Buffering) + " " + style.Fg(color.Yellow)("Buffering")
	case m.adapter.IsPlaying():
		return icon.Get(icon.Play) + " " + style.Bold("Playing")
	default:
		return icon.Get(icon.Pause) + " " + style.Italic("Paused")
	}
}

func (m *Model) viewProgress() string {
	position, duration := m.adapter.CurrentPosition(), m.adapter.Duration()

	var percent, buffered float64
	if duration > 0 {
		percent = util.Clamp(float64(position)/float64(duration), 0, 1)
		buffered = util.Clamp(float64(m.adapter.BufferedPosition())/float64(duration), 0, 1)
	}

	return fmt.Sprintf(
		"%s %s / %s %s",
		m.progressC.ViewAs(percent),
		util.FormatMillis(position),
		util.FormatMillis(duration),
		style.Faint(fmt.Sprintf("buffered %.0f%%", buffered*100)),
	)
}
