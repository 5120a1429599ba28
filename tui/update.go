package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/epcltv/epcltv/util"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := m.notifier.Update(msg); cmd != nil {
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case refreshMsg:
		return m, m.bridge.wait()
	case bufferingMsg:
		m.buffering = bool(msg)
		return m, m.bridge.wait()
	case errorMsg:
		m.lastError = fmt.Sprintf("error %d: %s", msg.code, msg.message)
		return m, m.bridge.wait()
	case completedMsg:
		m.completed = true
		return m, tea.Quit
	case engineGoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) resize(width int) {
	m.width = width
	m.progressC.Width = util.Clamp(width-4, 10, m.options.ProgressWidth)
	m.helpC.Width = width
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.playPause):
		if m.adapter.IsPlaying() {
			m.adapter.Pause()
		} else {
			m.adapter.Play()
		}
	case key.Matches(msg, m.keymap.forward):
		return m.seekBy(seekStep)
	case key.Matches(msg, m.keymap.backward):
		return m.seekBy(-seekStep)
	case key.Matches(msg, m.keymap.showHelp):
		m.helpC.ShowAll = !m.helpC.ShowAll
	}
	return nil
}

func (m *Model) seekBy(delta int64) tea.Cmd {
	if !m.adapter.IsPrepared() || !m.adapter.IsSeekable() {
		return notify("not seekable")
	}

	target := util.Max(m.adapter.CurrentPosition(), 0) + delta
	if duration := m.adapter.Duration(); duration > 0 {
		target = util.Clamp(target, 0, duration)
	} else {
		target = util.Max(target, 0)
	}

	m.adapter.SeekTo(target)
	return notify("seek to " + util.FormatMillis(target))
}
