package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/epcltv/epcltv/style"
)

const notificationLifetime = 3 * time.Second

// notifyMsg shows a transient message next to the status line.
type notifyMsg string

type clearNotificationMsg struct {
	id int
}

// notifier holds the current transient message. Each notification schedules
// its own clear, and a newer one outlives the clears of older ones.
type notifier struct {
	text string
	id   int
}

func notify(text string) tea.Cmd {
	return func() tea.Msg { return notifyMsg(text) }
}

func (n *notifier) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notifyMsg:
		n.id++
		n.text = string(msg)
		id := n.id
		return tea.Tick(notificationLifetime, func(time.Time) tea.Msg {
			return clearNotificationMsg{id: id}
		})
	case clearNotificationMsg:
		if msg.id == n.id {
			n.text = ""
		}
	}
	return nil
}

// View appends the notification to line.
func (n *notifier) View(line string) string {
	if n.text == "" {
		return line
	}
	return line + "  " + style.Faint(n.text)
}
