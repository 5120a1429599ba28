package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/epcltv/epcltv/adapter"
)

type (
	// refreshMsg asks for a redraw; the view reads the adapter's state directly.
	refreshMsg    struct{}
	bufferingMsg  bool
	completedMsg  struct{}
	engineGoneMsg struct{}
	errorMsg      struct {
		code    int
		message string
	}
)

// bridge forwards adapter notifications into the bubbletea program. It never
// blocks the adapter: redraw requests are dropped while the queue is full.
type bridge struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func newBridge(size int) *bridge {
	return &bridge{ch: make(chan tea.Msg, size), done: make(chan struct{})}
}

// close unblocks pending sends once the program no longer reads.
func (b *bridge) close() {
	b.once.Do(func() { close(b.done) })
}

// wait delivers the next notification.
func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg { return <-b.ch }
}

func (b *bridge) offer(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

// send delivers a notification that must not be lost.
func (b *bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

func (b *bridge) OnPreparedStateChanged(*adapter.Adapter)    { b.offer(refreshMsg{}) }
func (b *bridge) OnPlayStateChanged(*adapter.Adapter)        { b.offer(refreshMsg{}) }
func (b *bridge) OnBufferedPositionChanged(*adapter.Adapter) { b.offer(refreshMsg{}) }
func (b *bridge) OnCurrentPositionChanged(*adapter.Adapter)  { b.offer(refreshMsg{}) }
func (b *bridge) OnDurationChanged(*adapter.Adapter)         { b.offer(refreshMsg{}) }
func (b *bridge) OnMetadataChanged(*adapter.Adapter)         { b.offer(refreshMsg{}) }

func (b *bridge) OnBufferingStateChanged(_ *adapter.Adapter, buffering bool) {
	b.offer(bufferingMsg(buffering))
}

func (b *bridge) OnPlayCompleted(*adapter.Adapter) { b.send(completedMsg{}) }

func (b *bridge) OnError(_ *adapter.Adapter, code int, message string) {
	b.send(errorMsg{code: code, message: message})
}
