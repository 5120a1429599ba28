// Package tui is a terminal playback host: it shows the adapter's state with a
// progress bar and maps keys to transport controls.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/epcltv/epcltv/adapter"
	"github.com/epcltv/epcltv/style"
)

const (
	seekStep   = int64(10_000)
	bridgeSize = 256
)

// Options configures the terminal host.
type Options struct {
	// Locator is shown in the title.
	Locator string
	// ProgressWidth is the widest the progress bar gets.
	ProgressWidth int
}

// Model is the bubbletea model of the playback screen.
type Model struct {
	adapter *adapter.Adapter
	options Options
	bridge  *bridge
	keymap  *keymap

	progressC progress.Model
	helpC     help.Model
	notifier  notifier

	buffering bool
	completed bool
	lastError string
	width     int
}

// New creates the playback screen for a. Install Callback on the adapter
// before the source is set so no notification is missed.
func New(a *adapter.Adapter, options Options) *Model {
	if options.ProgressWidth <= 0 {
		options.ProgressWidth = 40
	}

	return &Model{
		adapter: a,
		options: options,
		bridge:  newBridge(bridgeSize),
		keymap:  newKeymap(),
		progressC: progress.New(
			progress.WithGradient(style.ProgressStart, style.ProgressEnd),
			progress.WithWidth(options.ProgressWidth),
			progress.WithoutPercentage(),
		),
		helpC:     help.New(),
		buffering: true,
	}
}

// Callback is the adapter.Callback feeding this screen.
func (m *Model) Callback() adapter.Callback {
	return m.bridge
}

// Completed reports whether playback reached the end.
func (m *Model) Completed() bool {
	return m.completed
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.wait(), waitEngine(m.adapter.Done()))
}

func waitEngine(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return engineGoneMsg{}
	}
}

// Run shows the screen until the user quits, playback completes or the engine goes away.
func Run(m *Model) error {
	defer m.bridge.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
