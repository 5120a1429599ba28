// Package mpv implements engine.Engine by driving an mpv process over its JSON-IPC protocol.
package mpv

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/epcltv/epcltv/constant"
	"github.com/epcltv/epcltv/engine"
	"github.com/epcltv/epcltv/log"
)

const (
	socketWaitDelay = 300 * time.Millisecond
	quitTimeout     = 3 * time.Second
)

var (
	// ErrNotStarted is returned by commands issued before Start.
	ErrNotStarted = errors.New("mpv is not started")

	// ErrUnsafeLocator is returned by Load for locators mpv must not be handed.
	ErrUnsafeLocator = errors.New("unsafe media locator")
)

var allowedSchemes = []string{"http", "https", "rtsp", "rtmp", "udp", "file"}

// Options configures the mpv process.
type Options struct {
	// Binary is the mpv executable, looked up in PATH when not absolute.
	Binary string
	// Args are appended to the command line after the IPC flags.
	Args []string
	// SocketDir holds the IPC socket.
	SocketDir string
	// SocketWaitRetries bounds how long Start waits for the IPC socket.
	SocketWaitRetries int
	// EventBuffer is the capacity of the event channel.
	EventBuffer int
}

var _ engine.Engine = (*MPV)(nil)

// MPV is an engine backed by an idle mpv process.
type MPV struct {
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	dial       func(path string) (net.Conn, error)

	mu        sync.Mutex // serializes IPC commands
	requestID atomic.Int64

	events     chan engine.Event
	listener   *listener
	translator translator
	closeOnce  sync.Once

	playing  atomic.Bool
	released atomic.Bool
}

// New creates an mpv engine. The process is not launched until Start.
func New(opts Options) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.SocketWaitRetries <= 0 {
		opts.SocketWaitRetries = 10
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}
	if opts.SocketDir == "" {
		opts.SocketDir = os.TempDir()
	}

	return &MPV{
		opts:   opts,
		exited: make(chan struct{}),
		events: make(chan engine.Event, opts.EventBuffer),
		dial:   dialUnix,
	}
}

// Start launches mpv in idle mode and connects the event listener.
func (m *MPV) Start(ctx context.Context) error {
	if m.released.Load() {
		return engine.ErrReleased
	}
	if m.cmd != nil {
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(m.opts.SocketDir, fmt.Sprintf("%s-%x.sock", constant.App, randomBytes))

	m.cmd = exec.Command(m.opts.Binary, m.args()...)

	// Detach from the parent process group so terminal signals do not reach mpv.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		m.cmd = nil
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warn("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	if err := m.listen(); err != nil {
		_ = killProcess(m.cmd)
		return err
	}

	log.Infof("mpv started with pid %d on %s", m.cmd.Process.Pid, m.socketPath)
	return nil
}

func (m *MPV) args() []string {
	args := []string{
		"--idle=yes",
		"--no-terminal",
		"--really-quiet",
		"--keep-open=no",
		"--input-ipc-server=" + m.socketPath,
	}
	return append(args, m.opts.Args...)
}

// waitForSocket polls until the IPC socket is accepting connections.
func (m *MPV) waitForSocket(ctx context.Context) error {
	for i := 0; i < m.opts.SocketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := m.dial(m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, m.opts.SocketWaitRetries)
}

// listen opens the persistent event connection.
func (m *MPV) listen() error {
	conn, err := m.dial(m.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	l, err := startListener(conn, m.events, m.translate)
	if err != nil {
		_ = conn.Close()
		return err
	}
	m.listener = l
	return nil
}

// translate runs on the listener goroutine and tracks the transport state.
func (m *MPV) translate(msg ipcMessage) []engine.Event {
	events := m.translator.translate(msg)
	for _, ev := range events {
		switch ev.(type) {
		case engine.Playing:
			m.playing.Store(true)
		case engine.Paused, engine.Stopped, engine.EndReached, engine.Error:
			m.playing.Store(false)
		}
	}
	return events
}

func (m *MPV) command(command ...any) (any, error) {
	if m.released.Load() {
		return nil, engine.ErrReleased
	}
	return m.sendCommand(command...)
}

func (m *MPV) set(property string, value any) error {
	_, err := m.command("set_property", property, value)
	return err
}

// Load replaces the current media. The file is opened paused.
func (m *MPV) Load(locator string) error {
	target, err := sanitizeLocator(locator)
	if err != nil {
		return err
	}
	if err := m.set("pause", true); err != nil {
		return err
	}
	m.playing.Store(false)

	_, err = m.command("loadfile", target, "replace")
	return err
}

func (m *MPV) Unload() error {
	_, err := m.command("playlist-clear")
	return err
}

func (m *MPV) Play() error {
	if err := m.set("pause", false); err != nil {
		return err
	}
	m.playing.Store(true)
	return nil
}

func (m *MPV) Pause() error {
	if err := m.set("pause", true); err != nil {
		return err
	}
	m.playing.Store(false)
	return nil
}

func (m *MPV) Stop() error {
	_, err := m.command("stop")
	m.playing.Store(false)
	return err
}

func (m *MPV) SetTime(ms int64) error {
	_, err := m.command("seek", float64(ms)/1000, "absolute")
	return err
}

func (m *MPV) IsPlaying() bool {
	return m.playing.Load()
}

// AttachVideo embeds mpv's video output into the native window v.Handle.
func (m *MPV) AttachVideo(v engine.Video) error {
	if err := m.set("wid", int64(v.Handle)); err != nil {
		return err
	}
	if v.Width > 0 && v.Height > 0 {
		if err := m.set("geometry", fmt.Sprintf("%dx%d", v.Width, v.Height)); err != nil {
			return err
		}
	}
	return m.set("vid", "auto")
}

// DetachVideo disables the video track so nothing is drawn.
func (m *MPV) DetachVideo() error {
	return m.set("vid", "no")
}

func (m *MPV) Events() <-chan engine.Event {
	return m.events
}

// Exited is closed when the mpv process exits.
func (m *MPV) Exited() <-chan struct{} {
	return m.exited
}

// Release asks mpv to quit, kills it if it does not, and closes the event stream.
func (m *MPV) Release() error {
	if !m.released.CompareAndSwap(false, true) {
		return nil
	}

	if m.cmd != nil {
		if _, err := m.sendCommand("quit"); err != nil {
			log.Debugf("mpv quit: %v", err)
		}

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(m.cmd)
		}

		_ = os.Remove(m.socketPath)
	}

	m.closeOnce.Do(func() {
		if m.listener != nil {
			m.listener.Stop()
			return
		}
		close(m.events)
	})

	log.Info("mpv released")
	return nil
}

// sanitizeLocator validates that a locator is safe to pass to mpv.
func sanitizeLocator(locator string) (string, error) {
	l := strings.TrimSpace(locator)
	if l == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafeLocator)
	}

	if strings.IndexFunc(l, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: control characters", ErrUnsafeLocator)
	}

	// mpv would parse it as an option
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("%w: must not start with '-'", ErrUnsafeLocator)
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnsafeLocator, err)
		}
		scheme := strings.ToLower(u.Scheme)
		for _, allowed := range allowedSchemes {
			if scheme == allowed {
				return l, nil
			}
		}
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrUnsafeLocator, u.Scheme)
	}

	return filepath.Clean(l), nil
}
