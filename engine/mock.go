package engine

import (
	"fmt"
	"sync"
)

// Mock is a scriptable test double for Engine. It records every command and
// delivers events pushed with Emit.
type Mock struct {
	mu       sync.Mutex
	calls    []string
	playing  bool
	loaded   string
	video    *Video
	loadErr  error
	released bool

	events chan Event
}

// NewMock creates a mock engine with a buffered event stream.
func NewMock() *Mock {
	return &Mock{events: make(chan Event, 64)}
}

func (m *Mock) record(format string, args ...any) error {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
	if m.released {
		return ErrReleased
	}
	return nil
}

func (m *Mock) Load(locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("load %s", locator); err != nil {
		return err
	}
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = locator
	return nil
}

func (m *Mock) Unload() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = ""
	m.playing = false
	return m.record("unload")
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("play"); err != nil {
		return err
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("pause"); err != nil {
		return err
	}
	m.playing = false
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	return m.record("stop")
}

func (m *Mock) SetTime(ms int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record("time %d", ms)
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) AttachVideo(v Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.video = &v
	return m.record("attach %d %dx%d", v.Handle, v.Width, v.Height)
}

func (m *Mock) DetachVideo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.video = nil
	return m.record("detach")
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "release")
	if m.released {
		return nil
	}
	m.released = true
	close(m.events)
	return nil
}

// Test helpers

// Emit delivers an event as if the engine produced it. Events emitted after
// Release are dropped.
func (m *Mock) Emit(events ...Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	for _, e := range events {
		m.events <- e
	}
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPlaying(playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = playing
}

// Calls returns a copy of the recorded commands.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ResetCalls forgets the recorded commands.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *Mock) Loaded() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *Mock) Video() *Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.video
}

func (m *Mock) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
