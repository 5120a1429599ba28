// Package adapter binds an external media engine to a playback UI host.
//
// The Adapter owns one engine handle. It turns the engine's event stream into
// Callback notifications and keeps the surface and prepared-state bookkeeping a
// TV playback host expects: attach to host, set a media source, bind a surface
// once it exists, play, then detach and release.
//
// Commands are issued from a single owner goroutine. Engine events are drained
// by an internal goroutine. Mutable state is guarded by a mutex and
// notifications are dispatched after it is released, so callbacks may read the
// adapter's accessors or issue commands.
package adapter

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/epcltv/epcltv/engine"
	"github.com/epcltv/epcltv/log"
	"github.com/samber/mo"
)

// SupportedActions is the action set this adapter implements.
const SupportedActions = ActionPlayPause | ActionRewind | ActionFastForward

// Adapter is a playback state machine over an engine.Engine. Create it with New;
// after Release it must not be reused.
type Adapter struct {
	engine engine.Engine

	mu          sync.Mutex
	callback    Callback
	surfaceHost SurfaceHost
	mediaSource mo.Option[string]
	mediaLoaded bool
	initialized bool
	hasDisplay  bool
	buffering   bool
	duration    int64
	position    int64
	buffered    int64
	seekable    bool

	// surfaceMu serializes surface attach and detach, which both mutate
	// hasDisplay and the engine's output binding.
	surfaceMu sync.Mutex

	released atomic.Bool
	done     chan struct{}
	pumped   chan struct{}
}

// New returns an adapter owning eng. The adapter releases eng on Release.
func New(eng engine.Engine) *Adapter {
	a := &Adapter{
		engine:   eng,
		callback: NopCallback{},
		duration: -1,
		position: -1,
		done:     make(chan struct{}),
		pumped:   make(chan struct{}),
	}
	go a.pump()
	return a
}

// SetCallback installs the host's notification receiver. nil restores a no-op receiver.
func (a *Adapter) SetCallback(cb Callback) {
	if cb == nil {
		cb = NopCallback{}
	}
	a.mu.Lock()
	a.callback = cb
	a.mu.Unlock()
}

// AttachToHost registers the adapter's surface callback when host owns a surface.
// The host is referenced, not owned.
func (a *Adapter) AttachToHost(host any) {
	sh, ok := host.(SurfaceHost)
	if !ok {
		return
	}
	a.mu.Lock()
	a.surfaceHost = sh
	a.mu.Unlock()
	sh.SetSurfaceCallback(surfaceCallback{a: a})
}

// DetachFromHost unregisters the surface callback, resets and releases the adapter.
func (a *Adapter) DetachFromHost() {
	a.mu.Lock()
	sh := a.surfaceHost
	a.surfaceHost = nil
	a.mu.Unlock()

	if sh != nil {
		sh.SetSurfaceCallback(nil)
	}
	a.Reset()
	a.Release()
}

// SetMediaSource installs the media for locator. It returns false without side
// effects when locator is already the active source, including both being empty.
// An empty locator unloads the current media. A locator the engine cannot open
// yields an error wrapping ErrInvalidSource.
func (a *Adapter) SetMediaSource(locator string) (bool, error) {
	if a.released.Load() {
		return false, engine.ErrReleased
	}

	a.mu.Lock()
	if a.mediaSource.OrEmpty() == locator {
		a.mu.Unlock()
		return false, nil
	}
	a.mediaSource = mo.EmptyableToOption(locator)
	a.mu.Unlock()

	a.Reset()
	if locator == "" {
		return true, nil
	}

	if err := a.engine.Load(locator); err != nil {
		a.mu.Lock()
		a.mediaSource = mo.None[string]()
		a.mu.Unlock()
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidSource, locator, err)
	}

	a.mu.Lock()
	a.mediaLoaded = true
	a.duration = -1
	a.position = -1
	a.buffered = 0
	a.buffering = false
	a.seekable = false
	var notes []notice
	if a.hasDisplay {
		a.initialized = true
		notes = append(notes, a.preparedNotice())
	}
	notes = append(notes, a.bufferingNotice())
	a.mu.Unlock()

	log.Infof("media source set to %s", locator)
	a.flush(notes)
	return true, nil
}

// MediaSource returns the active locator.
func (a *Adapter) MediaSource() mo.Option[string] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mediaSource
}

// SetDisplaySurface binds the engine's video output to s, or unbinds it when s is nil.
// Calls that do not change surface presence are ignored.
func (a *Adapter) SetDisplaySurface(s Surface) {
	if a.released.Load() {
		return
	}

	a.surfaceMu.Lock()
	has := s != nil
	a.mu.Lock()
	if a.hasDisplay == has {
		a.mu.Unlock()
		a.surfaceMu.Unlock()
		return
	}
	a.hasDisplay = has
	a.mu.Unlock()

	if has {
		w, h := s.Size()
		if err := a.engine.AttachVideo(engine.Video{Handle: s.Handle(), Width: w, Height: h}); err != nil {
			log.Warnf("attach video output: %v", err)
		}
	} else if err := a.engine.DetachVideo(); err != nil {
		log.Warnf("detach video output: %v", err)
	}

	a.mu.Lock()
	a.initialized = has && a.mediaLoaded
	notes := []notice{a.preparedNotice()}
	a.mu.Unlock()
	a.surfaceMu.Unlock()

	a.flush(notes)
}

// Play starts playback unless the engine is already playing.
func (a *Adapter) Play() {
	if a.released.Load() || a.engine.IsPlaying() {
		return
	}
	if err := a.engine.Play(); err != nil {
		log.Warnf("play: %v", err)
	}
}

// Pause suspends playback if it is playing.
func (a *Adapter) Pause() {
	if a.released.Load() || !a.engine.IsPlaying() {
		return
	}
	if err := a.engine.Pause(); err != nil {
		log.Warnf("pause: %v", err)
	}
}

// SeekTo requests a jump to ms. It is ignored until the adapter is initialized.
func (a *Adapter) SeekTo(ms int64) {
	if a.released.Load() {
		return
	}
	a.mu.Lock()
	initialized := a.initialized
	a.mu.Unlock()
	if !initialized {
		return
	}
	if err := a.engine.SetTime(ms); err != nil {
		log.Warnf("seek to %dms: %v", ms, err)
	}
}

// IsPrepared reports whether a source is installed and, when the host owns a
// surface, that surface is bound.
func (a *Adapter) IsPrepared() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preparedLocked()
}

func (a *Adapter) preparedLocked() bool {
	return a.initialized && (a.surfaceHost == nil || a.hasDisplay)
}

// IsPlaying reports the engine's last known transport state.
func (a *Adapter) IsPlaying() bool {
	if a.released.Load() {
		return false
	}
	return a.engine.IsPlaying()
}

// Duration returns the media length in milliseconds, -1 until the engine resolves it.
func (a *Adapter) Duration() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

// CurrentPosition returns the playback position in milliseconds, -1 until reported.
func (a *Adapter) CurrentPosition() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// BufferedPosition returns how far the media is buffered, in milliseconds.
func (a *Adapter) BufferedPosition() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buffered
}

// IsSeekable reports the engine's last seekability notification.
func (a *Adapter) IsSeekable() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seekable
}

// IsBuffering reports whether the playback position has caught up with the buffer.
func (a *Adapter) IsBuffering() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buffering
}

// HasDisplay reports whether a surface is bound.
func (a *Adapter) HasDisplay() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasDisplay
}

// SupportedActions returns the transport actions a host may offer for this adapter.
func (a *Adapter) SupportedActions() Action {
	return SupportedActions
}

// Reset returns to the uninitialized state, stops the engine and drops its media
// so that a new source can be installed. The engine itself stays alive.
func (a *Adapter) Reset() {
	if a.released.Load() {
		return
	}

	a.mu.Lock()
	notes := a.changeToUninitializedLocked()
	loaded := a.mediaLoaded
	a.mediaLoaded = false
	a.mu.Unlock()

	a.flush(notes)

	if err := a.engine.Stop(); err != nil {
		log.Warnf("stop: %v", err)
	}
	if loaded {
		if err := a.engine.Unload(); err != nil {
			log.Warnf("unload media: %v", err)
		}
	}
}

// Release returns to the uninitialized state, forgets the surface and tears the
// engine down. Calling it again is a no-op.
func (a *Adapter) Release() {
	if a.released.Load() {
		return
	}

	a.surfaceMu.Lock()
	a.mu.Lock()
	notes := a.changeToUninitializedLocked()
	a.hasDisplay = false
	loaded := a.mediaLoaded
	a.mediaLoaded = false
	a.mu.Unlock()
	a.surfaceMu.Unlock()

	a.flush(notes)

	if !a.released.CompareAndSwap(false, true) {
		return
	}
	close(a.done)

	if loaded {
		if err := a.engine.Unload(); err != nil {
			log.Warnf("unload media: %v", err)
		}
	}
	if err := a.engine.Release(); err != nil {
		log.Warnf("release engine: %v", err)
	}
	log.Info("adapter released")
}

// Released reports whether Release has completed.
func (a *Adapter) Released() bool {
	return a.released.Load()
}

// Done is closed when the adapter stops processing engine events.
func (a *Adapter) Done() <-chan struct{} {
	return a.pumped
}

func (a *Adapter) changeToUninitializedLocked() []notice {
	if !a.initialized {
		return nil
	}
	a.initialized = false
	notes := []notice{a.bufferingNotice()}
	if a.hasDisplay {
		notes = append(notes, a.preparedNotice())
	}
	return notes
}
