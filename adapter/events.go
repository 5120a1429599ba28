package adapter

import (
	"math"

	"github.com/epcltv/epcltv/engine"
	"github.com/epcltv/epcltv/log"
)

// notice is a deferred host notification, built under the lock and run after it.
type notice func(cb Callback)

func (a *Adapter) pump() {
	defer close(a.pumped)

	events := a.engine.Events()
	for {
		select {
		case <-a.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			a.handle(ev)
		}
	}
}

// handle translates one engine event into state updates and notifications.
func (a *Adapter) handle(ev engine.Event) {
	if a.released.Load() {
		return
	}

	var notes []notice

	a.mu.Lock()
	switch e := ev.(type) {
	case engine.Opened:
		log.Debug("engine opened media")
		if a.surfaceHost == nil && a.mediaLoaded {
			a.initialized = true
		}
		if a.surfaceHost == nil || a.hasDisplay {
			notes = append(notes, a.preparedNotice())
		}

	case engine.Buffering:
		log.Tracef("engine buffering %.1f%%", e.Percent)
		a.buffered = bufferedPosition(a.duration, e.Percent)
		notes = append(notes, func(cb Callback) { cb.OnBufferedPositionChanged(a) })
		a.buffering = a.position >= a.buffered
		notes = append(notes, a.bufferingNotice())

	case engine.Playing:
		log.Debug("engine playing")
		notes = append(notes, func(cb Callback) { cb.OnPlayStateChanged(a) })

	case engine.Paused:
		log.Debug("engine paused")
		notes = append(notes, func(cb Callback) { cb.OnPlayStateChanged(a) })

	case engine.EndReached:
		log.Debug("engine reached end of stream")
		notes = append(notes,
			func(cb Callback) { cb.OnPlayStateChanged(a) },
			func(cb Callback) { cb.OnPlayCompleted(a) },
		)

	case engine.Error:
		log.Errorf("engine error: %s", e.Message)
		message := e.Message
		if message == "" {
			message = defaultErrorMessage
		}
		notes = append(notes, func(cb Callback) { cb.OnError(a, ErrorCodeUnknown, message) })

	case engine.TimeChanged:
		a.position = e.Time
		notes = append(notes, func(cb Callback) { cb.OnCurrentPositionChanged(a) })

	case engine.SeekableChanged:
		log.Debugf("engine seekable %t", e.Seekable)
		a.seekable = e.Seekable
		notes = append(notes, func(cb Callback) { cb.OnMetadataChanged(a) })

	case engine.LengthChanged:
		log.Debugf("engine length %dms", e.Length)
		a.duration = e.Length
		notes = append(notes, func(cb Callback) { cb.OnDurationChanged(a) })

	default:
		log.Debugf("engine event %s", engine.Describe(ev))
	}
	a.mu.Unlock()

	a.flush(notes)
}

// bufferedPosition scales the buffering percentage to the media duration.
// An unknown duration buffers nothing.
func bufferedPosition(duration int64, percent float64) int64 {
	if duration <= 0 {
		return 0
	}
	return int64(math.Round(float64(duration) * percent / 100))
}

func (a *Adapter) preparedNotice() notice {
	return func(cb Callback) { cb.OnPreparedStateChanged(a) }
}

// bufferingNotice reports buffering for as long as the adapter is not initialized.
// Must be called with mu held.
func (a *Adapter) bufferingNotice() notice {
	buffering := a.buffering || !a.initialized
	return func(cb Callback) { cb.OnBufferingStateChanged(a, buffering) }
}

// flush runs notes in order, stopping as soon as the adapter is released.
func (a *Adapter) flush(notes []notice) {
	if len(notes) == 0 {
		return
	}
	a.mu.Lock()
	cb := a.callback
	a.mu.Unlock()

	for _, n := range notes {
		if a.released.Load() {
			return
		}
		n(cb)
	}
}
