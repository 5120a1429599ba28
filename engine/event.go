package engine

import "fmt"

// Event is a notification emitted by an engine. The set of variants is closed:
// only the types declared in this file implement it.
type Event interface {
	engineEvent()
}

// Opened reports the engine started opening the installed media.
type Opened struct{}

// Buffering reports cache fill progress in percent.
type Buffering struct {
	Percent float64
}

// Playing reports playback started or resumed.
type Playing struct{}

// Paused reports playback was suspended.
type Paused struct{}

// Stopped reports playback was stopped without reaching the end.
type Stopped struct{}

// EndReached reports the stream ended.
type EndReached struct{}

// Error reports a decode or playback failure.
type Error struct {
	Message string
}

// TimeChanged reports the current position in milliseconds.
type TimeChanged struct {
	Time int64
}

// PositionChanged reports the current position as a fraction in [0, 1].
type PositionChanged struct {
	Position float64
}

// SeekableChanged reports whether the media can be seeked.
type SeekableChanged struct {
	Seekable bool
}

// PausableChanged reports whether the media can be paused.
type PausableChanged struct {
	Pausable bool
}

// LengthChanged reports the resolved media duration in milliseconds.
type LengthChanged struct {
	Length int64
}

// Vout reports the video output was (re)configured.
type Vout struct{}

// TracksChanged reports elementary streams were added, removed or selected.
type TracksChanged struct{}

func (Opened) engineEvent()          {}
func (Buffering) engineEvent()       {}
func (Playing) engineEvent()         {}
func (Paused) engineEvent()          {}
func (Stopped) engineEvent()         {}
func (EndReached) engineEvent()      {}
func (Error) engineEvent()           {}
func (TimeChanged) engineEvent()     {}
func (PositionChanged) engineEvent() {}
func (SeekableChanged) engineEvent() {}
func (PausableChanged) engineEvent() {}
func (LengthChanged) engineEvent()   {}
func (Vout) engineEvent()            {}
func (TracksChanged) engineEvent()   {}

// Describe renders an event for logs.
func Describe(e Event) string {
	switch ev := e.(type) {
	case Opened:
		return "opened"
	case Buffering:
		return fmt.Sprintf("buffering %.1f%%", ev.Percent)
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case EndReached:
		return "end reached"
	case Error:
		return fmt.Sprintf("error %q", ev.Message)
	case TimeChanged:
		return fmt.Sprintf("time %dms", ev.Time)
	case PositionChanged:
		return fmt.Sprintf("position %.3f", ev.Position)
	case SeekableChanged:
		return fmt.Sprintf("seekable %t", ev.Seekable)
	case PausableChanged:
		return fmt.Sprintf("pausable %t", ev.Pausable)
	case LengthChanged:
		return fmt.Sprintf("length %dms", ev.Length)
	case Vout:
		return "vout"
	case TracksChanged:
		return "tracks changed"
	default:
		return fmt.Sprintf("%T", e)
	}
}
