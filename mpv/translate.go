package mpv

import (
	"math"

	"github.com/epcltv/epcltv/engine"
)

// observed are the properties the listener subscribes to, keyed by observer id.
var observed = []struct {
	id   int
	name string
}{
	{1, "time-pos"},
	{2, "duration"},
	{3, "pause"},
	{4, "seekable"},
	{5, "cache-buffering-state"},
	{6, "percent-pos"},
}

// translator turns mpv events and property changes into engine events.
// It is used by the listener goroutine only.
type translator struct {
	// loaded is true between file-loaded and end-file. mpv reports the
	// pause property while idle too, which is not a transport change.
	loaded bool
}

func (t *translator) translate(msg ipcMessage) []engine.Event {
	switch msg.Event {
	case "property-change":
		if ev := t.property(msg.Name, msg.Data); ev != nil {
			return []engine.Event{ev}
		}
	case "file-loaded":
		t.loaded = true
		return []engine.Event{engine.Opened{}}
	case "end-file":
		t.loaded = false
		switch msg.Reason {
		case "eof":
			return []engine.Event{engine.EndReached{}}
		case "error":
			return []engine.Event{engine.Error{Message: msg.FileError}}
		default:
			return []engine.Event{engine.Stopped{}}
		}
	case "video-reconfig":
		return []engine.Event{engine.Vout{}}
	case "tracks-changed", "track-switched":
		return []engine.Event{engine.TracksChanged{}}
	}
	return nil
}

func (t *translator) property(name string, data any) engine.Event {
	switch name {
	case "time-pos":
		if s, ok := data.(float64); ok {
			return engine.TimeChanged{Time: millis(s)}
		}
	case "duration":
		if s, ok := data.(float64); ok {
			return engine.LengthChanged{Length: millis(s)}
		}
	case "seekable":
		if b, ok := data.(bool); ok {
			return engine.SeekableChanged{Seekable: b}
		}
	case "cache-buffering-state":
		if p, ok := data.(float64); ok {
			return engine.Buffering{Percent: p}
		}
	case "percent-pos":
		if p, ok := data.(float64); ok {
			return engine.PositionChanged{Position: p / 100}
		}
	case "pause":
		paused, ok := data.(bool)
		if !ok || !t.loaded {
			return nil
		}
		if paused {
			return engine.Paused{}
		}
		return engine.Playing{}
	}
	return nil
}

func millis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
