package host

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/epcltv/epcltv/adapter"
	"github.com/epcltv/epcltv/log"
	"github.com/invopop/jsonschema"
)

// Notification is one line written by JSON.
type Notification struct {
	Event     string `json:"event" jsonschema:"enum=prepared,enum=play_state,enum=buffering,enum=buffered_position,enum=current_position,enum=duration,enum=metadata,enum=completed,enum=error,description=Notification kind."`
	Prepared  bool   `json:"prepared" jsonschema:"description=Whether a source is installed and the surface requirement is met."`
	Playing   bool   `json:"playing" jsonschema:"description=Last known transport state."`
	Buffering *bool  `json:"buffering,omitempty" jsonschema:"description=Reported buffering state. Only set on buffering notifications."`
	Position  int64  `json:"position" jsonschema:"description=Current position in milliseconds. -1 when unknown."`
	Duration  int64  `json:"duration" jsonschema:"description=Media duration in milliseconds. -1 when unknown."`
	Buffered  int64  `json:"buffered" jsonschema:"description=Buffered position in milliseconds."`
	Seekable  bool   `json:"seekable"`
	Code      *int   `json:"code,omitempty" jsonschema:"description=Error code. Only set on error notifications."`
	Message   string `json:"message,omitempty" jsonschema:"description=Error message. Only set on error notifications."`
}

// Schema returns the JSON schema of the lines written by JSON.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	return reflector.Reflect(&Notification{})
}

// JSON writes every notification as a JSON object on its own line.
type JSON struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSON writes notifications to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

func (j *JSON) emit(a *adapter.Adapter, event string, mutate func(n *Notification)) {
	n := Notification{
		Event:    event,
		Prepared: a.IsPrepared(),
		Playing:  a.IsPlaying(),
		Position: a.CurrentPosition(),
		Duration: a.Duration(),
		Buffered: a.BufferedPosition(),
		Seekable: a.IsSeekable(),
	}
	if mutate != nil {
		mutate(&n)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(n); err != nil {
		log.Warnf("write %s notification: %v", event, err)
	}
}

func (j *JSON) OnPreparedStateChanged(a *adapter.Adapter) { j.emit(a, "prepared", nil) }
func (j *JSON) OnPlayStateChanged(a *adapter.Adapter)     { j.emit(a, "play_state", nil) }

func (j *JSON) OnBufferingStateChanged(a *adapter.Adapter, buffering bool) {
	j.emit(a, "buffering", func(n *Notification) { n.Buffering = &buffering })
}

func (j *JSON) OnBufferedPositionChanged(a *adapter.Adapter) { j.emit(a, "buffered_position", nil) }
func (j *JSON) OnCurrentPositionChanged(a *adapter.Adapter)  { j.emit(a, "current_position", nil) }
func (j *JSON) OnDurationChanged(a *adapter.Adapter)         { j.emit(a, "duration", nil) }
func (j *JSON) OnMetadataChanged(a *adapter.Adapter)         { j.emit(a, "metadata", nil) }
func (j *JSON) OnPlayCompleted(a *adapter.Adapter)           { j.emit(a, "completed", nil) }

func (j *JSON) OnError(a *adapter.Adapter, code int, message string) {
	j.emit(a, "error", func(n *Notification) {
		n.Code = &code
		n.Message = message
	})
}
