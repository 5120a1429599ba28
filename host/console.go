// Package host provides playback hosts: receivers of adapter notifications and
// providers of the surface the engine renders into.
package host

import (
	"fmt"
	"io"
	"sync"

	"github.com/epcltv/epcltv/adapter"
	"github.com/epcltv/epcltv/color"
	"github.com/epcltv/epcltv/icon"
	"github.com/epcltv/epcltv/log"
	"github.com/epcltv/epcltv/style"
	"github.com/epcltv/epcltv/util"
	"github.com/samber/mo"
)

// Console prints one styled line per notable notification. Position updates
// are too frequent to print and are only logged.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	buffering mo.Option[bool]
}

// NewConsole prints notifications to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) line(i icon.Icon, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", icon.Get(i), text)
}

func (c *Console) OnPreparedStateChanged(a *adapter.Adapter) {
	prepared := a.IsPrepared()
	log.WithFields(map[string]any{"prepared": prepared}).Info("prepared state changed")
	if prepared {
		c.line(icon.Success, "prepared")
	} else {
		c.line(icon.Info, style.Faint("not prepared"))
	}
}

func (c *Console) OnPlayStateChanged(a *adapter.Adapter) {
	playing := a.IsPlaying()
	log.WithFields(map[string]any{"playing": playing}).Info("play state changed")
	if playing {
		c.line(icon.Play, "playing at "+util.FormatMillis(a.CurrentPosition()))
	} else {
		c.line(icon.Pause, "paused at "+util.FormatMillis(a.CurrentPosition()))
	}
}

// OnBufferingStateChanged prints only when the state flips.
func (c *Console) OnBufferingStateChanged(_ *adapter.Adapter, buffering bool) {
	c.mu.Lock()
	changed := c.buffering.IsAbsent() || c.buffering.MustGet() != buffering
	c.buffering = mo.Some(buffering)
	c.mu.Unlock()

	if !changed {
		return
	}
	log.WithFields(map[string]any{"buffering": buffering}).Debug("buffering state changed")
	if buffering {
		c.line(icon.Buffering, style.Fg(color.Yellow)("buffering"))
	}
}

func (c *Console) OnBufferedPositionChanged(a *adapter.Adapter) {
	log.Tracef("buffered to %dms", a.BufferedPosition())
}

func (c *Console) OnCurrentPositionChanged(a *adapter.Adapter) {
	log.Tracef("position %dms", a.CurrentPosition())
}

func (c *Console) OnDurationChanged(a *adapter.Adapter) {
	c.line(icon.Info, "duration "+util.FormatMillis(a.Duration()))
}

func (c *Console) OnMetadataChanged(a *adapter.Adapter) {
	log.WithFields(map[string]any{"seekable": a.IsSeekable()}).Debug("metadata changed")
}

func (c *Console) OnPlayCompleted(*adapter.Adapter) {
	log.Info("play completed")
	c.line(icon.Done, style.Fg(color.Green)("completed"))
}

func (c *Console) OnError(_ *adapter.Adapter, code int, message string) {
	log.WithFields(map[string]any{"code": code}).Error(message)
	c.line(icon.Fail, style.Fg(color.Red)(fmt.Sprintf("error %d: %s", code, message)))
}
