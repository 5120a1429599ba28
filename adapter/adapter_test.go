package adapter

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/epcltv/epcltv/engine"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu       sync.Mutex
	events   []string
	prepared []bool
	hook     func(name string)
	ch       chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 128)}
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	r.events = append(r.events, name)
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(name)
	}
	select {
	case r.ch <- name:
	default:
	}
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) Prepared() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.prepared...)
}

func (r *recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.prepared = nil
}

func (r *recorder) wait(name string) bool {
	timeout := time.After(2 * time.Second)
	for {
		select {
		case got := <-r.ch:
			if got == name {
				return true
			}
		case <-timeout:
			return false
		}
	}
}

func (r *recorder) OnPreparedStateChanged(a *Adapter) {
	r.mu.Lock()
	r.prepared = append(r.prepared, a.IsPrepared())
	r.mu.Unlock()
	r.add("prepared")
}

func (r *recorder) OnPlayStateChanged(*Adapter) { r.add("play-state") }

func (r *recorder) OnBufferingStateChanged(_ *Adapter, buffering bool) {
	r.add(fmt.Sprintf("buffering %t", buffering))
}

func (r *recorder) OnBufferedPositionChanged(*Adapter) { r.add("buffered-position") }
func (r *recorder) OnCurrentPositionChanged(*Adapter)  { r.add("current-position") }
func (r *recorder) OnDurationChanged(*Adapter)         { r.add("duration") }
func (r *recorder) OnMetadataChanged(*Adapter)         { r.add("metadata") }
func (r *recorder) OnPlayCompleted(*Adapter)           { r.add("completed") }

func (r *recorder) OnError(_ *Adapter, code int, message string) {
	r.add(fmt.Sprintf("error %d %s", code, message))
}

type surfaceHost struct {
	cb   SurfaceCallback
	sets int
}

func (h *surfaceHost) SetSurfaceCallback(cb SurfaceCallback) {
	h.cb = cb
	h.sets++
}

type surface struct {
	id   uintptr
	w, h int
}

func (s surface) Handle() uintptr  { return s.id }
func (s surface) Size() (int, int) { return s.w, s.h }

func newTestAdapter() (*Adapter, *engine.Mock, *recorder) {
	eng := engine.NewMock()
	a := New(eng)
	rec := newRecorder()
	a.SetCallback(rec)
	return a, eng, rec
}

func count(events []string, name string) int {
	n := 0
	for _, e := range events {
		if e == name {
			n++
		}
	}
	return n
}

func TestSetMediaSource(t *testing.T) {
	Convey("Given a fresh adapter", t, func() {
		a, eng, _ := newTestAdapter()
		Reset(a.Release)

		Convey("Setting an empty source when none is active is a no-op", func() {
			changed, err := a.SetMediaSource("")
			So(err, ShouldBeNil)
			So(changed, ShouldBeFalse)
			So(eng.Calls(), ShouldBeEmpty)
		})

		Convey("The first source is installed", func() {
			changed, err := a.SetMediaSource("http://tv/a.m2ts")
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)
			So(eng.Loaded(), ShouldEqual, "http://tv/a.m2ts")
			So(a.MediaSource().MustGet(), ShouldEqual, "http://tv/a.m2ts")

			Convey("Setting the same source again is a no-op", func() {
				eng.ResetCalls()
				changed, err := a.SetMediaSource("http://tv/a.m2ts")
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
				So(eng.Calls(), ShouldBeEmpty)
			})

			Convey("A different source resets the engine before loading", func() {
				eng.ResetCalls()
				changed, err := a.SetMediaSource("http://tv/b.m2ts")
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)
				So(eng.Calls(), ShouldResemble, []string{"stop", "unload", "load http://tv/b.m2ts"})
			})

			Convey("An empty source unloads the media", func() {
				eng.ResetCalls()
				changed, err := a.SetMediaSource("")
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)
				So(eng.Calls(), ShouldResemble, []string{"stop", "unload"})
				So(a.MediaSource().IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("A source the engine cannot open is a fatal error", func() {
			eng.SetLoadError(errors.New("no such file"))
			changed, err := a.SetMediaSource("/missing.ts")
			So(changed, ShouldBeFalse)
			So(errors.Is(err, ErrInvalidSource), ShouldBeTrue)
			So(a.MediaSource().IsAbsent(), ShouldBeTrue)

			Convey("And the same locator can be retried", func() {
				eng.SetLoadError(nil)
				changed, err := a.SetMediaSource("/missing.ts")
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)
			})
		})
	})
}

func TestIsPrepared(t *testing.T) {
	Convey("IsPrepared requires initialization and, with a surface host, a display", t, func() {
		a, _, _ := newTestAdapter()
		Reset(a.Release)

		for _, initialized := range []bool{false, true} {
			for _, withHost := range []bool{false, true} {
				for _, hasDisplay := range []bool{false, true} {
					a.mu.Lock()
					a.initialized = initialized
					a.hasDisplay = hasDisplay
					a.surfaceHost = nil
					if withHost {
						a.surfaceHost = &surfaceHost{}
					}
					a.mu.Unlock()

					want := initialized && (!withHost || hasDisplay)
					So(a.IsPrepared(), ShouldEqual, want)
				}
			}
		}
	})
}

func TestSetDisplaySurface(t *testing.T) {
	Convey("Given an adapter attached to a surface host with a source", t, func() {
		a, eng, rec := newTestAdapter()
		Reset(a.Release)
		host := &surfaceHost{}
		a.AttachToHost(host)
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		rec.Clear()
		eng.ResetCalls()

		Convey("Repeated nil surfaces change nothing", func() {
			a.SetDisplaySurface(nil)
			a.SetDisplaySurface(nil)
			So(rec.Events(), ShouldBeEmpty)
			So(eng.Calls(), ShouldBeEmpty)
		})

		Convey("A created surface binds the output once", func() {
			a.SetDisplaySurface(surface{id: 7, w: 1920, h: 1080})
			a.SetDisplaySurface(surface{id: 8, w: 1280, h: 720})

			So(eng.Calls(), ShouldResemble, []string{"attach 7 1920x1080"})
			So(rec.Events(), ShouldResemble, []string{"prepared"})
			So(a.IsPrepared(), ShouldBeTrue)
			So(a.HasDisplay(), ShouldBeTrue)

			Convey("And destroying it unbinds and notifies", func() {
				host.cb.SurfaceDestroyed(surface{id: 7})
				So(eng.Calls(), ShouldResemble, []string{"attach 7 1920x1080", "detach"})
				So(rec.Events(), ShouldResemble, []string{"prepared", "prepared"})
				So(rec.Prepared(), ShouldResemble, []bool{true, false})
				So(a.IsPrepared(), ShouldBeFalse)
			})
		})

		Convey("Size changes are accepted without rebinding", func() {
			host.cb.SurfaceCreated(surface{id: 1, w: 10, h: 10})
			host.cb.SurfaceChanged(surface{id: 1}, 20, 20)
			So(eng.Calls(), ShouldResemble, []string{"attach 1 10x10"})
		})
	})

	Convey("A surface bound before any source is not prepared", t, func() {
		a, _, rec := newTestAdapter()
		Reset(a.Release)
		a.AttachToHost(&surfaceHost{})

		a.SetDisplaySurface(surface{id: 1, w: 1, h: 1})
		So(rec.Prepared(), ShouldResemble, []bool{false})

		Convey("Until a source is installed", func() {
			_, err := a.SetMediaSource("a")
			So(err, ShouldBeNil)
			So(a.IsPrepared(), ShouldBeTrue)
			So(rec.Prepared(), ShouldResemble, []bool{false, true})
		})
	})
}

func TestBuffering(t *testing.T) {
	Convey("Given a prepared adapter with a resolved duration", t, func() {
		a, _, rec := newTestAdapter()
		Reset(a.Release)
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		a.handle(engine.Opened{})
		a.handle(engine.LengthChanged{Length: 1000})
		So(a.Duration(), ShouldEqual, 1000)

		Convey("When playback is ahead of half the buffer", func() {
			a.handle(engine.TimeChanged{Time: 600})
			rec.Clear()
			a.handle(engine.Buffering{Percent: 50})

			So(a.BufferedPosition(), ShouldEqual, 500)
			So(a.IsBuffering(), ShouldBeTrue)
			So(rec.Events(), ShouldResemble, []string{"buffered-position", "buffering true"})
		})

		Convey("When playback is behind half the buffer", func() {
			a.handle(engine.TimeChanged{Time: 400})
			rec.Clear()
			a.handle(engine.Buffering{Percent: 50})

			So(a.BufferedPosition(), ShouldEqual, 500)
			So(a.IsBuffering(), ShouldBeFalse)
			So(rec.Events(), ShouldResemble, []string{"buffered-position", "buffering false"})
		})

		Convey("Fractional percentages are rounded", func() {
			a.handle(engine.Buffering{Percent: 33.36})
			So(a.BufferedPosition(), ShouldEqual, 334)
		})
	})

	Convey("Buffering before the duration is known buffers nothing", t, func() {
		a, _, _ := newTestAdapter()
		Reset(a.Release)
		a.handle(engine.Buffering{Percent: 80})
		So(a.BufferedPosition(), ShouldEqual, 0)
	})

	Convey("An uninitialized adapter always reports buffering", t, func() {
		a, _, rec := newTestAdapter()
		Reset(a.Release)
		a.AttachToHost(&surfaceHost{})
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		a.handle(engine.LengthChanged{Length: 1000})
		a.handle(engine.TimeChanged{Time: 0})
		rec.Clear()

		a.handle(engine.Buffering{Percent: 100})
		So(a.IsBuffering(), ShouldBeFalse)
		So(rec.Events(), ShouldContain, "buffering true")
	})
}

func TestTransport(t *testing.T) {
	Convey("Given an adapter", t, func() {
		a, eng, _ := newTestAdapter()
		Reset(a.Release)
		a.AttachToHost(&surfaceHost{})
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		eng.ResetCalls()

		Convey("SeekTo is ignored while uninitialized", func() {
			a.SeekTo(5000)
			So(eng.Calls(), ShouldBeEmpty)
		})

		Convey("SeekTo reaches the engine once initialized", func() {
			a.SetDisplaySurface(surface{id: 1, w: 1, h: 1})
			a.SeekTo(5000)
			So(eng.Calls(), ShouldContain, "time 5000")
		})

		Convey("Play is a no-op while playing", func() {
			a.Play()
			a.Play()
			So(eng.Calls(), ShouldResemble, []string{"play"})
			So(a.IsPlaying(), ShouldBeTrue)
		})

		Convey("Pause is a no-op unless playing", func() {
			a.Pause()
			So(eng.Calls(), ShouldBeEmpty)
			eng.SetPlaying(true)
			a.Pause()
			So(eng.Calls(), ShouldResemble, []string{"pause"})
		})

		Convey("Supported actions are play/pause, rewind and fast-forward", func() {
			So(a.SupportedActions(), ShouldEqual, ActionPlayPause|ActionRewind|ActionFastForward)
			So(a.SupportedActions().String(), ShouldEqual, "rewind|play-pause|fast-forward")
		})
	})
}

func TestEventTranslation(t *testing.T) {
	Convey("Given an adapter without a surface host", t, func() {
		a, _, rec := newTestAdapter()
		Reset(a.Release)
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		rec.Clear()

		Convey("Opened initializes and notifies prepared", func() {
			a.handle(engine.Opened{})
			So(a.IsPrepared(), ShouldBeTrue)
			So(rec.Events(), ShouldResemble, []string{"prepared"})
		})

		Convey("Position, seekability and duration are recorded", func() {
			a.handle(engine.TimeChanged{Time: 1234})
			a.handle(engine.SeekableChanged{Seekable: true})
			a.handle(engine.LengthChanged{Length: 99000})

			So(a.CurrentPosition(), ShouldEqual, 1234)
			So(a.IsSeekable(), ShouldBeTrue)
			So(a.Duration(), ShouldEqual, 99000)
			So(rec.Events(), ShouldResemble, []string{"current-position", "metadata", "duration"})
		})

		Convey("Errors are forwarded with the generic code", func() {
			a.handle(engine.Error{Message: "decoder failed"})
			a.handle(engine.Error{})
			So(rec.Events(), ShouldResemble, []string{
				"error 0 decoder failed",
				"error 0 an error occurred",
			})
		})

		Convey("Informational events have no host effect", func() {
			a.handle(engine.Stopped{})
			a.handle(engine.PositionChanged{Position: 0.5})
			a.handle(engine.PausableChanged{Pausable: true})
			a.handle(engine.Vout{})
			a.handle(engine.TracksChanged{})
			So(rec.Events(), ShouldBeEmpty)
		})
	})

	Convey("Opened does not notify a surface host without a display", t, func() {
		a, _, rec := newTestAdapter()
		Reset(a.Release)
		a.AttachToHost(&surfaceHost{})
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		rec.Clear()

		a.handle(engine.Opened{})
		So(rec.Events(), ShouldBeEmpty)
		So(a.IsPrepared(), ShouldBeFalse)
	})
}

func TestLifecycle(t *testing.T) {
	Convey("Full lifecycle", t, func() {
		a, eng, rec := newTestAdapter()
		Reset(a.Release)
		host := &surfaceHost{}

		a.AttachToHost(host)
		So(host.cb, ShouldNotBeNil)

		changed, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		So(changed, ShouldBeTrue)

		host.cb.SurfaceCreated(surface{id: 42, w: 1920, h: 1080})
		So(count(rec.Events(), "prepared"), ShouldEqual, 1)
		So(rec.Prepared(), ShouldResemble, []bool{true})

		a.Play()
		So(eng.Calls(), ShouldContain, "play")

		a.handle(engine.Playing{})
		a.handle(engine.EndReached{})

		So(rec.Events(), ShouldResemble, []string{
			"buffering true",
			"prepared",
			"play-state",
			"play-state",
			"completed",
		})
	})

	Convey("Engine events are delivered through the pump", t, func() {
		a, eng, rec := newTestAdapter()
		Reset(a.Release)
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)

		eng.Emit(engine.Playing{}, engine.TimeChanged{Time: 10}, engine.EndReached{})
		So(rec.wait("completed"), ShouldBeTrue)
		So(a.CurrentPosition(), ShouldEqual, 10)
	})
}

func TestDetachAndRelease(t *testing.T) {
	Convey("Given an attached adapter with a bound display", t, func() {
		a, eng, rec := newTestAdapter()
		host := &surfaceHost{}
		a.AttachToHost(host)
		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		host.cb.SurfaceCreated(surface{id: 1, w: 1, h: 1})
		rec.Clear()
		eng.ResetCalls()

		var loadedAtNotice string
		var releasedAtNotice bool
		rec.hook = func(name string) {
			if name == "prepared" {
				loadedAtNotice = eng.Loaded()
				releasedAtNotice = eng.Released()
			}
		}

		Convey("Detaching notifies the host before tearing down", func() {
			a.DetachFromHost()

			So(rec.Events(), ShouldResemble, []string{"buffering true", "prepared"})
			So(rec.Prepared(), ShouldResemble, []bool{false})
			So(loadedAtNotice, ShouldEqual, "a")
			So(releasedAtNotice, ShouldBeFalse)

			So(host.cb, ShouldBeNil)
			So(eng.Calls(), ShouldResemble, []string{"stop", "unload", "release"})
			So(a.Released(), ShouldBeTrue)
			So(a.HasDisplay(), ShouldBeFalse)

			Convey("Releasing and detaching again are no-ops", func() {
				a.Release()
				a.DetachFromHost()
				So(eng.Calls(), ShouldResemble, []string{"stop", "unload", "release"})
				So(rec.Events(), ShouldResemble, []string{"buffering true", "prepared"})
			})

			Convey("Commands after release are ignored", func() {
				changed, err := a.SetMediaSource("b")
				So(changed, ShouldBeFalse)
				So(errors.Is(err, engine.ErrReleased), ShouldBeTrue)
				a.Play()
				a.SeekTo(1)
				a.SetDisplaySurface(surface{id: 2})
				So(eng.Calls(), ShouldResemble, []string{"stop", "unload", "release"})
			})

			Convey("Late engine events do not reach the host", func() {
				a.handle(engine.Playing{})
				a.handle(engine.Error{Message: "late"})
				So(rec.Events(), ShouldResemble, []string{"buffering true", "prepared"})
			})

			Convey("The event pump stops", func() {
				select {
				case <-a.Done():
				case <-time.After(2 * time.Second):
					t.Error("pump did not stop")
				}
			})
		})
	})
}

func TestMulti(t *testing.T) {
	Convey("Multi forwards every notification to each callback in order", t, func() {
		a, _, _ := newTestAdapter()
		Reset(a.Release)
		first, second := newRecorder(), newRecorder()
		a.SetCallback(Multi(first, NopCallback{}, second))

		_, err := a.SetMediaSource("a")
		So(err, ShouldBeNil)
		a.handle(engine.Opened{})
		a.handle(engine.Error{Message: "x"})

		want := []string{"buffering true", "prepared", "error 0 x"}
		So(first.Events(), ShouldResemble, want)
		So(second.Events(), ShouldResemble, want)
	})
}

func TestConcurrentCommandsAndEvents(t *testing.T) {
	Convey("Given commands racing with engine events", t, func() {
		a, eng, rec := newTestAdapter()
		Reset(a.Release)
		host := &surfaceHost{}
		a.AttachToHost(host)
		display := surface{id: 7, w: 1280, h: 720}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				eng.Emit(
					engine.LengthChanged{Length: 60_000},
					engine.TimeChanged{Time: int64(i) * 100},
					engine.Buffering{Percent: float64(i % 100)},
					engine.Opened{},
				)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, _ = a.SetMediaSource(fmt.Sprintf("http://tv/%d.ts", i%3))
				a.SetDisplaySurface(display)
				a.SeekTo(int64(i) * 10)
				a.Play()
				_ = a.IsPrepared()
				a.Pause()
				a.SetDisplaySurface(nil)
			}
		}()
		wg.Wait()

		eng.Emit(engine.Error{Message: "drained"})
		drained := func() bool {
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				if count(rec.Events(), "error 0 drained") == 1 {
					return true
				}
				time.Sleep(5 * time.Millisecond)
			}
			return false
		}
		So(drained(), ShouldBeTrue)

		prepared := func() bool {
			if !a.IsPrepared() {
				return false
			}
			So(a.MediaSource().IsPresent(), ShouldBeTrue)
			So(a.HasDisplay(), ShouldBeTrue)
			return true
		}

		Convey("Prepared implies a source and a display", func() {
			So(prepared(), ShouldBeFalse)
			a.SetDisplaySurface(display)
			So(prepared(), ShouldBeTrue)
		})

		Convey("The final state is consistent", func() {
			So(a.HasDisplay(), ShouldBeFalse)
			So(a.IsPrepared(), ShouldBeFalse)

			a.SetDisplaySurface(display)
			So(a.IsPrepared(), ShouldBeTrue)
			So(a.MediaSource().IsPresent(), ShouldBeTrue)
			So(eng.Video(), ShouldNotBeNil)
		})
	})
}
