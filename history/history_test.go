package history

import (
	"sync"
	"testing"
	"time"

	"github.com/epcltv/epcltv/adapter"
	"github.com/epcltv/epcltv/engine"
	"github.com/epcltv/epcltv/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		Convey("Lookup finds nothing", func() {
			entry, err := Lookup("http://tv/a.ts")
			So(err, ShouldBeNil)
			So(entry.IsAbsent(), ShouldBeTrue)
		})

		Convey("When saving a resume point", func() {
			So(Save("http://tv/a.ts", 30_000, 120_000), ShouldBeNil)

			Convey("Then it can be looked up", func() {
				entry, err := Lookup("http://tv/a.ts")
				So(err, ShouldBeNil)
				So(entry.IsPresent(), ShouldBeTrue)
				So(entry.MustGet().Position, ShouldEqual, 30_000)
				So(entry.MustGet().Percent(), ShouldEqual, 25)
				So(entry.MustGet().String(), ShouldEqual, "http://tv/a.ts : 00:30 / 02:00")
			})

			Convey("Then saving again overwrites it", func() {
				So(Save("http://tv/a.ts", 60_000, 120_000), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 1)
				So(saved["http://tv/a.ts"].Position, ShouldEqual, 60_000)
			})

			Convey("Then removing it forgets it", func() {
				So(Remove("http://tv/a.ts"), ShouldBeNil)
				So(Remove("http://tv/a.ts"), ShouldBeNil)
				entry, err := Lookup("http://tv/a.ts")
				So(err, ShouldBeNil)
				So(entry.IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Search matches locators fuzzily, most recent first", func() {
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			defer func() { now = time.Now }()

			for i, locator := range []string{"http://tv/news.ts", "/srv/rec/Movie.mkv", "http://tv/sports.ts"} {
				now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
				So(Save(locator, 1000, 2000), ShouldBeNil)
			}

			all, err := Search("")
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 3)
			So(all[0].Locator, ShouldEqual, "http://tv/sports.ts")

			tv, err := Search("tvts")
			So(err, ShouldBeNil)
			So(tv, ShouldHaveLength, 2)
			So(tv[1].Locator, ShouldEqual, "http://tv/news.ts")

			movie, err := Search("movie")
			So(err, ShouldBeNil)
			So(movie, ShouldHaveLength, 1)
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	Convey("Given writers and readers on separate goroutines", t, func() {
		So(Clear(), ShouldBeNil)

		var wg sync.WaitGroup
		errs := make(chan error, 600)
		wg.Add(3)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				errs <- Save("http://tv/a.ts", int64(i), 1000)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				errs <- Remove("http://tv/a.ts")
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, err := Search("tv")
				errs <- err
			}
		}()
		wg.Wait()
		close(errs)

		Convey("Every operation succeeds", func() {
			for err := range errs {
				So(err, ShouldBeNil)
			}
		})
	})

	Convey("Returned entries are private copies", t, func() {
		So(Clear(), ShouldBeNil)
		So(Save("http://tv/a.ts", 1000, 2000), ShouldBeNil)

		saved, err := Get()
		So(err, ShouldBeNil)
		saved["http://tv/a.ts"].Position = 9999
		delete(saved, "http://tv/a.ts")

		entry, err := Lookup("http://tv/a.ts")
		So(err, ShouldBeNil)
		So(entry.MustGet().Position, ShouldEqual, 1000)
	})
}

func TestEntry(t *testing.T) {
	Convey("A live entry has no percentage", t, func() {
		e := &Entry{Locator: "udp://@239.0.0.1:1234", Position: 5000, Duration: -1}
		So(e.Percent(), ShouldEqual, 0)
		So(e.String(), ShouldEqual, "udp://@239.0.0.1:1234 : 00:05")
	})
}

func playing(locator string) (*adapter.Adapter, *engine.Mock) {
	eng := engine.NewMock()
	a := adapter.New(eng)
	_, err := a.SetMediaSource(locator)
	So(err, ShouldBeNil)
	return a, eng
}

func TestTracker(t *testing.T) {
	Convey("Given a tracked media", t, func() {
		So(Clear(), ShouldBeNil)
		const locator = "http://tv/a.ts"

		clock := &fakeClock{at: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

		a, eng := playing(locator)
		Reset(a.Release)
		tracker := NewTracker(locator, 95)
		tracker.clock = clock.Now
		a.SetCallback(tracker)

		report := func(position, duration int64) {
			eng.Emit(engine.LengthChanged{Length: duration}, engine.TimeChanged{Time: position})
			So(waitFor(func() bool { return a.CurrentPosition() == position }), ShouldBeTrue)
		}
		saved := func() int64 {
			entry, err := Lookup(locator)
			So(err, ShouldBeNil)
			return entry.OrElse(&Entry{Position: -1}).Position
		}

		Convey("Position updates are saved, throttled", func() {
			report(10_000, 100_000)
			So(waitFor(func() bool { return saved() == 10_000 }), ShouldBeTrue)

			report(12_000, 100_000)
			So(saved(), ShouldEqual, 10_000)

			clock.Advance(saveInterval)
			report(20_000, 100_000)
			So(waitFor(func() bool { return saved() == 20_000 }), ShouldBeTrue)
		})

		Convey("Commit saves the final position", func() {
			report(10_000, 100_000)
			So(waitFor(func() bool { return saved() == 10_000 }), ShouldBeTrue)
			report(11_000, 100_000)

			tracker.Commit(a)
			So(saved(), ShouldEqual, 11_000)
		})

		Convey("A nearly finished media is dropped", func() {
			So(Save(locator, 1000, 100_000), ShouldBeNil)
			report(96_000, 100_000)
			So(waitFor(func() bool { return saved() == -1 }), ShouldBeTrue)
		})

		Convey("A completed media is dropped and not saved again", func() {
			So(Save(locator, 1000, 100_000), ShouldBeNil)
			eng.Emit(engine.EndReached{})
			So(waitFor(func() bool { return saved() == -1 }), ShouldBeTrue)

			tracker.Commit(a)
			So(saved(), ShouldEqual, -1)
		})
	})
}

func TestResumer(t *testing.T) {
	Convey("Given a resumer for a saved position", t, func() {
		a, eng := playing("http://tv/a.ts")
		Reset(a.Release)
		a.SetCallback(NewResumer(&Entry{Position: 42_000}))
		eng.ResetCalls()

		Convey("It seeks once when the adapter is prepared", func() {
			eng.Emit(engine.Opened{}, engine.Opened{})
			So(waitFor(func() bool { return len(eng.Calls()) > 0 }), ShouldBeTrue)
			time.Sleep(50 * time.Millisecond)
			So(eng.Calls(), ShouldResemble, []string{"time 42000"})
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

type fakeClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.at = c.at.Add(d)
	c.mu.Unlock()
}

