package history

import (
	"sync"
	"time"

	"github.com/epcltv/epcltv/adapter"
	"github.com/epcltv/epcltv/log"
)

// saveInterval throttles how often position notifications hit the disk.
const saveInterval = 5 * time.Second

// Tracker is an adapter.Callback that keeps the resume point of one locator
// up to date while it plays.
type Tracker struct {
	adapter.NopCallback

	locator   string
	threshold float64
	clock     func() time.Time

	mu       sync.Mutex
	lastSave time.Time
	finished bool
}

// NewTracker tracks locator. Once more than threshold percent is watched the
// resume point is dropped instead of saved.
func NewTracker(locator string, threshold float64) *Tracker {
	return &Tracker{locator: locator, threshold: threshold, clock: time.Now}
}

func (t *Tracker) OnCurrentPositionChanged(a *adapter.Adapter) {
	t.mu.Lock()
	stamp := t.clock()
	due := !t.finished && stamp.Sub(t.lastSave) >= saveInterval
	if due {
		t.lastSave = stamp
	}
	t.mu.Unlock()

	if due {
		t.store(a.CurrentPosition(), a.Duration())
	}
}

func (t *Tracker) OnPlayCompleted(*adapter.Adapter) {
	t.mu.Lock()
	t.finished = true
	t.mu.Unlock()

	if err := Remove(t.locator); err != nil {
		log.Warnf("remove resume point of %s: %v", t.locator, err)
	}
}

// Commit saves the final position regardless of throttling.
// It must be called before the adapter is released.
func (t *Tracker) Commit(a *adapter.Adapter) {
	t.mu.Lock()
	finished := t.finished
	t.mu.Unlock()

	if !finished {
		t.store(a.CurrentPosition(), a.Duration())
	}
}

func (t *Tracker) store(position, duration int64) {
	if position <= 0 {
		return
	}

	entry := Entry{Locator: t.locator, Position: position, Duration: duration}
	if entry.Percent() >= t.threshold {
		if err := Remove(t.locator); err != nil {
			log.Warnf("remove resume point of %s: %v", t.locator, err)
		}
		return
	}

	if err := Save(t.locator, position, duration); err != nil {
		log.Warnf("save resume point of %s: %v", t.locator, err)
		return
	}
	log.Debugf("saved resume point %s", entry.String())
}

// Resumer is an adapter.Callback that seeks to a saved position the first
// time the adapter becomes prepared.
type Resumer struct {
	adapter.NopCallback

	position int64
	once     sync.Once
}

// NewResumer seeks to the position saved in entry.
func NewResumer(entry *Entry) *Resumer {
	return &Resumer{position: entry.Position}
}

func (r *Resumer) OnPreparedStateChanged(a *adapter.Adapter) {
	if !a.IsPrepared() {
		return
	}
	r.once.Do(func() {
		log.Infof("resuming at %dms", r.position)
		a.SeekTo(r.position)
	})
}
