// Package history persists resume points so playback can continue where it stopped.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/epcltv/epcltv/filesystem"
	"github.com/epcltv/epcltv/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// cacher is the disk-backed registry of resume points, keyed by locator.
var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var now = time.Now

// mu serializes every read-modify-write of the cached registry. gache hands
// out its in-memory map, so it never leaves this package unguarded.
var mu sync.Mutex

// load returns a private copy of the registry. mu must be held.
func load() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}

	saved := make(map[string]*Entry, len(cached))
	if expired {
		return saved, nil
	}
	for locator, entry := range cached {
		if entry == nil {
			continue
		}
		copied := *entry
		saved[locator] = &copied
	}
	return saved, nil
}

// Get returns every saved resume point.
func Get() (map[string]*Entry, error) {
	mu.Lock()
	defer mu.Unlock()
	return load()
}

// Lookup returns the resume point saved for locator.
func Lookup(locator string) (mo.Option[*Entry], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[*Entry](), err
	}
	entry, ok := saved[locator]
	if !ok {
		return mo.None[*Entry](), nil
	}
	return mo.Some(entry), nil
}

// Save records position and duration, in milliseconds, for locator.
func Save(locator string, position, duration int64) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	saved[locator] = &Entry{
		Locator:  locator,
		Position: position,
		Duration: duration,
		SavedAt:  now(),
	}

	return cacher.Set(saved)
}

// Remove deletes the resume point for locator, if any.
func Remove(locator string) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}
	if _, ok := saved[locator]; !ok {
		return nil
	}

	delete(saved, locator)
	return cacher.Set(saved)
}

// Clear deletes every resume point.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return cacher.Set(make(map[string]*Entry))
}

// Search returns the entries whose locator fuzzily matches query, most recent first.
// An empty query matches everything.
func Search(query string) ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	entries := lo.Filter(lo.Values(saved), func(e *Entry, _ int) bool {
		return query == "" || fuzzy.MatchFold(query, e.Locator)
	})

	slices.SortFunc(entries, func(a, b *Entry) int {
		return b.SavedAt.Compare(a.SavedAt)
	})
	return entries, nil
}
