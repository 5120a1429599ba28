package history

import (
	"fmt"
	"time"

	"github.com/epcltv/epcltv/util"
)

// Entry is the saved resume point of a single media locator.
type Entry struct {
	Locator string `json:"locator"`
	// Position and Duration are in milliseconds. Duration is -1 for live streams.
	Position int64     `json:"position"`
	Duration int64     `json:"duration"`
	SavedAt  time.Time `json:"saved_at"`
}

// Percent is the watched share of the media, 0 when its duration is unknown.
func (e *Entry) Percent() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return float64(e.Position) / float64(e.Duration) * 100
}

func (e *Entry) String() string {
	if e.Duration <= 0 {
		return fmt.Sprintf("%s : %s", e.Locator, util.FormatMillis(e.Position))
	}
	return fmt.Sprintf("%s : %s / %s", e.Locator, util.FormatMillis(e.Position), util.FormatMillis(e.Duration))
}
