package adapter

import "strings"

// Action is a bitmask of transport actions a host may offer.
type Action int64

const (
	ActionSkipToPrevious Action = 0x10
	ActionRewind         Action = 0x20
	ActionPlayPause      Action = 0x40
	ActionFastForward    Action = 0x80
	ActionSkipToNext     Action = 0x100
	ActionRepeat         Action = 0x200
	ActionShuffle        Action = 0x400
)

var actionNames = []struct {
	action Action
	name   string
}{
	{ActionSkipToPrevious, "skip-to-previous"},
	{ActionRewind, "rewind"},
	{ActionPlayPause, "play-pause"},
	{ActionFastForward, "fast-forward"},
	{ActionSkipToNext, "skip-to-next"},
	{ActionRepeat, "repeat"},
	{ActionShuffle, "shuffle"},
}

// Has reports whether every bit of other is set.
func (a Action) Has(other Action) bool {
	return a&other == other
}

// String lists the set actions separated by "|".
func (a Action) String() string {
	var names []string
	for _, n := range actionNames {
		if a.Has(n.action) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
