// Package icon renders the playback status symbols in the variant chosen by the user.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares.
package icon

import (
	"github.com/epcltv/epcltv/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every supported icon style identifier.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a status symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Play
	Pause
	Buffering
	Done
	Info
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Success:   {emoji: "✅", nerd: "\uf00c", plain: "+", kaomoji: "(>ᴗ•)", squares: "🟩"},
	Fail:      {emoji: "❌", nerd: "\uf00d", plain: "x", kaomoji: "(×_×)", squares: "🟥"},
	Play:      {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "ᕕ( ᐛ )ᕗ", squares: "🟦"},
	Pause:     {emoji: "⏸️", nerd: "\uf04c", plain: "=", kaomoji: "(－_－) zzZ", squares: "🟨"},
	Buffering: {emoji: "⏳", nerd: "\uf252", plain: "~", kaomoji: "(・_・ヾ", squares: "🟧"},
	Done:      {emoji: "🏁", nerd: "\uf11e", plain: "#", kaomoji: "\\(ᵔᵕᵔ)/", squares: "🟪"},
	Info:      {emoji: "ℹ️", nerd: "\uf129", plain: "i", kaomoji: "(･o･)", squares: "⬜"},
}

// Get returns the representation for the configured icons variant.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for i.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
