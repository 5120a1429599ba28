package style

import "github.com/charmbracelet/lipgloss"

var (
	Text = lipgloss.Color("#cdd6f4")

	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Sapphire = lipgloss.Color("#74c7ec")
	Lavender = lipgloss.Color("#b4befe")

	AccentColor = Mauve
	ErrorColor  = Red

	// Progress bar gradient, current position to buffered position.
	ProgressStart = string(Sapphire)
	ProgressEnd   = string(Lavender)
)
