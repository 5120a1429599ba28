// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

// Media Engine - these keys configure the external mpv process driven over JSON IPC.
const (
	PlayerMPVBinary         = "player.mpv_binary"
	PlayerMPVArgs           = "player.mpv_args"
	PlayerSocketWaitRetries = "player.socket_wait_retries"
	PlayerEventBuffer       = "player.event_buffer"
)

// Resume - these keys control persistence of the last known position per media source.
const (
	PlayerResume          = "player.resume"
	PlayerResumeThreshold = "player.resume_threshold"
)

// Terminal User Interface (TUI) - these keys define the interactive playback view.
const (
	TUIEnabled       = "tui.enabled"
	TUIProgressWidth = "tui.progress_width"
)

// Iconography - manages the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)
