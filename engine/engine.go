// Package engine defines the contract between the playback adapter and an external media engine.
//
// An engine accepts a media locator, exposes transport controls and a video-output binding,
// and reports what happens through an ordered stream of typed events delivered on its own goroutine.
package engine

import "errors"

// ErrReleased is returned by engine operations issued after Release.
var ErrReleased = errors.New("engine released")

// Video describes a native drawable the engine renders into.
type Video struct {
	// Handle is the platform window or surface identifier.
	Handle uintptr
	Width  int
	Height int
}

// Engine is a media decoding/rendering backend.
//
// Commands are fire-and-forget: a nil error only means the engine accepted the request,
// the effect is observed later through Events. Times are in milliseconds.
type Engine interface {
	// Load installs a new media for the locator, replacing any current one.
	// Playback does not start until Play.
	Load(locator string) error

	// Unload drops the current media.
	Unload() error

	Play() error
	Pause() error
	Stop() error

	// SetTime requests a jump to the absolute position.
	SetTime(ms int64) error

	// IsPlaying reports the engine's last known transport state.
	IsPlaying() bool

	// AttachVideo binds the video output to a drawable and sizes it.
	AttachVideo(v Video) error

	// DetachVideo unbinds the video output.
	DetachVideo() error

	// Events is closed once the engine is released.
	Events() <-chan Event

	// Release tears the engine down. It is safe to call more than once.
	Release() error
}
