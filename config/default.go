package config

import (
	"errors"
	"fmt"

	"github.com/epcltv/epcltv/icon"
	"github.com/epcltv/epcltv/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Default maps every configuration key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func between(low, high int) func(any) error {
	return func(v any) error {
		if n := v.(int); n < low || n > high {
			return fmt.Errorf("%d is not within %d..%d", n, low, high)
		}
		return nil
	}
}

func oneOf(options ...string) func(any) error {
	return func(v any) error {
		if !lo.Contains(options, v.(string)) {
			return fmt.Errorf("%q is not one of %v", v, options)
		}
		return nil
	}
}

func notEmpty(v any) error {
	if v.(string) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

var fields = []Field{
	{key.LogsWrite, false, "Write logs", nil},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace",
		func(v any) error {
			_, err := logrus.ParseLevel(v.(string))
			return err
		}},
	{key.LogsJson, false, "Use json format for logs", nil},

	{key.CliColored, true, "Enable colored CLI output", nil},
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)",
		oneOf(icon.AvailableVariants()...)},

	{key.PlayerMPVBinary, "mpv", "Path or name of the mpv executable used as the media engine", notEmpty},
	{key.PlayerMPVArgs, []string{}, "Extra arguments passed to mpv on startup", nil},
	{key.PlayerSocketWaitRetries, 10, "Number of attempts to wait for the mpv IPC socket", between(1, 600)},
	{key.PlayerEventBuffer, 64, "Capacity of the engine event queue", between(1, 1<<16)},
	{key.PlayerResume, true, "Remember the last position of each media source and resume from it", nil},
	{key.PlayerResumeThreshold, 95, "Percentage after which a media source counts as finished and is not resumed (1-100)", between(1, 100)},

	{key.TUIEnabled, true, "Show the interactive playback view when attached to a terminal", nil},
	{key.TUIProgressWidth, 40, "Width of the playback progress bar", between(10, 500)},
}

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}
