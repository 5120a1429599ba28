package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/epcltv/epcltv/adapter"
	"github.com/epcltv/epcltv/history"
	"github.com/epcltv/epcltv/host"
	"github.com/epcltv/epcltv/key"
	"github.com/epcltv/epcltv/log"
	"github.com/epcltv/epcltv/mpv"
	"github.com/epcltv/epcltv/tui"
	"github.com/epcltv/epcltv/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Uint64("wid", 0, "Render into an existing native window by its id")
	playCmd.Flags().Int("width", 0, "Width of the window passed with --wid")
	playCmd.Flags().Int("height", 0, "Height of the window passed with --wid")
	playCmd.Flags().BoolP("continue", "c", false, "Continue from the saved resume point")
	playCmd.Flags().BoolP("json", "j", false, "Print notifications as JSON lines")
	playCmd.Flags().Bool("json-schema", false, "Print the JSON schema of the notifications and exit")

	playCmd.Flags().Bool("tui", true, "Show the interactive playback screen")
	lo.Must0(viper.BindPFlag(key.TUIEnabled, playCmd.Flags().Lookup("tui")))

	playCmd.Flags().Bool("resume", true, "Save the resume point while playing")
	lo.Must0(viper.BindPFlag(key.PlayerResume, playCmd.Flags().Lookup("resume")))
}

var playCmd = &cobra.Command{
	Use:     "play <locator>",
	Short:   "Play a media locator and report its playback state",
	Example: "  epcltv play http://tv.local/channels/1/live.m2ts\n  epcltv play --json --wid 0x3a00007 /srv/rec/movie.mkv",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("json-schema")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(host.Schema()))
			return
		}

		if len(args) == 0 {
			handleErr(errors.New("a media locator is required"))
		}

		CheckDependencies()

		options := playOptions{
			locator: args[0],
			resume:  lo.Must(cmd.Flags().GetBool("continue")),
			json:    lo.Must(cmd.Flags().GetBool("json")),
		}
		if wid := lo.Must(cmd.Flags().GetUint64("wid")); wid != 0 {
			options.window = mo.Some(host.NewWindowSurface(
				uintptr(wid),
				lo.Must(cmd.Flags().GetInt("width")),
				lo.Must(cmd.Flags().GetInt("height")),
			))
		}

		handleErr(play(cmd.Context(), options))
	},
}

type playOptions struct {
	locator string
	window  mo.Option[*host.WindowSurface]
	resume  bool
	json    bool
}

// completion ends a non-interactive session when the media finishes or fails.
type completion struct {
	adapter.NopCallback

	once sync.Once
	done chan struct{}
	err  error
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

func (c *completion) finish(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

func (c *completion) OnPlayCompleted(*adapter.Adapter) {
	c.finish(nil)
}

func (c *completion) OnError(_ *adapter.Adapter, code int, message string) {
	c.finish(fmt.Errorf("playback failed with error %d: %s", code, message))
}

func play(ctx context.Context, options playOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := mpv.New(mpv.OptionsFromConfig())
	if err := eng.Start(ctx); err != nil {
		_ = eng.Release()
		return err
	}

	a := adapter.New(eng)
	defer a.DetachFromHost()

	var (
		callbacks []adapter.Callback
		tracker   *history.Tracker
		model     *tui.Model
		done      = newCompletion()
	)

	if viper.GetBool(key.PlayerResume) {
		tracker = history.NewTracker(options.locator, float64(viper.GetInt(key.PlayerResumeThreshold)))
		callbacks = append(callbacks, tracker)
	}

	if options.resume {
		entry, err := history.Lookup(options.locator)
		if err != nil {
			log.Warnf("lookup resume point of %s: %v", options.locator, err)
		}
		if saved, ok := entry.Get(); ok {
			callbacks = append(callbacks, history.NewResumer(saved))
		}
	}

	var notifications adapter.Callback
	switch {
	case options.json:
		notifications = host.NewJSON(os.Stdout)
	case viper.GetBool(key.TUIEnabled) && util.IsTerminal():
		model = tui.New(a, tui.Options{
			Locator:       options.locator,
			ProgressWidth: viper.GetInt(key.TUIProgressWidth),
		})
		notifications = model.Callback()
	default:
		notifications = host.NewConsole(os.Stdout)
	}
	callbacks = append(callbacks, notifications, done)
	a.SetCallback(adapter.Multi(callbacks...))

	if window, ok := options.window.Get(); ok {
		a.AttachToHost(host.NewWindowSurfaceHost(window))
	} else {
		a.AttachToHost(notifications)
	}

	if _, err := a.SetMediaSource(options.locator); err != nil {
		return err
	}
	a.Play()

	commit := func() {
		if tracker != nil {
			tracker.Commit(a)
		}
	}

	if model != nil {
		err := tui.Run(model)
		commit()
		return err
	}

	select {
	case <-done.done:
		commit()
		return done.err
	case <-eng.Exited():
		commit()
		return errors.New("mpv exited unexpectedly")
	case <-ctx.Done():
		log.Info("interrupted")
		commit()
		return nil
	}
}
