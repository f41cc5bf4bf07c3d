// Command lightsd is the render engine daemon: it wires configuration,
// logging, the LED strip, the animation runtime, the playlist
// scheduler, the audio pipeline, and the command dispatcher together
// behind the control-socket session server.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/austinm34563/treelights-go/internal/audio"
	"github.com/austinm34563/treelights-go/internal/config"
	"github.com/austinm34563/treelights-go/internal/dispatcher"
	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/logging"
	"github.com/austinm34563/treelights-go/internal/palette"
	"github.com/austinm34563/treelights-go/internal/playlist"
	"github.com/austinm34563/treelights-go/internal/runtime"
	"github.com/austinm34563/treelights-go/internal/session"
	"github.com/austinm34563/treelights-go/internal/songs"
)

func main() {
	v := viper.New()
	root := &cobra.Command{
		Use:   "lightsd",
		Short: "LED render engine daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	if err := config.BindFlags(root.Flags(), v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	log := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	entry := log.WithField("component", "lightsd")

	strip := hardware.NewMemoryStrip(cfg.LEDCount)
	rt := runtime.New(strip, entry.WithField("component", "runtime"))

	palettes := make([]palette.Palette, 0, len(palette.Store))
	for _, p := range palette.Store {
		palettes = append(palettes, p)
	}
	dwell := time.Duration(cfg.PlaylistDwellSeconds) * time.Second
	sched := playlist.New(rt, entry.WithField("component", "playlist"), palettes, dwell, 1)

	ledSink := audio.NewStripSink(strip)
	playbackSink := audio.NewMemoryPlaybackSink()
	pipeline := audio.New(ledSink, playbackSink, cfg.LEDCount, palette.Default, entry.WithField("component", "audio"))

	songLib := songs.NewDirectoryLibrary(cfg.SongsDir, entry.WithField("component", "songs"))

	d := dispatcher.New(strip, rt, sched, pipeline, playbackSink, songLib, entry.WithField("component", "dispatcher"))
	srv := session.NewWithLimit(d, entry.WithField("component", "session"), cfg.MaxClients)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ControlPort))
	if err != nil {
		return fmt.Errorf("lightsd: listen on control port: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The audio ingress listener is started once, up front, and stays up
	// for the process lifetime (spec.md §5); audio_sync_is_enabled only
	// toggles whether it drives the strip.
	if err := pipeline.Start(ctx); err != nil {
		entry.WithError(err).Warn("audio ingress listener failed to start")
	}

	entry.WithField("control_port", cfg.ControlPort).Info("lightsd listening")
	return srv.Serve(ctx, ln)
}
