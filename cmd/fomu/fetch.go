package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/handiism/fomu/internal/audio"
	"github.com/handiism/fomu/internal/cache"
	"github.com/handiism/fomu/internal/download"
	"github.com/handiism/fomu/internal/logging"
	"github.com/handiism/fomu/internal/model"
	"github.com/handiism/fomu/internal/pool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// fetchAttempts bounds retries per track; the player itself retries forever.
const fetchAttempts = 5

func newFetchCmd(opts *options) *cobra.Command {
	var (
		all      bool
		playlist bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download tracks ahead of time",
		Long: `Download the tracks of a preset (or the whole catalog with --all) into the
cache without starting playback. Interrupting leaves no partial files behind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, opts, all, playlist, verbose)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Fetch the whole catalog")
	cmd.Flags().BoolVar(&playlist, "playlist", false, "Write a playlist of the cached tracks")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")
	return cmd
}

func runFetch(cmd *cobra.Command, opts *options, all, playlist, verbose bool) error {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	c, preset, err := loadCatalog(settings.Preset)
	if err != nil {
		return err
	}

	level := logging.ParseLevel(settings.LogLevel, opts.debug)
	logger := logging.NewConsole(cmd.ErrOrStderr(), level)

	store, err := cache.Open(settings.CacheDir, c)
	if err != nil {
		return err
	}

	ids := c.IDs()
	title := "fomu"
	if !all {
		ids = pool.NewResolver(c).Resolve(preset)
		title = preset.Name
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord, err := newCoordinator(store, c, settings, logging.Component(logger, "downloader"),
		download.WithMaxAttempts(fetchAttempts),
		download.WithProgress(progressPrinter(logger, verbose)),
	)
	if err != nil {
		return configError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetching %d track(s) for %s into %s\n", len(ids), title, store.Dir())

	coord.Seed(ids, "")
	if err := coord.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Fprintln(out, "Download cancelled.")
		return &exitError{code: exitInterrupted}
	}

	var cached []*model.Track
	for _, id := range ids {
		if store.Has(id) {
			t, _ := c.Track(id)
			cached = append(cached, t)
		}
	}
	fmt.Fprintf(out, "Complete! %d/%d track(s) cached\n", len(cached), len(ids))

	if playlist && len(cached) > 0 {
		path, err := writePlaylist(store.Dir(), title, settings.PlaylistFormat, cached)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Playlist written to %s\n", path)
	}

	if len(cached) < len(ids) {
		return fmt.Errorf("%d track(s) could not be downloaded", len(ids)-len(cached))
	}
	return nil
}

// progressPrinter turns coordinator events into log lines.
func progressPrinter(logger zerolog.Logger, verbose bool) func(download.ProgressEvent) {
	return func(ev download.ProgressEvent) {
		var e *zerolog.Event
		switch ev.Level {
		case download.LevelVerbose:
			if !verbose {
				return
			}
			e = logger.Debug()
		case download.LevelWarning:
			e = logger.Warn()
		case download.LevelError:
			e = logger.Error()
		default:
			e = logger.Info()
		}
		e.Str("track", ev.TrackID).Msg(ev.Message)
	}
}

func writePlaylist(dir, title, format string, tracks []*model.Track) (string, error) {
	f, err := audio.ParsePlaylistFormat(format)
	if err != nil {
		return "", err
	}
	content := audio.NewPlaylistCreator(f, true).CreatePlaylist(title, tracks)
	path := filepath.Join(dir, title+f.Extension())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return path, nil
}
