package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/fomu/internal/audio"
	"github.com/handiism/fomu/internal/cache"
	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/command"
	"github.com/handiism/fomu/internal/config"
	"github.com/handiism/fomu/internal/download"
	"github.com/handiism/fomu/internal/http"
	"github.com/handiism/fomu/internal/logging"
	"github.com/handiism/fomu/internal/playback"
	"github.com/handiism/fomu/internal/pool"
	"github.com/handiism/fomu/internal/tui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runPlayer(cmd *cobra.Command, opts *options) error {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	c, preset, err := loadCatalog(settings.Preset)
	if err != nil {
		return err
	}

	if opts.clearTracks {
		return clearTracks(cmd, settings, c)
	}

	logger, closer, err := logging.NewFile(settings.LogPath(), logging.ParseLevel(settings.LogLevel, opts.debug))
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	logger.Info().
		Str("version", version).
		Str("preset", preset.Name).
		Str("cache", settings.CacheDir).
		Msg("Starting fomu")

	store, err := cache.Open(settings.CacheDir, c, cache.WithObserver(statusLogger(logging.Component(logger, "cache"))))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	coord, err := newCoordinator(store, c, settings, logging.Component(logger, "downloader"))
	if err != nil {
		return configError(err)
	}

	output := audio.NewBeepOutput(logging.Component(logger, "audio"))
	defer output.Close()

	engine := playback.New(c, store, coord, output,
		playback.WithLogger(logging.Component(logger, "playback")),
		playback.WithVolume(settings.Volume),
	)
	dispatcher := command.New(engine, c, coord,
		command.WithVolumeStep(settings.VolumeStep),
		command.WithStop(cancel),
		command.WithLogger(logging.Component(logger, "command")),
	)

	// The chosen preset's pool downloads first, then the rest of the catalog.
	coord.Seed(append(pool.NewResolver(c).Resolve(preset), c.IDs()...), "")
	if err := engine.Start(preset.Name); err != nil {
		return configError(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return coord.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return tui.Run(gctx, tui.Config{
			Catalog:      c,
			Player:       engine,
			Commands:     dispatcher,
			Downloads:    coord,
			Library:      store,
			TickInterval: settings.TickInterval(),
			Visualizer:   settings.Visualizer,
		})
	})

	err = g.Wait()
	engine.Quit()

	snap := engine.Snapshot()
	logger.Info().Int("played", snap.Played).Int("cached", store.ReadyCount()).Msg("Goodbye")
	return err
}

// newCoordinator builds the background downloader from settings.
func newCoordinator(store *cache.Store, c *catalog.Catalog, settings *config.Settings, logger zerolog.Logger, extra ...download.Option) (*download.Coordinator, error) {
	opts := []download.Option{
		download.WithWorkers(settings.Workers),
		download.WithBackoff(download.BackoffSchedule(settings.RetryBase, settings.RetryCap)),
		download.WithInterval(settings.FetchInterval),
		download.WithLogger(logger),
	}
	if settings.TagDownloads {
		tags, err := tagConfig(settings)
		if err != nil {
			return nil, err
		}
		opts = append(opts, download.WithPrepare(audio.NewTagger(tags).SaveTags))
	}
	opts = append(opts, extra...)

	return download.New(store, c, http.NewClient(settings.HTTPTimeout), opts...), nil
}

// tagConfig maps the tag_* settings onto the tagger's per-frame actions.
func tagConfig(settings *config.Settings) (*audio.TagConfig, error) {
	tags := &audio.TagConfig{ModifyTags: settings.TagDownloads}
	fields := []struct {
		value  string
		action *audio.TagEditAction
	}{
		{settings.TagArtist, &tags.Artist},
		{settings.TagAlbumArtist, &tags.AlbumArtist},
		{settings.TagAlbum, &tags.Album},
		{settings.TagTitle, &tags.TrackTitle},
		{settings.TagGenre, &tags.Genre},
		{settings.TagComments, &tags.Comments},
	}
	for _, f := range fields {
		action, err := audio.ParseTagEditAction(f.value)
		if err != nil {
			return nil, err
		}
		*f.action = action
	}
	return tags, nil
}

func statusLogger(logger zerolog.Logger) cache.Observer {
	return func(id string, from, to cache.Status) {
		logger.Debug().Str("track", id).Stringer("from", from).Stringer("to", to).Msg("Status changed")
	}
}

func clearTracks(cmd *cobra.Command, settings *config.Settings, c *catalog.Catalog) error {
	store, err := cache.Open(settings.CacheDir, c)
	if err != nil {
		return err
	}
	n, err := store.Clear()
	if err != nil {
		return fmt.Errorf("clear tracks: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d downloaded track(s) from %s\n", n, store.Dir())
	return nil
}
