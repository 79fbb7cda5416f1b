package main

import (
	"fmt"

	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/config"
	"github.com/handiism/fomu/internal/model"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// options holds the command line flags shared by all commands.
type options struct {
	configPath  string
	cacheDir    string
	preset      string
	volume      float64
	workers     int
	debug       bool
	clearTracks bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "fomu",
		Short: "Ambient focus music in your terminal",
		Long: `fomu plays a curated pool of Creative Commons ambient tracks by Scott Buckley.

Pick a preset and playback starts as soon as the first track is cached;
the rest of the library downloads in the background.

Keys: space pause, +/- volume, n skip, p preset, v visualizer, q quit.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlayer(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: ~/.config/fomu/config.yaml)")
	pf.StringVar(&opts.cacheDir, "cache-dir", "", "Track cache directory (default: ~/.local/share/fomu/tracks/scott-buckley)")
	pf.StringVar(&opts.preset, "preset", "", "Preset to play (see 'fomu presets')")
	pf.IntVar(&opts.workers, "workers", 0, "Concurrent downloads")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.Flags().Float64Var(&opts.volume, "volume", 0, "Initial volume between 0 and 1")
	cmd.Flags().BoolVar(&opts.clearTracks, "clear-tracks", false, "Delete downloaded tracks and exit")

	cmd.AddCommand(newFetchCmd(opts), newPresetsCmd())
	return cmd
}

// loadSettings reads the config file and applies the flags the user set.
// Flags win over the file and the environment.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Settings, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return nil, configError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		settings.CacheDir = opts.cacheDir
	}
	if flags.Changed("preset") {
		settings.Preset = opts.preset
	}
	if flags.Changed("volume") {
		settings.Volume = opts.volume
	}
	if flags.Changed("workers") {
		settings.Workers = opts.workers
	}
	if opts.debug {
		settings.LogLevel = "debug"
	}

	if err := settings.Validate(); err != nil {
		return nil, configError(err)
	}
	return settings, nil
}

// loadCatalog returns the built-in catalog and the preset to play.
func loadCatalog(name string) (*catalog.Catalog, model.Preset, error) {
	c := catalog.Default()
	if err := c.Validate(); err != nil {
		return nil, model.Preset{}, configError(err)
	}
	p, err := c.Preset(name)
	if err != nil {
		return nil, model.Preset{}, configError(err)
	}
	return c, p, nil
}
