package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Visualizer modes.
const (
	VisualizerBars    = "bars"
	VisualizerWave    = "wave"
	VisualizerMinimal = "minimal"
	VisualizerOff     = "off"
)

// Visualizers lists the visualizer modes in cycling order.
var Visualizers = []string{VisualizerBars, VisualizerWave, VisualizerMinimal, VisualizerOff}

// Per-frame tag actions.
const (
	TagModify = "modify"
	TagEmpty  = "empty"
	TagKeep   = "keep"
)

// TagActions lists the accepted tag_* values.
var TagActions = []string{TagModify, TagEmpty, TagKeep}

var logLevels = []string{"debug", "info", "warn", "error"}

// Settings holds all configuration options.
type Settings struct {
	// Library
	CacheDir string `mapstructure:"cache_dir"`

	// Playback
	Preset     string  `mapstructure:"preset"`
	Volume     float64 `mapstructure:"volume"`
	VolumeStep float64 `mapstructure:"volume_step"`

	// Downloads
	Workers        int           `mapstructure:"workers"`
	RetryBase      time.Duration `mapstructure:"retry_base"`
	RetryCap       time.Duration `mapstructure:"retry_cap"`
	FetchInterval  time.Duration `mapstructure:"fetch_interval"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	TagDownloads   bool          `mapstructure:"tag_downloads"`
	PlaylistFormat string        `mapstructure:"playlist_format"`

	// Tags, one of TagActions per ID3 frame
	TagArtist      string `mapstructure:"tag_artist"`
	TagAlbumArtist string `mapstructure:"tag_album_artist"`
	TagAlbum       string `mapstructure:"tag_album"`
	TagTitle       string `mapstructure:"tag_title"`
	TagGenre       string `mapstructure:"tag_genre"`
	TagComments    string `mapstructure:"tag_comments"`

	// Interface
	TickRate   int    `mapstructure:"tick_rate"` // frames per second
	Visualizer string `mapstructure:"visualizer"`

	// Logging
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		CacheDir: DefaultCacheDir(),

		Preset:     "focus",
		Volume:     0.8,
		VolumeStep: 0.05,

		Workers:        1,
		RetryBase:      2 * time.Second,
		RetryCap:       60 * time.Second,
		FetchInterval:  100 * time.Millisecond,
		HTTPTimeout:    2 * time.Minute,
		TagDownloads:   true,
		PlaylistFormat: "m3u",

		TagArtist:      TagModify,
		TagAlbumArtist: TagModify,
		TagAlbum:       TagModify,
		TagTitle:       TagModify,
		TagGenre:       TagModify,
		TagComments:    TagModify,

		TickRate:   15,
		Visualizer: VisualizerBars,

		LogLevel: "info",
	}
}

// DefaultCacheDir returns the track cache directory:
// $XDG_DATA_HOME/fomu/tracks/scott-buckley, falling back to ~/.local/share.
func DefaultCacheDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".fomu", "tracks", "scott-buckley")
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "fomu", "tracks", "scott-buckley")
}

// DefaultConfigDir returns ~/.config/fomu.
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "fomu")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LogPath returns the log file path: LogFile if set, otherwise fomu.log
// next to the fomu data directory.
func (s *Settings) LogPath() string {
	if s.LogFile != "" {
		return s.LogFile
	}
	// <data>/fomu/tracks/scott-buckley -> <data>/fomu/fomu.log
	return filepath.Join(filepath.Dir(filepath.Dir(s.CacheDir)), "fomu.log")
}

// Load reads settings from a YAML file and the environment.
//
// An empty path means DefaultConfigPath, which may be absent; defaults are
// used then. A path given explicitly must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetConfigType("yaml")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("FOMU")
	v.AutomaticEnv()

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a YAML file, creating its directory.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("cache_dir", s.CacheDir)
	v.Set("preset", s.Preset)
	v.Set("volume", s.Volume)
	v.Set("volume_step", s.VolumeStep)
	v.Set("workers", s.Workers)
	v.Set("retry_base", s.RetryBase.String())
	v.Set("retry_cap", s.RetryCap.String())
	v.Set("fetch_interval", s.FetchInterval.String())
	v.Set("http_timeout", s.HTTPTimeout.String())
	v.Set("tag_downloads", s.TagDownloads)
	v.Set("playlist_format", s.PlaylistFormat)
	v.Set("tag_artist", s.TagArtist)
	v.Set("tag_album_artist", s.TagAlbumArtist)
	v.Set("tag_album", s.TagAlbum)
	v.Set("tag_title", s.TagTitle)
	v.Set("tag_genre", s.TagGenre)
	v.Set("tag_comments", s.TagComments)
	v.Set("tick_rate", s.TickRate)
	v.Set("visualizer", s.Visualizer)
	v.Set("log_file", s.LogFile)
	v.Set("log_level", s.LogLevel)

	return v.WriteConfigAs(path)
}

// Validate clamps the volume and rejects values the player cannot use.
func (s *Settings) Validate() error {
	s.Volume = min(max(s.Volume, 0), 1)

	switch {
	case s.CacheDir == "":
		return fmt.Errorf("%w: cache_dir is empty", ErrInvalid)
	case s.VolumeStep <= 0 || s.VolumeStep > 1:
		return fmt.Errorf("%w: volume_step %v not in (0, 1]", ErrInvalid, s.VolumeStep)
	case s.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, s.Workers)
	case s.RetryBase <= 0 || s.RetryCap < s.RetryBase:
		return fmt.Errorf("%w: retry_base %v and retry_cap %v", ErrInvalid, s.RetryBase, s.RetryCap)
	case s.FetchInterval < 0:
		return fmt.Errorf("%w: fetch_interval is negative", ErrInvalid)
	case s.HTTPTimeout <= 0:
		return fmt.Errorf("%w: http_timeout must be positive", ErrInvalid)
	case s.TickRate < 1 || s.TickRate > 120:
		return fmt.Errorf("%w: tick_rate %d not in [1, 120]", ErrInvalid, s.TickRate)
	case !slices.Contains(Visualizers, s.Visualizer):
		return fmt.Errorf("%w: visualizer %q (want one of %v)", ErrInvalid, s.Visualizer, Visualizers)
	case !slices.Contains(logLevels, s.LogLevel):
		return fmt.Errorf("%w: log_level %q (want one of %v)", ErrInvalid, s.LogLevel, logLevels)
	case s.PlaylistFormat != "m3u" && s.PlaylistFormat != "pls":
		return fmt.Errorf("%w: playlist_format %q (want m3u or pls)", ErrInvalid, s.PlaylistFormat)
	}

	for _, tag := range s.tagActions() {
		if !slices.Contains(TagActions, tag.value) {
			return fmt.Errorf("%w: %s %q (want one of %v)", ErrInvalid, tag.key, tag.value, TagActions)
		}
	}
	return nil
}

func (s *Settings) tagActions() []struct{ key, value string } {
	return []struct{ key, value string }{
		{"tag_artist", s.TagArtist},
		{"tag_album_artist", s.TagAlbumArtist},
		{"tag_album", s.TagAlbum},
		{"tag_title", s.TagTitle},
		{"tag_genre", s.TagGenre},
		{"tag_comments", s.TagComments},
	}
}

// TickInterval returns the UI frame duration.
func (s *Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

func setDefaults(v *viper.Viper, s *Settings) {
	v.SetDefault("cache_dir", s.CacheDir)
	v.SetDefault("preset", s.Preset)
	v.SetDefault("volume", s.Volume)
	v.SetDefault("volume_step", s.VolumeStep)
	v.SetDefault("workers", s.Workers)
	v.SetDefault("retry_base", s.RetryBase)
	v.SetDefault("retry_cap", s.RetryCap)
	v.SetDefault("fetch_interval", s.FetchInterval)
	v.SetDefault("http_timeout", s.HTTPTimeout)
	v.SetDefault("tag_downloads", s.TagDownloads)
	v.SetDefault("playlist_format", s.PlaylistFormat)
	v.SetDefault("tag_artist", s.TagArtist)
	v.SetDefault("tag_album_artist", s.TagAlbumArtist)
	v.SetDefault("tag_album", s.TagAlbum)
	v.SetDefault("tag_title", s.TagTitle)
	v.SetDefault("tag_genre", s.TagGenre)
	v.SetDefault("tag_comments", s.TagComments)
	v.SetDefault("tick_rate", s.TickRate)
	v.SetDefault("visualizer", s.Visualizer)
	v.SetDefault("log_file", s.LogFile)
	v.SetDefault("log_level", s.LogLevel)
}
