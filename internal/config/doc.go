// Package config provides configuration management for fomu.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from a YAML file with FOMU_* environment overrides
//   - Saving settings back to YAML
//   - Validation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Tracks cached in ~/.local/share/fomu/tracks/scott-buckley
//	// Preset "focus", volume 0.8
//	// One download at a time, retries back off from 2s to 60s
//
// # Loading from File
//
//	settings, err := config.Load("")            // ~/.config/fomu/config.yaml
//	settings, err := config.Load("./fomu.yaml") // explicit file
//
// A missing file is not an error; defaults are used. Every key can be
// overridden from the environment with the FOMU_ prefix:
//
//	FOMU_PRESET=relax FOMU_VOLUME=0.5 fomu
//
// A missing file at the default path means defaults; a file named with
// --config must exist.
//
// # Saving Settings
//
//	settings.Preset = "deep"
//	err := settings.Save(config.DefaultConfigPath())
//
// # Configuration Options
//
//	cache_dir       directory holding downloaded tracks
//	preset          preset selected at start
//	volume          initial volume, 0 to 1
//	volume_step     change per volume key press
//	workers         concurrent downloads
//	retry_base      first retry delay (e.g. "2s")
//	retry_cap       largest retry delay (e.g. "60s")
//	fetch_interval  minimum time between download starts
//	http_timeout    timeout of a single download
//	tick_rate       UI frames per second
//	tag_downloads   write ID3 tags to downloaded files
//	tag_artist      modify, empty or keep; likewise tag_album_artist,
//	                tag_album, tag_title, tag_genre and tag_comments
//	visualizer      bars, wave, minimal or off
//	playlist_format m3u or pls, used by "fomu fetch --playlist"
//	log_file        log file path, empty for the default
//	log_level       debug, info, warn or error
package config
