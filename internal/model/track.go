package model

import (
	"regexp"
	"strings"
)

// Pool is a tag-defined grouping of tracks.
type Pool string

const (
	PoolCalmFocus      Pool = "calm-focus"
	PoolAtmospheric    Pool = "atmospheric"
	PoolGentleMovement Pool = "gentle-movement"
)

// Track represents a single track of the catalog.
//
// Track contains everything needed to fetch and play one song:
//   - ID, a stable slug used as the cache key
//   - Title and Artist for display and ID3 tagging
//   - Pools the track belongs to
//   - SourceURL to download the MP3 from
//   - FileName, the local file name inside the cache directory
type Track struct {
	// ID is the unique slug of the track, e.g. "she-moved-mountains".
	ID string

	// Title is the human readable track title.
	Title string

	// Artist is the track author.
	Artist string

	// Pools lists the pool tags of this track.
	Pools []Pool

	// SourceURL is the URL to download the MP3 from.
	SourceURL string

	// FileName is the local file name, derived from ID.
	FileName string
}

// NewTrack creates a new Track with a computed file name.
//
// Invalid filename characters in the ID are replaced with underscores.
func NewTrack(id, title, artist, sourceURL string, pools ...Pool) *Track {
	return &Track{
		ID:        id,
		Title:     title,
		Artist:    artist,
		Pools:     pools,
		SourceURL: sourceURL,
		FileName:  sanitizeFileName(id) + ".mp3",
	}
}

// InPool reports whether the track carries the given pool tag.
func (t *Track) InPool(pool Pool) bool {
	for _, p := range t.Pools {
		if p == pool {
			return true
		}
	}
	return false
}

// PoolWeight is one weighted entry of a preset.
type PoolWeight struct {
	Pool   Pool
	Weight float64
}

// Preset is a named selection of pools with relative weights.
type Preset struct {
	Name        string
	Description string

	// HzMin and HzMax describe the entrainment range the preset aims for.
	HzMin float64
	HzMax float64

	Pools []PoolWeight
}

// HzCenter returns the center of the preset frequency range.
func (p *Preset) HzCenter() float64 {
	return (p.HzMin + p.HzMax) / 2
}

// PoolNames returns the preset pool tags in order.
func (p *Preset) PoolNames() []string {
	names := make([]string, len(p.Pools))
	for i, pw := range p.Pools {
		names[i] = string(pw.Pool)
	}
	return names
}

var (
	invalidChars       = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots       = regexp.MustCompile(`\.+$`)
	repeatedWhitespace = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file names.
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedWhitespace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
