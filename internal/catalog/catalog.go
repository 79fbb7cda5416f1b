// Package catalog holds the built-in track and preset tables and the
// lookups over them.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/fomu/internal/model"
)

var (
	ErrUnknownPreset  = errors.New("unknown preset")
	ErrUnknownTrack   = errors.New("unknown track")
	ErrEmptyPreset    = errors.New("preset resolves to zero tracks")
	ErrDuplicateTrack = errors.New("duplicate track id")
)

// Catalog is an immutable set of tracks and presets.
type Catalog struct {
	tracks  []*model.Track
	byID    map[string]*model.Track
	presets []model.Preset
}

// New builds a catalog. Use Validate before handing it to the engine.
func New(tracks []*model.Track, presets []model.Preset) *Catalog {
	c := &Catalog{
		tracks:  tracks,
		byID:    make(map[string]*model.Track, len(tracks)),
		presets: presets,
	}
	for _, t := range tracks {
		if _, ok := c.byID[t.ID]; !ok {
			c.byID[t.ID] = t
		}
	}
	return c
}

// Default returns the built-in Scott Buckley catalog.
func Default() *Catalog {
	return New(defaultTracks(), defaultPresets())
}

// Tracks returns all tracks in catalog order.
func (c *Catalog) Tracks() []*model.Track {
	return c.tracks
}

// IDs returns all track ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.tracks))
	for i, t := range c.tracks {
		ids[i] = t.ID
	}
	return ids
}

// Track looks up a track by id.
func (c *Catalog) Track(id string) (*model.Track, error) {
	t, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTrack, id)
	}
	return t, nil
}

// TracksInPool returns the tracks tagged with pool, in catalog order.
func (c *Catalog) TracksInPool(pool model.Pool) []*model.Track {
	var out []*model.Track
	for _, t := range c.tracks {
		if t.InPool(pool) {
			out = append(out, t)
		}
	}
	return out
}

// Presets returns all presets in declaration order.
func (c *Catalog) Presets() []model.Preset {
	return c.presets
}

// PresetNames returns the preset names in declaration order.
func (c *Catalog) PresetNames() []string {
	names := make([]string, len(c.presets))
	for i, p := range c.presets {
		names[i] = p.Name
	}
	return names
}

// Preset looks up a preset by name.
func (c *Catalog) Preset(name string) (model.Preset, error) {
	for _, p := range c.presets {
		if p.Name == name {
			return p, nil
		}
	}
	return model.Preset{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownPreset, name, strings.Join(c.PresetNames(), ", "))
}

// PresetIndex returns the position of the named preset, or -1.
func (c *Catalog) PresetIndex(name string) int {
	for i, p := range c.presets {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks that track ids are unique and that every preset
// resolves to at least one track. Errors here are fatal at startup.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.tracks))
	for _, t := range c.tracks {
		if seen[t.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateTrack, t.ID)
		}
		seen[t.ID] = true
	}

	for _, p := range c.presets {
		count := 0
		for _, pw := range p.Pools {
			if pw.Weight <= 0 {
				continue
			}
			count += len(c.TracksInPool(pw.Pool))
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyPreset, p.Name)
		}
	}

	return nil
}
