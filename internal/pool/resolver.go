// Package pool resolves presets into ordered track pools and draws the
// next track to play from them.
package pool

import (
	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/model"
)

// Resolver turns presets into track id sequences.
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve returns the union of the preset's pools: pools in preset order,
// tracks in catalog order inside each pool, without duplicates.
// The result only depends on the catalog and the preset.
func (r *Resolver) Resolve(preset model.Preset) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, pw := range preset.Pools {
		if pw.Weight <= 0 {
			continue
		}
		for _, t := range r.catalog.TracksInPool(pw.Pool) {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Weights returns the draw weight of every track in the resolved pool.
// A track in several of the preset's pools gets the sum of their weights.
func (r *Resolver) Weights(preset model.Preset) map[string]float64 {
	weights := make(map[string]float64)
	for _, pw := range preset.Pools {
		if pw.Weight <= 0 {
			continue
		}
		for _, t := range r.catalog.TracksInPool(pw.Pool) {
			weights[t.ID] += pw.Weight
		}
	}
	return weights
}

// Contains reports whether id is part of the preset's resolved pool.
func (r *Resolver) Contains(preset model.Preset, id string) bool {
	for _, candidate := range r.Resolve(preset) {
		if candidate == id {
			return true
		}
	}
	return false
}
