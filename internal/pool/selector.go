package pool

import (
	"math/rand/v2"
	"time"
)

// Selector draws tracks from a resolved pool. It remembers what was drawn
// in the current round so every track plays once before any repeats.
//
// Selector is not safe for concurrent use; the playback engine owns it.
type Selector struct {
	rng    *rand.Rand
	played map[string]bool
}

// NewSelector creates a Selector. A nil rng seeds one from the clock.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Selector{rng: rng, played: make(map[string]bool)}
}

// Reset starts a new novelty round.
func (s *Selector) Reset() {
	s.played = make(map[string]bool)
}

// Next draws a track id from pool.
//
// previous is never returned when the pool has two or more members.
// eligible, when non-nil, restricts the candidates (e.g. to cached tracks);
// such filtered draws never reset the round. An unfiltered draw that finds
// every candidate already played starts a new round.
func (s *Selector) Next(pool []string, weights map[string]float64, previous string, eligible func(string) bool) (string, bool) {
	var base []string
	for _, id := range pool {
		if len(pool) >= 2 && id == previous {
			continue
		}
		if eligible != nil && !eligible(id) {
			continue
		}
		base = append(base, id)
	}
	if len(base) == 0 {
		return "", false
	}

	var novel []string
	for _, id := range base {
		if !s.played[id] {
			novel = append(novel, id)
		}
	}
	if len(novel) == 0 {
		if eligible == nil {
			s.Reset()
		}
		novel = base
	}

	id := s.draw(novel, weights)
	s.played[id] = true
	return id, true
}

// MarkPlayed records id as drawn in the current round.
func (s *Selector) MarkPlayed(id string) {
	s.played[id] = true
}

// Unmark returns id to the current round, e.g. when it was drawn but could
// not be played yet.
func (s *Selector) Unmark(id string) {
	delete(s.played, id)
}

func (s *Selector) draw(candidates []string, weights map[string]float64) string {
	total := 0.0
	for _, id := range candidates {
		total += weightOf(weights, id)
	}

	r := s.rng.Float64() * total
	for _, id := range candidates {
		r -= weightOf(weights, id)
		if r < 0 {
			return id
		}
	}
	return candidates[len(candidates)-1]
}

func weightOf(weights map[string]float64, id string) float64 {
	if w, ok := weights[id]; ok && w > 0 {
		return w
	}
	return 1
}
