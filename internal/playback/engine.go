// Package playback drives what is heard: it picks tracks from the active
// preset's pool, plays the ones that are cached and waits for the rest.
//
// The Engine never touches the network. When the track it wants is not in
// the cache it asks the downloader to hurry, plays another cached track of
// the pool if there is one, and otherwise waits in the Loading state.
// Tick must be called regularly (the UI does it once per frame) to consume
// audio events and notice newly cached tracks.
package playback

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/handiism/fomu/internal/audio"
	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/model"
	"github.com/handiism/fomu/internal/pool"
	"github.com/rs/zerolog"
)

// ErrStopped is returned by operations on an engine that has quit.
var ErrStopped = errors.New("player stopped")

// DefaultVolume is the initial volume level.
const DefaultVolume = 0.8

// Library is the read side of the track cache.
type Library interface {
	Has(id string) bool
	Path(id string) (string, error)
}

// Expediter asks the downloader to fetch a track next.
type Expediter interface {
	Expedite(id string)
}

// Engine is the playback state machine.
type Engine struct {
	catalog   *catalog.Catalog
	resolver  *pool.Resolver
	selector  *pool.Selector
	library   Library
	expediter Expediter
	output    audio.Output
	readFile  func(string) ([]byte, error)
	logger    zerolog.Logger
	now       func() time.Time

	mu       sync.Mutex
	state    State
	preset   model.Preset
	pool     []string
	weights  map[string]float64
	current  *model.Track
	handle   audio.Handle
	awaiting *model.Track
	previous string
	volume   float64
	failed   map[string]bool
	played   int
	levels   audio.Levels
	notice   string
	noticeAt time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithSelector replaces the track selector, e.g. with a seeded one.
func WithSelector(s *pool.Selector) Option {
	return func(e *Engine) {
		e.selector = s
	}
}

// WithReadFile replaces os.ReadFile for loading cached tracks.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(e *Engine) {
		e.readFile = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithVolume sets the initial volume, clamped to [0, 1].
func WithVolume(v float64) Option {
	return func(e *Engine) {
		e.volume = clampVolume(v)
	}
}

// New creates an idle engine. Call Start to begin playback.
func New(c *catalog.Catalog, library Library, expediter Expediter, output audio.Output, opts ...Option) *Engine {
	e := &Engine{
		catalog:   c,
		resolver:  pool.NewResolver(c),
		library:   library,
		expediter: expediter,
		output:    output,
		readFile:  os.ReadFile,
		logger:    zerolog.Nop(),
		now:       time.Now,
		volume:    DefaultVolume,
		failed:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.selector == nil {
		e.selector = pool.NewSelector(nil)
	}
	return e
}

// Start selects the preset and begins playback.
func (e *Engine) Start(presetName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Stopped {
		return ErrStopped
	}
	if err := e.setPresetLocked(presetName); err != nil {
		return err
	}
	clear(e.failed)
	e.advanceLocked()
	return nil
}

// TogglePause pauses when playing and resumes when paused.
func (e *Engine) TogglePause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case Playing:
		e.pauseLocked()
	case Paused:
		e.resumeLocked()
	}
}

// Pause pauses playback. It does nothing unless playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Playing {
		e.pauseLocked()
	}
}

// Resume continues paused playback.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Paused {
		e.resumeLocked()
	}
}

// Skip moves on to another track of the pool.
func (e *Engine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Stopped {
		return
	}
	clear(e.failed)
	e.advanceLocked()
}

// SetPreset switches to another preset. The current track keeps playing if
// it belongs to the new pool; otherwise the engine skips.
func (e *Engine) SetPreset(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Stopped {
		return ErrStopped
	}
	if name == e.preset.Name && len(e.pool) > 0 {
		return nil
	}
	if err := e.setPresetLocked(name); err != nil {
		return err
	}
	clear(e.failed)

	if e.current != nil && (e.state == Playing || e.state == Paused) && slices.Contains(e.pool, e.current.ID) {
		e.selector.MarkPlayed(e.current.ID)
		e.logger.Info().Str("preset", name).Str("track", e.current.ID).Msg("Preset changed, current track kept")
		return nil
	}

	e.logger.Info().Str("preset", name).Msg("Preset changed")
	e.advanceLocked()
	return nil
}

// SetVolume sets the volume, clamped to [0, 1], and applies it immediately.
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setVolumeLocked(v)
}

// AdjustVolume changes the volume by delta.
func (e *Engine) AdjustVolume(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setVolumeLocked(e.volume + delta)
}

// Quit stops audio. The engine ignores every later operation.
func (e *Engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Stopped {
		return
	}
	e.stopCurrentLocked()
	e.awaiting = nil
	e.state = Stopped
	e.logger.Info().Int("played", e.played).Msg("Playback stopped")
}

// Tick consumes pending audio events, samples the audio levels and, while
// Loading, starts a track as soon as one is cached. It never blocks.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Stopped {
		return
	}

drain:
	for {
		select {
		case ev := <-e.output.Events():
			e.handleEventLocked(ev)
		default:
			break drain
		}
	}

	if e.state == Loading {
		e.resolveLoadingLocked()
	}

	e.levels = audio.Levels{}
	if e.handle != nil {
		e.levels = e.handle.Levels()
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		State:    e.state,
		Preset:   e.preset,
		Track:    e.current,
		Awaiting: e.awaiting,
		Volume:   e.volume,
		PoolSize: len(e.pool),
		Played:   e.played,
		Levels:   e.levels,
		Notice:   e.notice,
		NoticeAt: e.noticeAt,
	}
	if e.handle != nil {
		s.Elapsed, s.Duration = e.handle.Position()
	}
	return s
}

func (e *Engine) setPresetLocked(name string) error {
	p, err := e.catalog.Preset(name)
	if err != nil {
		return err
	}
	ids := e.resolver.Resolve(p)
	if len(ids) == 0 {
		return fmt.Errorf("%w: %s", catalog.ErrEmptyPreset, name)
	}

	e.preset = p
	e.pool = ids
	e.weights = e.resolver.Weights(p)
	e.selector.Reset()
	return nil
}

// advanceLocked chooses and starts the next track. Tracks that failed to
// load since the last successful start are not drawn again; once every
// track of the pool has failed the engine idles until the user skips.
func (e *Engine) advanceLocked() {
	usable := func(id string) bool { return !e.failed[id] }

	for {
		prev := e.previous
		if e.current != nil {
			prev = e.current.ID
		}
		e.stopCurrentLocked()
		e.awaiting = nil

		var filter func(string) bool
		if len(e.failed) > 0 {
			filter = usable
		}
		desired, ok := e.selector.Next(e.pool, e.weights, prev, filter)
		if !ok && filter != nil {
			// Everything but the previous track failed.
			desired, ok = e.selector.Next(e.pool, e.weights, "", filter)
		}
		if !ok {
			e.state = Idle
			e.setNoticeLocked("Playback keeps failing, press n to retry")
			e.logger.Error().Int("failures", len(e.failed)).Msg("Every track of the pool failed, idling")
			return
		}

		if e.library.Has(desired) {
			if e.startLocked(desired) {
				return
			}
			continue
		}

		e.selector.Unmark(desired)
		e.expediter.Expedite(desired)

		if alt, ok := e.selector.Next(e.pool, e.weights, prev, e.playable); ok {
			if e.startLocked(alt) {
				return
			}
			continue
		}

		e.awaiting, _ = e.catalog.Track(desired)
		e.state = Loading
		e.logger.Debug().Str("track", desired).Msg("Waiting for download")
		return
	}
}

// resolveLoadingLocked starts the awaited track once it is cached, or any
// other cached track of the pool that has not failed.
func (e *Engine) resolveLoadingLocked() {
	if e.awaiting != nil && e.playable(e.awaiting.ID) {
		if !e.startLocked(e.awaiting.ID) {
			e.advanceLocked()
		}
		return
	}

	alt, ok := e.selector.Next(e.pool, e.weights, e.previous, e.playable)
	if !ok {
		return
	}
	if !e.startLocked(alt) {
		e.advanceLocked()
	}
}

// playable reports whether id is cached and has not failed since the last
// successful start.
func (e *Engine) playable(id string) bool {
	return !e.failed[id] && e.library.Has(id)
}

// startLocked loads and plays id. On failure it records a notice, marks id
// as failed and returns false. A successful start forgets earlier failures.
func (e *Engine) startLocked(id string) bool {
	track, err := e.catalog.Track(id)
	if err != nil {
		e.failLocked(id, id, err)
		return false
	}

	path, err := e.library.Path(id)
	if err != nil {
		e.failLocked(id, track.Title, err)
		return false
	}
	data, err := e.readFile(path)
	if err != nil {
		e.failLocked(id, track.Title, err)
		return false
	}
	h, err := e.output.Load(data)
	if err != nil {
		e.failLocked(id, track.Title, err)
		return false
	}

	h.SetVolume(e.volume)
	h.Play()

	e.handle = h
	e.current = track
	e.awaiting = nil
	e.previous = id
	e.state = Playing
	e.played++
	e.selector.MarkPlayed(id)
	clear(e.failed)

	e.logger.Info().Str("track", id).Str("preset", e.preset.Name).Uint64("handle", h.ID()).Msg("Now playing")
	return true
}

func (e *Engine) handleEventLocked(ev audio.Event) {
	if e.handle == nil || ev.Handle != e.handle.ID() {
		e.logger.Debug().Uint64("handle", ev.Handle).Stringer("kind", ev.Kind).Msg("Dropping stale audio event")
		return
	}

	switch ev.Kind {
	case audio.EventCompleted:
		e.advanceLocked()
	case audio.EventError:
		track := e.current
		e.stopCurrentLocked()
		e.failLocked(track.ID, track.Title, ev.Err)
		e.advanceLocked()
	}
}

func (e *Engine) failLocked(id, name string, err error) {
	e.failed[id] = true
	e.setNoticeLocked(fmt.Sprintf("Skipped %s: %v", name, err))
	e.logger.Warn().Err(err).Str("track", id).Int("failures", len(e.failed)).Msg("Playback failed")
}

func (e *Engine) pauseLocked() {
	e.handle.Pause()
	e.state = Paused
}

func (e *Engine) resumeLocked() {
	e.handle.Resume()
	e.state = Playing
}

func (e *Engine) stopCurrentLocked() {
	if e.handle != nil {
		e.handle.Stop()
		e.handle = nil
	}
	if e.current != nil {
		e.previous = e.current.ID
		e.current = nil
	}
}

func (e *Engine) setVolumeLocked(v float64) {
	if e.state == Stopped {
		return
	}
	e.volume = clampVolume(v)
	if e.handle != nil {
		e.handle.SetVolume(e.volume)
	}
}

func (e *Engine) setNoticeLocked(msg string) {
	e.notice = msg
	e.noticeAt = e.now()
}

// clampVolume limits v to [0, 1] and rounds away float drift from repeated
// steps.
func clampVolume(v float64) float64 {
	v = math.Round(v*100) / 100
	return math.Max(0, math.Min(1, v))
}
