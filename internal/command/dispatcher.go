// Package command maps discrete user commands onto the playback engine and
// the downloader.
package command

import (
	"fmt"

	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/playback"
	"github.com/handiism/fomu/internal/pool"
	"github.com/rs/zerolog"
)

// DefaultVolumeStep is the change applied by VolumeUp and VolumeDown.
const DefaultVolumeStep = 0.05

// Kind identifies a command.
type Kind int

const (
	TogglePause Kind = iota
	Pause
	Resume
	VolumeUp
	VolumeDown
	Skip
	SelectPreset
	NextPreset
	PrevPreset
	Quit
)

var kindNames = map[Kind]string{
	TogglePause:  "toggle-pause",
	Pause:        "pause",
	Resume:       "resume",
	VolumeUp:     "volume-up",
	VolumeDown:   "volume-down",
	Skip:         "skip",
	SelectPreset: "select-preset",
	NextPreset:   "next-preset",
	PrevPreset:   "prev-preset",
	Quit:         "quit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is a single user request. Preset is only read by SelectPreset.
type Command struct {
	Kind   Kind
	Preset string
}

// Player is the part of the playback engine commands drive.
type Player interface {
	TogglePause()
	Pause()
	Resume()
	AdjustVolume(delta float64)
	Skip()
	SetPreset(name string) error
	Quit()
	Snapshot() playback.Snapshot
}

// Prioritizer reorders pending downloads.
type Prioritizer interface {
	Prioritize(ids []string)
}

// Dispatcher executes commands synchronously. It never blocks on I/O.
type Dispatcher struct {
	player    Player
	catalog   *catalog.Catalog
	resolver  *pool.Resolver
	downloads Prioritizer
	step      float64
	stop      func()
	logger    zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithVolumeStep overrides DefaultVolumeStep.
func WithVolumeStep(step float64) Option {
	return func(d *Dispatcher) {
		if step > 0 {
			d.step = step
		}
	}
}

// WithStop registers a function called on Quit, e.g. to cancel background
// downloads.
func WithStop(stop func()) Option {
	return func(d *Dispatcher) {
		d.stop = stop
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a Dispatcher. downloads may be nil.
func New(player Player, c *catalog.Catalog, downloads Prioritizer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		player:    player,
		catalog:   c,
		resolver:  pool.NewResolver(c),
		downloads: downloads,
		step:      DefaultVolumeStep,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes cmd. Only preset selection can fail.
func (d *Dispatcher) Dispatch(cmd Command) error {
	d.logger.Debug().Stringer("command", cmd.Kind).Str("preset", cmd.Preset).Msg("Dispatch")

	switch cmd.Kind {
	case TogglePause:
		d.player.TogglePause()
	case Pause:
		d.player.Pause()
	case Resume:
		d.player.Resume()
	case VolumeUp:
		d.player.AdjustVolume(d.step)
	case VolumeDown:
		d.player.AdjustVolume(-d.step)
	case Skip:
		d.player.Skip()
	case SelectPreset:
		return d.selectPreset(cmd.Preset)
	case NextPreset:
		return d.selectPreset(CyclePreset(d.catalog, d.player.Snapshot().Preset.Name, 1))
	case PrevPreset:
		return d.selectPreset(CyclePreset(d.catalog, d.player.Snapshot().Preset.Name, -1))
	case Quit:
		d.player.Quit()
		if d.stop != nil {
			d.stop()
		}
	default:
		return fmt.Errorf("unknown command %v", cmd.Kind)
	}
	return nil
}

func (d *Dispatcher) selectPreset(name string) error {
	if err := d.player.SetPreset(name); err != nil {
		return err
	}
	if d.downloads != nil {
		p, err := d.catalog.Preset(name)
		if err != nil {
			return err
		}
		d.downloads.Prioritize(d.resolver.Resolve(p))
	}
	return nil
}

// CyclePreset returns the preset name delta steps away from name, wrapping
// around the catalog order. Unknown names count as the first preset.
func CyclePreset(c *catalog.Catalog, name string, delta int) string {
	names := c.PresetNames()
	if len(names) == 0 {
		return ""
	}
	i := c.PresetIndex(name)
	if i < 0 {
		i = 0
	}
	return names[((i+delta)%len(names)+len(names))%len(names)]
}
