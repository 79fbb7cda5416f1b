package command

import (
	"errors"
	"slices"
	"testing"

	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/playback"
)

type fakePlayer struct {
	calls  []string
	volume float64
	preset string
}

func (p *fakePlayer) TogglePause()           { p.calls = append(p.calls, "toggle") }
func (p *fakePlayer) Pause()                 { p.calls = append(p.calls, "pause") }
func (p *fakePlayer) Resume()                { p.calls = append(p.calls, "resume") }
func (p *fakePlayer) AdjustVolume(d float64) { p.volume += d }
func (p *fakePlayer) Skip()                  { p.calls = append(p.calls, "skip") }
func (p *fakePlayer) Quit()                  { p.calls = append(p.calls, "quit") }

func (p *fakePlayer) SetPreset(name string) error {
	c := catalog.Default()
	if _, err := c.Preset(name); err != nil {
		return err
	}
	p.preset = name
	p.calls = append(p.calls, "preset:"+name)
	return nil
}

func (p *fakePlayer) Snapshot() playback.Snapshot {
	var s playback.Snapshot
	s.Preset.Name = p.preset
	return s
}

type fakePrioritizer struct {
	batches [][]string
}

func (f *fakePrioritizer) Prioritize(ids []string) {
	f.batches = append(f.batches, ids)
}

func TestDispatch_Playback(t *testing.T) {
	player := &fakePlayer{}
	d := New(player, catalog.Default(), nil)

	for _, k := range []Kind{TogglePause, Pause, Resume, Skip} {
		if err := d.Dispatch(Command{Kind: k}); err != nil {
			t.Fatalf("Dispatch(%v) error = %v", k, err)
		}
	}

	want := []string{"toggle", "pause", "resume", "skip"}
	if !slices.Equal(player.calls, want) {
		t.Errorf("calls = %v, want %v", player.calls, want)
	}
}

func TestDispatch_Volume(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		cmds []Kind
		want float64
	}{
		{"default step up", nil, []Kind{VolumeUp}, DefaultVolumeStep},
		{"default step down", nil, []Kind{VolumeDown, VolumeDown}, -2 * DefaultVolumeStep},
		{"custom step", []Option{WithVolumeStep(0.1)}, []Kind{VolumeUp}, 0.1},
		{"invalid step ignored", []Option{WithVolumeStep(-1)}, []Kind{VolumeUp}, DefaultVolumeStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{}
			d := New(player, catalog.Default(), nil, tt.opts...)
			for _, k := range tt.cmds {
				d.Dispatch(Command{Kind: k})
			}
			if player.volume != tt.want {
				t.Errorf("volume delta = %v, want %v", player.volume, tt.want)
			}
		})
	}
}

func TestDispatch_SelectPresetPrioritizesDownloads(t *testing.T) {
	player := &fakePlayer{preset: "focus"}
	downloads := &fakePrioritizer{}
	c := catalog.Default()
	d := New(player, c, downloads)

	if err := d.Dispatch(Command{Kind: SelectPreset, Preset: "relax"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if player.preset != "relax" {
		t.Errorf("preset = %q, want relax", player.preset)
	}
	if len(downloads.batches) != 1 {
		t.Fatalf("Prioritize called %d times, want 1", len(downloads.batches))
	}
	var calm []string
	for _, tr := range c.TracksInPool("calm-focus") {
		calm = append(calm, tr.ID)
	}
	if !slices.Equal(downloads.batches[0], calm) {
		t.Errorf("prioritized %v, want the calm-focus pool %v", downloads.batches[0], calm)
	}
}

func TestDispatch_UnknownPreset(t *testing.T) {
	player := &fakePlayer{preset: "focus"}
	downloads := &fakePrioritizer{}
	d := New(player, catalog.Default(), downloads)

	err := d.Dispatch(Command{Kind: SelectPreset, Preset: "nope"})
	if !errors.Is(err, catalog.ErrUnknownPreset) {
		t.Errorf("Dispatch() error = %v, want ErrUnknownPreset", err)
	}
	if player.preset != "focus" || len(downloads.batches) != 0 {
		t.Error("unknown preset changed state")
	}
}

func TestDispatch_CyclePresets(t *testing.T) {
	player := &fakePlayer{preset: "focus"}
	d := New(player, catalog.Default(), nil)

	d.Dispatch(Command{Kind: NextPreset})
	if player.preset != "deep" {
		t.Errorf("after next: %q, want deep", player.preset)
	}
	d.Dispatch(Command{Kind: PrevPreset})
	d.Dispatch(Command{Kind: PrevPreset})
	if player.preset != "morning" {
		t.Errorf("after prev twice: %q, want morning (wrapped)", player.preset)
	}
}

func TestCyclePreset(t *testing.T) {
	c := catalog.Default()
	tests := []struct {
		name  string
		from  string
		delta int
		want  string
	}{
		{"forward", "focus", 1, "deep"},
		{"wrap forward", "morning", 1, "focus"},
		{"wrap backward", "focus", -1, "morning"},
		{"unknown starts at first", "nope", 1, "deep"},
		{"zero", "flow", 0, "flow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CyclePreset(c, tt.from, tt.delta); got != tt.want {
				t.Errorf("CyclePreset(%q, %d) = %q, want %q", tt.from, tt.delta, got, tt.want)
			}
		})
	}
}

func TestDispatch_Quit(t *testing.T) {
	player := &fakePlayer{}
	stopped := false
	d := New(player, catalog.Default(), nil, WithStop(func() { stopped = true }))

	if err := d.Dispatch(Command{Kind: Quit}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !stopped || !slices.Equal(player.calls, []string{"quit"}) {
		t.Errorf("stopped = %v calls = %v", stopped, player.calls)
	}
}

func TestDispatch_UnknownKind(t *testing.T) {
	d := New(&fakePlayer{}, catalog.Default(), nil)
	if err := d.Dispatch(Command{Kind: Kind(99)}); err == nil {
		t.Error("Dispatch() with unknown kind returned nil")
	}
	if Kind(99).String() != "command(99)" || Skip.String() != "skip" {
		t.Error("unexpected Kind names")
	}
}
