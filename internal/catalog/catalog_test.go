package catalog

import (
	"errors"
	"testing"

	"github.com/handiism/fomu/internal/model"
)

func TestDefault_Validates(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := len(c.Tracks()); got != 19 {
		t.Errorf("len(Tracks()) = %d, want 19", got)
	}
	if got := len(c.Presets()); got != 6 {
		t.Errorf("len(Presets()) = %d, want 6", got)
	}
}

func TestDefault_PoolSizes(t *testing.T) {
	c := Default()
	tests := []struct {
		pool model.Pool
		want int
	}{
		{model.PoolCalmFocus, 7},
		{model.PoolAtmospheric, 6},
		{model.PoolGentleMovement, 6},
	}
	for _, tt := range tests {
		t.Run(string(tt.pool), func(t *testing.T) {
			if got := len(c.TracksInPool(tt.pool)); got != tt.want {
				t.Errorf("TracksInPool(%s) = %d, want %d", tt.pool, got, tt.want)
			}
		})
	}
}

func TestPreset_Lookup(t *testing.T) {
	c := Default()

	p, err := c.Preset("relax")
	if err != nil {
		t.Fatalf("Preset(relax) error = %v", err)
	}
	if len(p.Pools) != 1 || p.Pools[0].Pool != model.PoolCalmFocus {
		t.Errorf("relax pools = %v, want only calm-focus", p.Pools)
	}

	_, err = c.Preset("nope")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Preset(nope) error = %v, want ErrUnknownPreset", err)
	}

	if idx := c.PresetIndex("deep"); idx != 1 {
		t.Errorf("PresetIndex(deep) = %d, want 1", idx)
	}
}

func TestTrack_Lookup(t *testing.T) {
	c := Default()
	track, err := c.Track("aurora")
	if err != nil {
		t.Fatalf("Track(aurora) error = %v", err)
	}
	if track.Title != "Aurora" {
		t.Errorf("Title = %q, want Aurora", track.Title)
	}
	if _, err := c.Track("missing"); !errors.Is(err, ErrUnknownTrack) {
		t.Errorf("Track(missing) error = %v, want ErrUnknownTrack", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	a := model.NewTrack("a", "A", "X", "http://example.com/a.mp3", model.PoolCalmFocus)

	tests := []struct {
		name    string
		tracks  []*model.Track
		presets []model.Preset
		want    error
	}{
		{
			name:   "preset with no matching pool",
			tracks: []*model.Track{a},
			presets: []model.Preset{{Name: "empty",
				Pools: []model.PoolWeight{{Pool: model.PoolAtmospheric, Weight: 1}}}},
			want: ErrEmptyPreset,
		},
		{
			name:    "preset without pools",
			tracks:  []*model.Track{a},
			presets: []model.Preset{{Name: "bare"}},
			want:    ErrEmptyPreset,
		},
		{
			name:   "zero weight pool does not count",
			tracks: []*model.Track{a},
			presets: []model.Preset{{Name: "muted",
				Pools: []model.PoolWeight{{Pool: model.PoolCalmFocus, Weight: 0}}}},
			want: ErrEmptyPreset,
		},
		{
			name:   "duplicate ids",
			tracks: []*model.Track{a, a},
			presets: []model.Preset{{Name: "ok",
				Pools: []model.PoolWeight{{Pool: model.PoolCalmFocus, Weight: 1}}}},
			want: ErrDuplicateTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.tracks, tt.presets).Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}
