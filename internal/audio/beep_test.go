package audio

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestVolumeToExponent(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{-1, MinVolumeDB},
		{0, MinVolumeDB},
		{0.25, -5},
		{1, 0},
		{2, 0},
	}

	for _, tt := range tests {
		if got := volumeToExponent(tt.level); got != tt.want {
			t.Errorf("volumeToExponent(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}

	if volumeToExponent(0.5) <= volumeToExponent(0.4) {
		t.Error("volumeToExponent is not increasing")
	}
}

func TestBeepOutput_LoadGarbage(t *testing.T) {
	out := NewBeepOutput(zerolog.Nop())
	defer out.Close()

	_, err := out.Load([]byte("definitely not an mp3 stream"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Load() error = %v, want ErrDecode", err)
	}
}

func TestEventKindString(t *testing.T) {
	if EventCompleted.String() != "completed" || EventError.String() != "error" {
		t.Errorf("unexpected kind names: %v %v", EventCompleted, EventError)
	}
}
