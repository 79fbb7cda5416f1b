package tui

import (
	"math"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderBars(t *testing.T) {
	lines := renderBars([]float64{1, 0, 0.5}, 11, 4)
	if len(lines) != 4 {
		t.Fatalf("rows = %d, want 4", len(lines))
	}
	for i, l := range lines {
		if w := utf8.RuneCountInString(l); w != 11 {
			t.Errorf("row %d width = %d, want 11", i, w)
		}
	}

	// Full bar fills every row, empty bar none.
	for i, l := range lines {
		r := []rune(l)
		if r[0] != '█' {
			t.Errorf("row %d of full bar = %q", i, r[0])
		}
		if r[4] != ' ' {
			t.Errorf("row %d of empty bar = %q", i, r[4])
		}
	}
	if !strings.Contains(lines[3], "███") {
		t.Errorf("bottom row = %q, half bar should reach it", lines[3])
	}

	if got := renderBars(nil, 10, 4); got != nil {
		t.Errorf("renderBars(nil) = %v", got)
	}
}

func TestRenderMinimal(t *testing.T) {
	tests := []struct {
		rms  float64
		want int
	}{
		{0, 0},
		{1, 10},
		{0.5, 5},
		{3, 10},
		{-1, 0},
	}

	for _, tt := range tests {
		line := renderMinimal(tt.rms, 10)
		if got := strings.Count(line, "━"); got != tt.want {
			t.Errorf("renderMinimal(%v) filled = %d, want %d", tt.rms, got, tt.want)
		}
		if w := utf8.RuneCountInString(line); w != 10 {
			t.Errorf("renderMinimal(%v) width = %d, want 10", tt.rms, w)
		}
	}
}

func TestRenderWave(t *testing.T) {
	if got := renderWave([]float64{1}, 0, 0, 5); got != nil {
		t.Errorf("zero width = %v", got)
	}

	silent := renderWave(nil, 0, 12, 5)
	if len(silent) != 5 {
		t.Fatalf("rows = %d, want 5", len(silent))
	}
	for i, l := range silent {
		if strings.TrimSpace(l) != "" || utf8.RuneCountInString(l) != 12 {
			t.Errorf("silent row %d = %q", i, l)
		}
	}

	// The newest value is drawn in the rightmost column.
	lines := renderWave([]float64{0, 0, 1}, math.Pi/2, 3, 5)
	bottom := []rune(lines[4])
	if bottom[2] != '█' || bottom[0] != ' ' {
		t.Errorf("bottom row = %q, want only the last column filled", lines[4])
	}

	long := make([]float64, 40)
	for i := range long {
		long[i] = 1
	}
	for i, l := range renderWave(long, 0, 10, 3) {
		if w := utf8.RuneCountInString(l); w != 10 {
			t.Errorf("row %d width = %d, want 10", i, w)
		}
	}
}

func TestPushHistory(t *testing.T) {
	var h []float64
	for i := 1; i <= 5; i++ {
		h = pushHistory(h, float64(i), 3)
	}
	if want := []float64{3, 4, 5}; !slices.Equal(h, want) {
		t.Errorf("history = %v, want %v", h, want)
	}

	kept := pushHistory(h, 6, 3)
	if h[0] != 3 {
		t.Error("pushHistory modified its input")
	}
	if want := []float64{4, 5, 6}; !slices.Equal(kept, want) {
		t.Errorf("history = %v, want %v", kept, want)
	}
}
