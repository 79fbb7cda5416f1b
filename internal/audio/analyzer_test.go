package audio

import (
	"math"
	"slices"
	"testing"

	"github.com/gopxl/beep/v2"
)

func counter() beep.Streamer {
	v := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v++
			samples[i] = [2]float64{v, 0}
		}
		return len(samples), true
	})
}

func TestTap(t *testing.T) {
	tp := newTap(counter(), 8)

	buf := make([][2]float64, 5)
	if n, ok := tp.Stream(buf); n != 5 || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	if buf[4] != [2]float64{5, 0} {
		t.Errorf("samples altered: %v", buf)
	}

	dst := make([]float64, 4)
	if fresh := tp.latest(dst); fresh != 5 {
		t.Errorf("fresh = %d, want 5", fresh)
	}
	if want := []float64{1, 1.5, 2, 2.5}; !slices.Equal(dst, want) {
		t.Errorf("latest = %v, want %v", dst, want)
	}
	if fresh := tp.latest(dst); fresh != 0 {
		t.Errorf("fresh after read = %d, want 0", fresh)
	}

	tp.Stream(make([][2]float64, 6))
	dst = dst[:3]
	tp.latest(dst)
	if want := []float64{4.5, 5, 5.5}; !slices.Equal(dst, want) {
		t.Errorf("latest after wrap = %v, want %v", dst, want)
	}
}

func sine(amplitude float64, bin int) []float64 {
	out := make([]float64, FFTSize)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*float64(bin)*float64(i)/FFTSize)
	}
	return out
}

func loudestBand(bands []float64) int {
	best := 0
	for i, b := range bands {
		if b > bands[best] {
			best = i
		}
	}
	return best
}

func TestAnalyzer_Sine(t *testing.T) {
	tests := []struct {
		name string
		bin  int
		band int
	}{
		{"low", 10, 1},
		{"mid", 300, 8},
		{"high", 950, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer()
			samples := sine(0.1, tt.bin)
			var levels Levels
			for range 40 {
				levels = a.Update(samples)
			}

			if len(levels.Bands) != NumBands {
				t.Fatalf("got %d bands, want %d", len(levels.Bands), NumBands)
			}
			if got := loudestBand(levels.Bands); got != tt.band {
				t.Errorf("loudest band = %d, want %d (bands %v)", got, tt.band, levels.Bands)
			}
			// 0.1 peak is 0.0707 RMS, displayed three times louder.
			if want := 0.1 / math.Sqrt2 * rmsGain; math.Abs(levels.RMS-want) > 1e-3 {
				t.Errorf("RMS = %v, want %v", levels.RMS, want)
			}
			for i, b := range levels.Bands {
				if b < 0 || b > 1 {
					t.Errorf("band %d = %v out of range", i, b)
				}
			}
		})
	}
}

func TestAnalyzer_SilenceAndDecay(t *testing.T) {
	a := NewAnalyzer()
	silent := a.Update(make([]float64, FFTSize))
	if silent.RMS != 0 || slices.Max(silent.Bands) != 0 {
		t.Errorf("silence = %+v, want zero levels", silent)
	}

	loud := a.Update(sine(0.5, 10))
	faded := a.Decay()
	if faded.RMS >= loud.RMS || faded.Bands[1] >= loud.Bands[1] {
		t.Errorf("Decay() did not fade: %+v -> %+v", loud, faded)
	}
	if math.Abs(faded.Bands[1]-loud.Bands[1]*decay) > 1e-12 {
		t.Errorf("band 1 = %v, want %v", faded.Bands[1], loud.Bands[1]*decay)
	}

	faded.Bands[1] = 99
	if a.Levels().Bands[1] == 99 {
		t.Error("Levels() shares its bands with the caller")
	}
}

func TestSpectrumBands(t *testing.T) {
	bins := make([]complex128, 64)
	bins[0] = complex(3, 4)
	bins[63] = complex(0, FFTSize)

	bands := spectrumBands(bins, 4)
	if len(bands) != 4 {
		t.Fatalf("got %d bands", len(bands))
	}
	// Band 0 covers bins [0, 4): mean magnitude 5/4.
	if want := 5.0 / 4 / FFTSize * bandGain; math.Abs(bands[0]-want) > 1e-12 {
		t.Errorf("band 0 = %v, want %v", bands[0], want)
	}
	if bands[1] != 0 || bands[2] != 0 {
		t.Errorf("empty bands = %v", bands[1:3])
	}
	if bands[3] <= 0 || bands[3] > 1 {
		t.Errorf("band 3 = %v, want clamped into (0, 1]", bands[3])
	}
}
