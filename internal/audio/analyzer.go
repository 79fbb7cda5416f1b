package audio

import (
	"math"
	"slices"
	"sync"

	"github.com/gopxl/beep/v2"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// FFTSize is the analysis window in mono samples.
	FFTSize = 2048

	// NumBands is the number of frequency bands in Levels.
	NumBands = 16

	tapSize   = FFTSize * 4
	smoothing = 0.7
	decay     = 0.95
	rmsGain   = 3
	bandGain  = 40
)

// Levels summarizes the audio heard most recently.
type Levels struct {
	// RMS is the loudness scaled to [0, 1].
	RMS float64

	// Bands holds NumBands magnitudes in [0, 1], lowest frequencies first.
	Bands []float64
}

// tap passes samples through unchanged and keeps the newest ones, mixed
// down to mono, in a ring.
type tap struct {
	beep.Streamer

	mu    sync.Mutex
	ring  []float64
	next  int
	fresh int
}

func newTap(s beep.Streamer, size int) *tap {
	return &tap{Streamer: s, ring: make([]float64, size)}
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Streamer.Stream(samples)

	t.mu.Lock()
	for _, s := range samples[:n] {
		t.ring[t.next] = (s[0] + s[1]) / 2
		t.next = (t.next + 1) % len(t.ring)
	}
	t.fresh += n
	t.mu.Unlock()

	return n, ok
}

// latest fills dst with the newest samples, oldest first, and returns how
// many samples were streamed since the previous call.
func (t *tap) latest(dst []float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := len(t.ring)
	start := t.next - len(dst)
	for i := range dst {
		dst[i] = t.ring[((start+i)%size+size)%size]
	}
	fresh := t.fresh
	t.fresh = 0
	return fresh
}

// Analyzer turns windows of samples into smoothed Levels. It is not safe
// for concurrent use.
type Analyzer struct {
	fft    *fourier.FFT
	window []float64
	input  []float64
	coeffs []complex128

	rms   float64
	bands []float64
}

// NewAnalyzer creates an analyzer for windows of FFTSize samples.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		fft:    fourier.NewFFT(FFTSize),
		window: make([]float64, FFTSize),
		input:  make([]float64, FFTSize),
		coeffs: make([]complex128, FFTSize/2+1),
		bands:  make([]float64, NumBands),
	}
	// Hann
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(FFTSize-1)))
	}
	return a
}

// Update folds a window of exactly FFTSize samples into the levels.
func (a *Analyzer) Update(samples []float64) Levels {
	var sum float64
	for i, s := range samples[:FFTSize] {
		sum += s * s
		a.input[i] = s * a.window[i]
	}
	rms := math.Sqrt(sum / FFTSize)

	a.fft.Coefficients(a.coeffs, a.input)
	bands := spectrumBands(a.coeffs[:FFTSize/2], NumBands)

	a.rms = a.rms*smoothing + rms*(1-smoothing)
	for i, b := range bands {
		a.bands[i] = a.bands[i]*smoothing + b*(1-smoothing)
	}
	return a.Levels()
}

// Decay fades the levels, e.g. while playback is paused.
func (a *Analyzer) Decay() Levels {
	a.rms *= decay
	for i := range a.bands {
		a.bands[i] *= decay
	}
	return a.Levels()
}

// Levels returns the current levels.
func (a *Analyzer) Levels() Levels {
	return Levels{
		RMS:   math.Min(a.rms*rmsGain, 1),
		Bands: slices.Clone(a.bands),
	}
}

// spectrumBands averages the magnitudes of bins into n bands whose widths
// grow quadratically, so the low end gets most of the bands.
func spectrumBands(bins []complex128, n int) []float64 {
	bands := make([]float64, n)
	useful := len(bins)
	for i := range bands {
		lo := int(math.Pow(float64(i)/float64(n), 2) * float64(useful))
		hi := max(int(math.Pow(float64(i+1)/float64(n), 2)*float64(useful)), lo+1)
		hi = min(hi, useful)

		var sum float64
		for _, c := range bins[lo:hi] {
			sum += math.Hypot(real(c), imag(c))
		}
		if hi > lo {
			bands[i] = math.Min(sum/float64(hi-lo)/FFTSize*bandGain, 1)
		}
	}
	return bands
}
