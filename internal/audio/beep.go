package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const (
	DefaultSampleRate   = beep.SampleRate(44100)
	SpeakerBufferSize   = 200 * time.Millisecond
	VolumeCurveExponent = 0.5
	MinVolumeDB         = -10.0
	resampleQuality     = 4
	eventBufferSize     = 16
)

// BeepOutput plays MP3 data through the system speaker.
//
// The speaker is opened on the first Load; if that fails Load returns
// ErrDevice and the next Load tries again.
type BeepOutput struct {
	logger zerolog.Logger
	events chan Event
	nextID atomic.Uint64

	mu          sync.Mutex
	speakerInit bool
	closed      bool
}

// NewBeepOutput creates an output. No device is opened yet.
func NewBeepOutput(logger zerolog.Logger) *BeepOutput {
	return &BeepOutput{
		logger: logger,
		events: make(chan Event, eventBufferSize),
	}
}

// Events returns the channel of completion and error events.
func (o *BeepOutput) Events() <-chan Event {
	return o.events
}

// Load decodes data and returns a paused handle.
func (o *BeepOutput) Load(data []byte) (Handle, error) {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := o.initSpeaker(); err != nil {
		streamer.Close()
		return nil, err
	}

	var s beep.Streamer = streamer
	if format.SampleRate != DefaultSampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, DefaultSampleRate, streamer)
	}

	h := &beepHandle{
		id:       o.nextID.Add(1),
		output:   o,
		streamer: streamer,
		format:   format,
		analyzer: NewAnalyzer(),
		window:   make([]float64, FFTSize),
	}
	h.volume = &effects.Volume{
		Streamer: s,
		Base:     2,
	}
	h.tap = newTap(h.volume, tapSize)
	h.ctrl = &beep.Ctrl{
		Streamer: h.tap,
		Paused:   true,
	}

	o.logger.Debug().
		Uint64("handle", h.id).
		Int("sample_rate", int(format.SampleRate)).
		Dur("length", format.SampleRate.D(streamer.Len())).
		Msg("Track loaded")
	return h, nil
}

// Close stops all sound and releases the device.
func (o *BeepOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	if o.speakerInit {
		speaker.Clear()
		speaker.Close()
		o.speakerInit = false
	}
	return nil
}

func (o *BeepOutput) initSpeaker() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("%w: output closed", ErrDevice)
	}
	if o.speakerInit {
		return nil
	}
	if err := speaker.Init(DefaultSampleRate, DefaultSampleRate.N(SpeakerBufferSize)); err != nil {
		return fmt.Errorf("%w: %v", ErrDevice, err)
	}
	o.speakerInit = true
	o.logger.Debug().Msgf("Speaker initialized with sample rate: %d Hz, buffer: %v", DefaultSampleRate, SpeakerBufferSize)
	return nil
}

// emit runs on the speaker goroutine and must not block.
func (o *BeepOutput) emit(ev Event) {
	select {
	case o.events <- ev:
	default:
		o.logger.Warn().Uint64("handle", ev.Handle).Msg("Audio event dropped")
	}
}

type beepHandle struct {
	id       uint64
	output   *BeepOutput
	streamer beep.StreamSeekCloser
	format   beep.Format
	volume   *effects.Volume
	tap      *tap
	ctrl     *beep.Ctrl

	levelsMu sync.Mutex
	analyzer *Analyzer
	window   []float64

	// Guarded by the speaker lock.
	started bool
	stopped bool
	closed  bool
}

func (h *beepHandle) ID() uint64 {
	return h.id
}

func (h *beepHandle) Play() {
	speaker.Lock()
	if h.started || h.stopped {
		speaker.Unlock()
		return
	}
	h.started = true
	h.ctrl.Paused = false
	speaker.Unlock()

	speaker.Play(beep.Seq(h.ctrl, beep.Callback(h.finished)))
}

// finished is called with the speaker lock held.
func (h *beepHandle) finished() {
	if h.stopped {
		return
	}
	h.stopped = true

	ev := Event{Handle: h.id, Kind: EventCompleted}
	if err := h.streamer.Err(); err != nil {
		ev.Kind = EventError
		ev.Err = fmt.Errorf("%w: %v", ErrDecode, err)
	}
	h.output.emit(ev)
}

func (h *beepHandle) Pause() {
	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
}

func (h *beepHandle) Resume() {
	speaker.Lock()
	h.ctrl.Paused = false
	speaker.Unlock()
}

func (h *beepHandle) Stop() {
	speaker.Lock()
	h.stopped = true
	h.ctrl.Streamer = nil
	closed := h.closed
	h.closed = true
	speaker.Unlock()

	if !closed {
		h.streamer.Close()
	}
}

func (h *beepHandle) SetVolume(v float64) {
	speaker.Lock()
	h.volume.Volume = volumeToExponent(v)
	h.volume.Silent = v <= 0
	speaker.Unlock()
}

func (h *beepHandle) Position() (elapsed, total time.Duration) {
	speaker.Lock()
	defer speaker.Unlock()
	if h.closed {
		return 0, 0
	}
	return h.format.SampleRate.D(h.streamer.Position()), h.format.SampleRate.D(h.streamer.Len())
}

// Levels analyzes the newest samples sent to the speaker. Without new
// samples, as when paused, the previous levels fade out.
func (h *beepHandle) Levels() Levels {
	h.levelsMu.Lock()
	defer h.levelsMu.Unlock()
	if h.tap.latest(h.window) == 0 {
		return h.analyzer.Decay()
	}
	return h.analyzer.Update(h.window)
}

// volumeToExponent maps a linear level in [0, 1] to the exponent used by
// effects.Volume with base 2.
func volumeToExponent(v float64) float64 {
	if v <= 0 {
		return MinVolumeDB
	}
	if v >= 1 {
		return 0
	}
	return (1.0 - math.Pow(v, VolumeCurveExponent)) * MinVolumeDB
}
