package audio

import (
	"errors"
	"time"
)

var (
	// ErrDecode is returned by Load when the bytes are not playable audio.
	ErrDecode = errors.New("audio decode failed")

	// ErrDevice is returned when the output device cannot be opened.
	ErrDevice = errors.New("audio device unavailable")
)

// EventKind identifies an asynchronous playback event.
type EventKind int

const (
	// EventCompleted is sent once when a handle plays to the end.
	EventCompleted EventKind = iota

	// EventError is sent when playback of a handle fails midway.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventCompleted:
		return "completed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event reports the end of playback for a handle.
type Event struct {
	Handle uint64
	Kind   EventKind
	Err    error
}

// Handle controls one loaded track.
type Handle interface {
	// ID is unique per Output and increases with every Load.
	ID() uint64
	Play()
	Pause()
	Resume()
	Stop()
	// SetVolume takes a linear level in [0, 1].
	SetVolume(v float64)
	// Position returns how far playback has progressed.
	Position() (elapsed, total time.Duration)
	// Levels returns the loudness and spectrum of the audio played most
	// recently.
	Levels() Levels
}

// Output turns encoded audio into sound.
type Output interface {
	Load(data []byte) (Handle, error)
	Events() <-chan Event
	Close() error
}
