package playback

import (
	"time"

	"github.com/handiism/fomu/internal/audio"
	"github.com/handiism/fomu/internal/model"
)

// State is the playback state.
type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the engine state for rendering.
type Snapshot struct {
	State    State
	Preset   model.Preset
	Track    *model.Track // nil unless Playing or Paused
	Awaiting *model.Track // set while Loading
	Volume   float64
	Elapsed  time.Duration
	Duration time.Duration
	PoolSize int
	Played   int

	// Levels describes the audio of the current track as of the last Tick.
	Levels audio.Levels

	// Notice is the last user-facing message, e.g. a skipped broken track.
	Notice   string
	NoticeAt time.Time
}
