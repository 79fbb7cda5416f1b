package cache

// Status is the lifecycle state of a cached track.
type Status int

const (
	Missing Status = iota
	Downloading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Missing:
		return "missing"
	case Downloading:
		return "downloading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// allowed lists the legal status transitions. Same-status transitions are
// handled separately as no-ops.
var allowed = map[Status][]Status{
	Missing:     {Downloading},
	Downloading: {Ready, Failed, Missing},
	Failed:      {Downloading},
}

func canTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Entry is the cache record of one track. Path is only set when Ready.
type Entry struct {
	TrackID string
	Status  Status
	Path    string
}
