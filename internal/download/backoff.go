package download

import "time"

// Default retry delays.
const (
	DefaultRetryBase = 2 * time.Second
	DefaultRetryCap  = 60 * time.Second
)

// BackoffSchedule builds a retry delay table that starts at base, doubles,
// and ends with ceiling. The last entry is reused for every later attempt.
//
//	BackoffSchedule(2*time.Second, time.Minute)
//	// [2s 4s 8s 16s 32s 1m0s]
func BackoffSchedule(base, ceiling time.Duration) []time.Duration {
	if base <= 0 {
		base = DefaultRetryBase
	}
	if ceiling < base {
		ceiling = base
	}

	var table []time.Duration
	for d := base; d < ceiling; d *= 2 {
		table = append(table, d)
	}
	return append(table, ceiling)
}

// DefaultBackoff returns the default schedule.
func DefaultBackoff() []time.Duration {
	return BackoffSchedule(DefaultRetryBase, DefaultRetryCap)
}

// backoffFor returns the delay after the given number of consecutive
// failures.
func backoffFor(table []time.Duration, failures int) time.Duration {
	if failures <= 0 || len(table) == 0 {
		return 0
	}
	if failures > len(table) {
		return table[len(table)-1]
	}
	return table[failures-1]
}
