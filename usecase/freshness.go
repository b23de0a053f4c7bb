package usecase

import (
	"time"

	"channel-portfolio/domain/model"
)

// IsStale reports whether a snapshot's age exceeds the threshold. It is a
// pure function of its arguments and performs no I/O.
//
// A missing or unparsable timestamp counts as stale: a document whose age
// cannot be determined must not be trusted as fresh.
func IsStale(s *model.Snapshot, now time.Time, threshold time.Duration) bool {
	if s == nil {
		return true
	}
	ts, err := time.Parse(time.RFC3339, s.LastUpdated)
	if err != nil {
		return true
	}
	return now.Sub(ts) > threshold
}
