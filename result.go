package hvvroutes

import (
	"time"

	"github.com/Rishi8078/hvv-routes-assistant/gti"
)

// RefreshStatus describes the outcome of the most recent refresh.
type RefreshStatus int

const (
	// StatusNoDestination marks a refresh that was skipped because no
	// destination is configured. A quiet state, not an error; it is also the
	// zero value, so an unrefreshed coordinator reports it.
	StatusNoDestination RefreshStatus = iota

	// StatusOK marks a completed fetch. The journey list may be empty:
	// "provider returned nothing" is a legitimate result, distinct from a
	// failed request.
	StatusOK

	// StatusFailed marks a fetch that did not complete.
	StatusFailed
)

func (s RefreshStatus) String() string {
	switch s {
	case StatusNoDestination:
		return "no-destination"
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// RefreshResult is the single retained outcome of the latest refresh. It is
// replaced wholesale on every refresh, never mutated in place, and no history
// is kept.
type RefreshResult struct {
	Status    RefreshStatus
	Journeys  []gti.Journey
	Err       error
	FetchedAt time.Time
}
