package leave

import (
	"time"

	"go-timeoff/internal/domain"
)

// Window is the overlap-relevant projection of a leave request. The
// repository pre-filters candidates by employee and a rough date range; this
// detector owns the actual conflict decision, so it is also safe to run
// against a candidate that has not been persisted yet.
type Window struct {
	Start         time.Time
	End           time.Time
	Category      string
	ManagerStatus string
	HRStatus      string
}

// end treats a missing end date as equal to the start date.
func (w Window) end() time.Time {
	if w.End.IsZero() {
		return w.Start
	}
	return w.End
}

// blocks reports whether the window still occupies its date range: blocking
// category and neither stage rejected.
func (w Window) blocks() bool {
	if !domain.IsBlockingCategory(w.Category) {
		return false
	}
	return w.ManagerStatus != domain.StatusRejected && w.HRStatus != domain.StatusRejected
}

// overlaps uses inclusive bounds on both sides.
func overlaps(a, b Window) bool {
	return !a.Start.After(b.end()) && !a.end().Before(b.Start)
}

// HasConflict reports whether the candidate collides with any existing
// window. Symmetric in candidate/existing: the same pair conflicts no matter
// which side is the new request. Deterministic, no side effects.
func HasConflict(candidate Window, existing []Window) bool {
	if !candidate.blocks() {
		return false
	}
	for _, w := range existing {
		if !w.blocks() {
			continue
		}
		if overlaps(candidate, w) {
			return true
		}
	}
	return false
}
