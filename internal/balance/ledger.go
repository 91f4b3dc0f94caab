// Ledger arithmetic over LeaveBalance. Pure functions: callers own loading,
// locking and persisting the row. Commit and Reverse are the only mutators
// of the counters anywhere in the codebase.
package balance

import (
	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/domain"
)

// counters resolves the allowed/used pair for a category. allowed is nil for
// usage-only categories; both are nil when the category never touches the
// ledger.
func counters(b *LeaveBalance, category string) (allowed *int, used *int) {
	switch category {
	case domain.CategoryAnnual:
		return &b.AnnualAllowed, &b.AnnualUsed
	case domain.CategoryEmergency:
		return &b.EmergencyAllowed, &b.EmergencyUsed
	case domain.CategoryPermission:
		return &b.PermissionAllowed, &b.PermissionUsed
	case domain.CategoryUnpaid:
		return nil, &b.UnpaidUsed
	case domain.CategoryWorkFromHome:
		return nil, &b.WorkFromHomeUsed
	default:
		return nil, nil
	}
}

// WouldExceed reports whether consuming days from the category would drive
// allocation - used below zero. Always false for uncapped categories.
func WouldExceed(b *LeaveBalance, category string, days int) bool {
	if !domain.HasCeiling(category) {
		return false
	}
	allowed, used := counters(b, category)
	if allowed == nil || used == nil {
		return false
	}
	return *allowed-*used-days < 0
}

// Remaining returns allocation - used for ceilinged categories and 0 for
// everything else.
func Remaining(b *LeaveBalance, category string) int {
	allowed, used := counters(b, category)
	if allowed == nil || used == nil {
		return 0
	}
	return *allowed - *used
}

// Commit consumes days from the category. The non-negativity invariant is
// re-checked here even though submission already vetoed oversized requests,
// because other requests may have consumed balance since.
func Commit(b *LeaveBalance, category string, days int) error {
	if !domain.TouchesLedger(category) {
		return nil
	}
	allowed, used := counters(b, category)
	if used == nil {
		return balanceerrors.ErrUnknownCategory
	}
	if allowed != nil && *allowed-*used-days < 0 {
		return balanceerrors.ErrInsufficientBalance.WithDetails(map[string]any{
			"category":  category,
			"requested": days,
			"remaining": *allowed - *used,
		})
	}
	*used += days
	return nil
}

// Reverse gives days back to the category, flooring used at zero so a
// double reversal from an idempotent retry path cannot produce a negative
// counter.
func Reverse(b *LeaveBalance, category string, days int) {
	if !domain.TouchesLedger(category) {
		return
	}
	_, used := counters(b, category)
	if used == nil {
		return
	}
	*used -= days
	if *used < 0 {
		*used = 0
	}
}
