package domain

// Leave categories. Stored as-is in the leave_requests and leave_balances
// tables, so values are part of the persisted contract.
const (
	CategoryAnnual             = "ANNUAL"
	CategoryEmergency          = "EMERGENCY"
	CategoryPermission         = "PERMISSION"
	CategoryUnpaid             = "UNPAID"
	CategoryWorkFromHome       = "WORK_FROM_HOME"
	CategoryExternalAssignment = "EXTERNAL_ASSIGNMENT"
)

// Stage statuses for both the manager and the HR decision stage.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Categories returns every known leave category.
func Categories() []string {
	return []string{
		CategoryAnnual,
		CategoryEmergency,
		CategoryPermission,
		CategoryUnpaid,
		CategoryWorkFromHome,
		CategoryExternalAssignment,
	}
}

// IsValidCategory reports whether c is a known leave category.
func IsValidCategory(c string) bool {
	switch c {
	case CategoryAnnual, CategoryEmergency, CategoryPermission,
		CategoryUnpaid, CategoryWorkFromHome, CategoryExternalAssignment:
		return true
	}
	return false
}

// IsBlockingCategory reports whether approved/pending requests of this
// category count toward overlap conflicts. PERMISSION and
// EXTERNAL_ASSIGNMENT are hour-scoped and never block other requests.
func IsBlockingCategory(c string) bool {
	switch c {
	case CategoryAnnual, CategoryEmergency, CategoryUnpaid, CategoryWorkFromHome:
		return true
	}
	return false
}

// HasCeiling reports whether the category has a fixed per-period allocation.
func HasCeiling(c string) bool {
	switch c {
	case CategoryAnnual, CategoryEmergency, CategoryPermission:
		return true
	}
	return false
}

// IsTimeWindowed reports whether the category is a single-day request with an
// optional HH:MM time-of-day window.
func IsTimeWindowed(c string) bool {
	return c == CategoryPermission || c == CategoryExternalAssignment
}

// TouchesLedger reports whether the category consumes the balance ledger at
// all. EXTERNAL_ASSIGNMENT is informational only.
func TouchesLedger(c string) bool {
	return c != CategoryExternalAssignment
}
