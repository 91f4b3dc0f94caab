package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance holds the per-category entitlement and consumption counters
// for one employee. Exactly one row per employee, created at onboarding.
// Counters are mutated only by the ledger (Commit/Reverse).
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee"`

	AnnualAllowed     int `gorm:"type:int;not null;default:0"`
	AnnualUsed        int `gorm:"type:int;not null;default:0"`
	EmergencyAllowed  int `gorm:"type:int;not null;default:0"`
	EmergencyUsed     int `gorm:"type:int;not null;default:0"`
	PermissionAllowed int `gorm:"type:int;not null;default:0"`
	PermissionUsed    int `gorm:"type:int;not null;default:0"`

	// Usage-only counters, no allocation ceiling.
	UnpaidUsed       int `gorm:"type:int;not null;default:0"`
	WorkFromHomeUsed int `gorm:"type:int;not null;default:0"`

	// Approved PERMISSION requests allowed per calendar month, checked at
	// submission time against a count of fully approved requests.
	PermissionMonthlyCap int `gorm:"type:int;not null;default:3"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
