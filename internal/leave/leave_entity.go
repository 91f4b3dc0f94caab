package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveRequest is the workflow aggregate. Status fields move only through
// the transition table in statemachine.go; counters referenced by TotalDays
// move only through the balance ledger.
type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_request_number"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	// Department snapshot taken at submission; manager routing and
	// authorization use this value, never a live join.
	DepartmentID string `gorm:"type:uuid;not null;index:idx_leave_requests_department"`

	Category  string    `gorm:"type:varchar(30);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`

	// HH:MM window, only for PERMISSION / EXTERNAL_ASSIGNMENT.
	StartTime *string `gorm:"type:varchar(5)"`
	EndTime   *string `gorm:"type:varchar(5)"`

	// Inclusive day span, captured at submission and used as-is for every
	// later commit or reversal.
	TotalDays int    `gorm:"type:int;not null;default:1"`
	Reason    string `gorm:"type:text"`

	ManagerStatus string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_statuses"`
	HRStatus      string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_statuses"`

	ManagerComment         *string    `gorm:"type:text"`
	ManagerRejectionReason *string    `gorm:"type:text"`
	ManagerDecidedBy       *uuid.UUID `gorm:"type:uuid"`
	ManagerDecidedAt       *time.Time

	HRComment         *string    `gorm:"type:text"`
	HRRejectionReason *string    `gorm:"type:text"`
	HRDecidedBy       *uuid.UUID `gorm:"type:uuid"`
	HRDecidedAt       *time.Time

	// Set exactly once when the ledger commit for this request lands, so a
	// replayed approval can never double-consume.
	BalanceCommitted bool `gorm:"not null;default:false"`

	// Optimistic concurrency token, incremented on every persisted write.
	Version int `gorm:"type:int;not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}
