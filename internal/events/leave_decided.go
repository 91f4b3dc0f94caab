package events

import "time"

const LeaveDecidedTopic = "hr.leave.decision.v1"

// LeaveDecidedEvent is published whenever a request reaches a terminal
// state: rejected at either stage, or fully approved.
type LeaveDecidedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	EmployeeID    string    `json:"employee_id"`
	DepartmentID  string    `json:"department_id"`
	Category      string    `json:"category"`
	ManagerStatus string    `json:"manager_status"`
	HRStatus      string    `json:"hr_status"`
	TotalDays     int       `json:"total_days"`
	OccurredAt    time.Time `json:"occurred_at"`
}
