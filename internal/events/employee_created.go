package events

import "time"

const EmployeeCreatedTopic = "hr.employee.lifecycle.v1"

// EmployeeCreatedEvent announces a new hire. The balance consumer uses it
// to provision the employee's default leave allocations.
type EmployeeCreatedEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   string    `json:"employee_id"`
	DepartmentID string    `json:"department_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}
