package leave

type SubmitLeaveRequest struct {
	Category  string `json:"category" binding:"required,oneof=ANNUAL EMERGENCY PERMISSION UNPAID WORK_FROM_HOME EXTERNAL_ASSIGNMENT"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

type EditLeaveRequest struct {
	Category  string `json:"category" binding:"required,oneof=ANNUAL EMERGENCY PERMISSION UNPAID WORK_FROM_HOME EXTERNAL_ASSIGNMENT"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

type DecisionRequest struct {
	Decision        string `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Comment         string `json:"comment"`
	RejectionReason string `json:"rejection_reason"`
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	RequestNumber string  `json:"request_number"`
	EmployeeID    string  `json:"employee_id"`
	DepartmentID  string  `json:"department_id"`
	Category      string  `json:"category"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	TotalDays     int     `json:"total_days"`
	Reason        string  `json:"reason"`

	ManagerStatus          string  `json:"manager_status"`
	HRStatus               string  `json:"hr_status"`
	ManagerComment         *string `json:"manager_comment,omitempty"`
	ManagerRejectionReason *string `json:"manager_rejection_reason,omitempty"`
	ManagerDecidedBy       *string `json:"manager_decided_by,omitempty"`
	ManagerDecidedAt       *string `json:"manager_decided_at,omitempty"`
	HRComment              *string `json:"hr_comment,omitempty"`
	HRRejectionReason      *string `json:"hr_rejection_reason,omitempty"`
	HRDecidedBy            *string `json:"hr_decided_by,omitempty"`
	HRDecidedAt            *string `json:"hr_decided_at,omitempty"`

	Version int `json:"version"`
}
