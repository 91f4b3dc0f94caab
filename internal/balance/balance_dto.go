package balance

type CategoryBalance struct {
	Category  string `json:"category"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Capped    bool   `json:"capped"`
}

type BalanceSummaryResponse struct {
	EmployeeID           string            `json:"employee_id"`
	PermissionMonthlyCap int               `json:"permission_monthly_cap"`
	Categories           []CategoryBalance `json:"categories"`
}
