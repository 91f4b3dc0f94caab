package employee

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	DepartmentID   string `json:"department_id" binding:"required,uuid"`
	HireDate       string `json:"hire_date" binding:"required"`
	EmployeeNumber string `json:"employee_number"`
	IsManager      bool   `json:"is_manager"`
	IsHR           bool   `json:"is_hr"`
	IsAdmin        bool   `json:"is_admin"`
}

type UpdateEmployeeRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	HireDate     string `json:"hire_date" binding:"required"`
	IsManager    bool   `json:"is_manager"`
	IsHR         bool   `json:"is_hr"`
	IsAdmin      bool   `json:"is_admin"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	EmployeeNumber   string `json:"employee_number"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	DepartmentID     string `json:"department_id"`
	HireDate         string `json:"hire_date"`
	IsManager        bool   `json:"is_manager"`
	IsHR             bool   `json:"is_hr"`
	IsAdmin          bool   `json:"is_admin"`
	EmploymentStatus string `json:"employment_status"`

	Department *EmployeeDepartmentResponse `json:"department,omitempty"`
}
