package auth

type RegisterRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	DepartmentID string `json:"department_id,omitempty"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	IsManager    bool   `json:"is_manager"`
	IsHR         bool   `json:"is_hr"`
	IsAdmin      bool   `json:"is_admin"`
}
