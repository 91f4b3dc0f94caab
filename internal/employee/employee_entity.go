package employee

import (
	"time"

	"go-timeoff/internal/department"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"uniqueIndex:uq_employee_number"`
	FullName       string
	Email          string    `gorm:"uniqueIndex:uq_employee_email"`
	DepartmentID   uuid.UUID `gorm:"type:uuid;index"`
	HireDate       time.Time `gorm:"type:date"`

	// Role flags drive the approval chain: managers decide the first
	// stage for their department, HR the second, admins override both.
	IsManager bool `gorm:"not null;default:false"`
	IsHR      bool `gorm:"not null;default:false"`
	IsAdmin   bool `gorm:"not null;default:false"`

	EmploymentStatus string `gorm:"not null;default:'ACTIVE'"`

	Department *department.Department `gorm:"foreignKey:DepartmentID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
