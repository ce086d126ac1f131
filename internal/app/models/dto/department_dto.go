package dto

import (
	"time"

	"github.com/yigit/orgtree/internal/app/models"
)

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parent_id"`
}

// UpdateDepartmentRequest represents department update data (PATCH semantics:
// omitted fields keep their current values)
type UpdateDepartmentRequest struct {
	Name     *string `json:"name"`
	ParentID *int64  `json:"parent_id"`
}

// DepartmentResponse represents a department as returned by the API
type DepartmentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDepartmentResponse converts a department model to its response shape
func NewDepartmentResponse(department *models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        department.ID,
		Name:      department.Name,
		ParentID:  department.ParentID,
		CreatedAt: department.CreatedAt,
	}
}

// DepartmentTreeResponse represents a department with its employees and child
// subtrees up to the requested depth
type DepartmentTreeResponse struct {
	Department DepartmentResponse       `json:"department"`
	Employees  []EmployeeResponse       `json:"employees"`
	Children   []DepartmentTreeResponse `json:"children"`
}
