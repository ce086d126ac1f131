package dto

import (
	"time"

	"github.com/yigit/orgtree/internal/app/models"
)

// hiredAtLayout is the wire format for the hired_at date
const hiredAtLayout = "2006-01-02"

// CreateEmployeeRequest represents employee creation data
type CreateEmployeeRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Position string  `json:"position" binding:"required"`
	HiredAt  *string `json:"hired_at"`
}

// ParseHiredAt parses the optional hired_at date from its wire format
func (r *CreateEmployeeRequest) ParseHiredAt() (*time.Time, error) {
	if r.HiredAt == nil || *r.HiredAt == "" {
		return nil, nil
	}
	parsed, err := time.Parse(hiredAtLayout, *r.HiredAt)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// EmployeeResponse represents an employee as returned by the API
type EmployeeResponse struct {
	ID           int64     `json:"id"`
	DepartmentID int64     `json:"department_id"`
	FullName     string    `json:"full_name"`
	Position     string    `json:"position"`
	HiredAt      *string   `json:"hired_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEmployeeResponse converts an employee model to its response shape
func NewEmployeeResponse(employee *models.Employee) EmployeeResponse {
	var hiredAt *string
	if employee.HiredAt != nil {
		formatted := employee.HiredAt.Format(hiredAtLayout)
		hiredAt = &formatted
	}

	return EmployeeResponse{
		ID:           employee.ID,
		DepartmentID: employee.DepartmentID,
		FullName:     employee.FullName,
		Position:     employee.Position,
		HiredAt:      hiredAt,
		CreatedAt:    employee.CreatedAt,
	}
}
