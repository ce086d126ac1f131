package models

import "time"

// Employee represents an employee attached to exactly one department.
type Employee struct {
	ID           int64      `json:"id"`
	DepartmentID int64      `json:"department_id"`
	FullName     string     `json:"full_name"`
	Position     string     `json:"position"`
	HiredAt      *time.Time `json:"hired_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// EmployeeSortField enumerates the supported employee orderings in tree views.
type EmployeeSortField string

const (
	EmployeeSortByCreatedAt EmployeeSortField = "created_at"
	EmployeeSortByFullName  EmployeeSortField = "full_name"
)

// Valid reports whether the sort field is one of the supported values.
func (f EmployeeSortField) Valid() bool {
	return f == EmployeeSortByCreatedAt || f == EmployeeSortByFullName
}
