package services

import (
	"context"
	"time"

	"github.com/yigit/orgtree/internal/app/models"
	"github.com/yigit/orgtree/internal/app/models/dto"
	"github.com/yigit/orgtree/internal/db"
)

// TxManager runs a function within a database transaction. *db.PostgresDB
// implements it.
type TxManager interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// DeleteMode selects the department deletion strategy
type DeleteMode string

const (
	// DeleteModeCascade removes the department, its whole descendant subtree and
	// every employee in it
	DeleteModeCascade DeleteMode = "cascade"
	// DeleteModeReassign removes a single department; its direct employees and
	// direct children are relinked to a target department
	DeleteModeReassign DeleteMode = "reassign"
)

// CreateDepartmentInput carries the data for a new department
type CreateDepartmentInput struct {
	Name     string
	ParentID *int64
}

// UpdateDepartmentInput carries a partial department update; nil fields keep
// their current values
type UpdateDepartmentInput struct {
	Name     *string
	ParentID *int64
}

// CreateEmployeeInput carries the data for a new employee
type CreateEmployeeInput struct {
	FullName string
	Position string
	HiredAt  *time.Time
}

// TreeOptions controls department tree retrieval
type TreeOptions struct {
	Depth            int
	IncludeEmployees bool
	SortEmployeesBy  models.EmployeeSortField
}

// DeleteDepartmentInput selects the deletion strategy and its target
type DeleteDepartmentInput struct {
	Mode       DeleteMode
	ReassignTo *int64
}

// DepartmentManager is the service surface consumed by the HTTP layer
type DepartmentManager interface {
	CreateDepartment(ctx context.Context, input CreateDepartmentInput) (*models.Department, error)
	CreateEmployee(ctx context.Context, departmentID int64, input CreateEmployeeInput) (*models.Employee, error)
	GetDepartmentTree(ctx context.Context, departmentID int64, options TreeOptions) (*dto.DepartmentTreeResponse, error)
	UpdateDepartment(ctx context.Context, departmentID int64, input UpdateDepartmentInput) (*models.Department, error)
	DeleteDepartment(ctx context.Context, departmentID int64, input DeleteDepartmentInput) error
}
