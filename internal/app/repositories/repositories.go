package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/orgtree/internal/app/models"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repositories run against the pool by default and against a transaction when
// rebound with WithTx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DepartmentStore is the persistence surface the department service works
// against. *DepartmentRepository implements it; tests substitute in-memory fakes.
type DepartmentStore interface {
	WithTx(tx pgx.Tx) DepartmentStore
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	Exists(ctx context.Context, id int64) (bool, error)
	SiblingNameExists(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error)
	ListChildren(ctx context.Context, parentID int64) ([]*models.Department, error)
	ChildIDs(ctx context.Context, parentID int64) ([]int64, error)
	Update(ctx context.Context, id int64, name string, parentID *int64) (*models.Department, error)
	Delete(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) error
	RelinkChildren(ctx context.Context, fromID, toID int64) error
}

// EmployeeStore is the persistence surface for employees.
type EmployeeStore interface {
	WithTx(tx pgx.Tx) EmployeeStore
	Create(ctx context.Context, employee *models.Employee) error
	ListByDepartment(ctx context.Context, departmentID int64, sortBy models.EmployeeSortField) ([]*models.Employee, error)
	RelinkDepartment(ctx context.Context, fromID, toID int64) error
}

var (
	_ DepartmentStore = (*DepartmentRepository)(nil)
	_ EmployeeStore   = (*EmployeeRepository)(nil)
)

// Repositories holds all the repository instances
type Repositories struct {
	DepartmentRepository *DepartmentRepository
	EmployeeRepository   *EmployeeRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		DepartmentRepository: NewDepartmentRepository(db),
		EmployeeRepository:   NewEmployeeRepository(db),
	}
}
