package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/orgtree/internal/app/models"
)

// EmployeeRepository handles database operations for employees
type EmployeeRepository struct {
	db Querier
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db Querier) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *EmployeeRepository) WithTx(tx pgx.Tx) EmployeeStore {
	return &EmployeeRepository{db: tx}
}

// Create inserts a new employee and fills its generated id and creation timestamp
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (department_id, full_name, position, hired_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		employee.DepartmentID, employee.FullName, employee.Position, employee.HiredAt).
		Scan(&employee.ID, &employee.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// ListByDepartment retrieves the direct employees of a department ordered by the
// given sort field, with id as tiebreak for determinism on equal keys
func (r *EmployeeRepository) ListByDepartment(ctx context.Context, departmentID int64, sortBy models.EmployeeSortField) ([]*models.Employee, error) {
	orderBy := "created_at ASC, id ASC"
	if sortBy == models.EmployeeSortByFullName {
		orderBy = "full_name ASC, id ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, department_id, full_name, position, hired_at, created_at
		FROM employees
		WHERE department_id = $1
		ORDER BY %s
	`, orderBy)

	rows, err := r.db.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		var employee models.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.DepartmentID,
			&employee.FullName,
			&employee.Position,
			&employee.HiredAt,
			&employee.CreatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, &employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// RelinkDepartment moves every employee of fromID to toID
func (r *EmployeeRepository) RelinkDepartment(ctx context.Context, fromID, toID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE employees SET department_id = $1 WHERE department_id = $2`, toID, fromID)
	if err != nil {
		return fmt.Errorf("error relinking employees: %w", err)
	}

	return nil
}
