package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/orgtree/internal/app/models"
	"github.com/yigit/orgtree/internal/pkg/apperrors"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db Querier
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db Querier) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *DepartmentRepository) WithTx(tx pgx.Tx) DepartmentStore {
	return &DepartmentRepository{db: tx}
}

// Create inserts a new department and fills its generated id and creation timestamp
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	query := `
		INSERT INTO departments (name, parent_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, department.Name, department.ParentID).
		Scan(&department.ID, &department.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query := `
		SELECT id, name, parent_id, created_at
		FROM departments
		WHERE id = $1
	`

	var department models.Department
	err := r.db.QueryRow(ctx, query, id).Scan(
		&department.ID,
		&department.Name,
		&department.ParentID,
		&department.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return &department, nil
}

// Exists checks whether a department with the given ID exists
func (r *DepartmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM departments WHERE id = $1)`,
		id).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking department existence: %w", err)
	}

	return exists, nil
}

// SiblingNameExists checks whether a department with the given name already exists
// under the given parent (nil parent means root level). A non-zero excludeID leaves
// that department out of the check, so a department can keep its own name on update.
func (r *DepartmentRepository) SiblingNameExists(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM departments
			WHERE name = $1
			  AND parent_id IS NOT DISTINCT FROM $2
			  AND id <> $3
		)`,
		name, parentID, excludeID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking sibling name uniqueness: %w", err)
	}

	return exists, nil
}

// ListChildren retrieves the direct children of a department ordered by (name, id)
func (r *DepartmentRepository) ListChildren(ctx context.Context, parentID int64) ([]*models.Department, error) {
	query := `
		SELECT id, name, parent_id, created_at
		FROM departments
		WHERE parent_id = $1
		ORDER BY name ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(
			&department.ID,
			&department.Name,
			&department.ParentID,
			&department.CreatedAt,
		); err != nil {
			return nil, err
		}
		departments = append(departments, &department)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// ChildIDs retrieves the IDs of the direct children of a department
func (r *DepartmentRepository) ChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM departments WHERE parent_id = $1`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// Update persists a new name and parent for the department and returns the updated row.
// created_at is never touched.
func (r *DepartmentRepository) Update(ctx context.Context, id int64, name string, parentID *int64) (*models.Department, error) {
	query := `
		UPDATE departments
		SET name = $1, parent_id = $2
		WHERE id = $3
		RETURNING id, name, parent_id, created_at
	`

	var department models.Department
	err := r.db.QueryRow(ctx, query, name, parentID, id).Scan(
		&department.ID,
		&department.Name,
		&department.ParentID,
		&department.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, err
	}

	return &department, nil
}

// Delete deletes a single department row by ID
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}

// DeleteByIDs deletes all departments whose IDs are in the given set. Employees of
// those departments go with them through the store-level cascade.
func (r *DepartmentRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("error deleting departments: %w", err)
	}

	return nil
}

// RelinkChildren rewrites the parent reference of every direct child of fromID to toID
func (r *DepartmentRepository) RelinkChildren(ctx context.Context, fromID, toID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE departments SET parent_id = $1 WHERE parent_id = $2`, toID, fromID)
	if err != nil {
		return fmt.Errorf("error relinking child departments: %w", err)
	}

	return nil
}
