package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/orgtree/internal/app/models"
	"github.com/yigit/orgtree/internal/app/models/dto"
	"github.com/yigit/orgtree/internal/app/repositories"
	"github.com/yigit/orgtree/internal/pkg/apperrors"
	"github.com/yigit/orgtree/internal/pkg/dberrors"
)

// maxNameLength is the upper bound for department names, employee names and
// positions, matching the VARCHAR(200) columns.
const maxNameLength = 200

var _ DepartmentManager = (*DepartmentService)(nil)

// DepartmentService enforces the consistency rules of the department tree:
// sibling name uniqueness, cycle-free reparenting and the two delete strategies.
// Every multi-step mutation runs inside a single transaction.
type DepartmentService struct {
	tx          TxManager
	departments repositories.DepartmentStore
	employees   repositories.EmployeeStore
	logger      zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(tx TxManager, departments repositories.DepartmentStore, employees repositories.EmployeeStore, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		tx:          tx,
		departments: departments,
		employees:   employees,
		logger:      logger,
	}
}

// CreateDepartment creates a new department under an optional parent.
// The parent must exist and the name must be unique among its siblings
// (root departments count as siblings of each other).
func (s *DepartmentService) CreateDepartment(ctx context.Context, input CreateDepartmentInput) (*models.Department, error) {
	name, err := normalizeRequiredString(input.Name, "name")
	if err != nil {
		return nil, err
	}

	department := &models.Department{
		Name:     name,
		ParentID: input.ParentID,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		departments := s.departments.WithTx(tx)

		if input.ParentID != nil {
			exists, err := departments.Exists(ctx, *input.ParentID)
			if err != nil {
				return fmt.Errorf("error checking parent department: %w", err)
			}
			if !exists {
				return apperrors.NewNotFoundError("parent department not found")
			}
		}

		taken, err := departments.SiblingNameExists(ctx, name, input.ParentID, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflictError(fmt.Sprintf("department with name %q already exists under this parent", name))
		}

		if err := departments.Create(ctx, department); err != nil {
			// Unique index is the backstop for concurrent creates racing on the
			// same (name, parent) slot
			if dberrors.IsUniqueViolation(err) {
				return apperrors.NewConflictError(fmt.Sprintf("department with name %q already exists under this parent", name))
			}
			return fmt.Errorf("error creating department: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("departmentId", department.ID).Str("name", department.Name).Msg("Created department")
	return department, nil
}

// CreateEmployee creates a new employee in an existing department
func (s *DepartmentService) CreateEmployee(ctx context.Context, departmentID int64, input CreateEmployeeInput) (*models.Employee, error) {
	fullName, err := normalizeRequiredString(input.FullName, "full_name")
	if err != nil {
		return nil, err
	}

	position, err := normalizeRequiredString(input.Position, "position")
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		DepartmentID: departmentID,
		FullName:     fullName,
		Position:     position,
		HiredAt:      input.HiredAt,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		departments := s.departments.WithTx(tx)
		employees := s.employees.WithTx(tx)

		exists, err := departments.Exists(ctx, departmentID)
		if err != nil {
			return fmt.Errorf("error checking department: %w", err)
		}
		if !exists {
			return apperrors.NewNotFoundError("department not found")
		}

		if err := employees.Create(ctx, employee); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.NewNotFoundError("department not found")
			}
			return fmt.Errorf("error creating employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("employeeId", employee.ID).Int64("departmentId", departmentID).Msg("Created employee")
	return employee, nil
}

// GetDepartmentTree retrieves a department with its employees and child subtrees
// up to the requested depth. Children are ordered by (name, id) at every level;
// employees by the requested sort key with id as tiebreak.
func (s *DepartmentService) GetDepartmentTree(ctx context.Context, departmentID int64, options TreeOptions) (*dto.DepartmentTreeResponse, error) {
	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	sortBy := options.SortEmployeesBy
	if !sortBy.Valid() {
		sortBy = models.EmployeeSortByCreatedAt
	}

	return s.buildTree(ctx, department, options.Depth, options.IncludeEmployees, sortBy)
}

// buildTree assembles the tree view for one department. Recursion is bounded by
// depth, which the HTTP layer caps at 5.
func (s *DepartmentService) buildTree(ctx context.Context, department *models.Department, depth int, includeEmployees bool, sortBy models.EmployeeSortField) (*dto.DepartmentTreeResponse, error) {
	node := &dto.DepartmentTreeResponse{
		Department: dto.NewDepartmentResponse(department),
		Employees:  []dto.EmployeeResponse{},
		Children:   []dto.DepartmentTreeResponse{},
	}

	if includeEmployees {
		employees, err := s.employees.ListByDepartment(ctx, department.ID, sortBy)
		if err != nil {
			return nil, fmt.Errorf("error loading employees: %w", err)
		}
		for _, employee := range employees {
			node.Employees = append(node.Employees, dto.NewEmployeeResponse(employee))
		}
	}

	if depth <= 0 {
		return node, nil
	}

	children, err := s.departments.ListChildren(ctx, department.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading child departments: %w", err)
	}

	for _, child := range children {
		childNode, err := s.buildTree(ctx, child, depth-1, includeEmployees, sortBy)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, *childNode)
	}

	return node, nil
}

// UpdateDepartment renames and/or reparents a department. Omitted fields keep
// their current values. Rejects self-parenting, moves into the department's own
// subtree, and sibling name collisions.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, departmentID int64, input UpdateDepartmentInput) (*models.Department, error) {
	var newNameInput *string
	if input.Name != nil {
		normalized, err := normalizeRequiredString(*input.Name, "name")
		if err != nil {
			return nil, err
		}
		newNameInput = &normalized
	}

	var updated *models.Department
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		departments := s.departments.WithTx(tx)

		department, err := departments.GetByID(ctx, departmentID)
		if err != nil {
			return err
		}

		newName := department.Name
		if newNameInput != nil {
			newName = *newNameInput
		}

		newParentID := department.ParentID
		if input.ParentID != nil {
			newParentID = input.ParentID
		}

		if newParentID != nil && *newParentID == departmentID {
			return apperrors.NewConflictError("department cannot be its own parent")
		}

		if newParentID != nil {
			descendants, err := s.descendantIDs(ctx, departments, departmentID)
			if err != nil {
				return err
			}
			if _, ok := descendants[*newParentID]; ok {
				return apperrors.NewConflictError("cannot move department into its own subtree")
			}

			exists, err := departments.Exists(ctx, *newParentID)
			if err != nil {
				return fmt.Errorf("error checking target parent: %w", err)
			}
			if !exists {
				return apperrors.NewNotFoundError("target parent department not found")
			}
		}

		taken, err := departments.SiblingNameExists(ctx, newName, newParentID, departmentID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflictError(fmt.Sprintf("department with name %q already exists under this parent", newName))
		}

		updated, err = departments.Update(ctx, departmentID, newName, newParentID)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.NewConflictError(fmt.Sprintf("department with name %q already exists under this parent", newName))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("departmentId", updated.ID).Msg("Updated department")
	return updated, nil
}

// DeleteDepartment removes a department using one of the two strategies.
//
// cascade deletes the department, its whole descendant subtree and all their
// employees. reassign deletes only the department itself: its direct employees
// and direct children are relinked to the target department, so grandchildren
// keep their parents and move up one hop in the ancestor chain. Both run as a
// single transaction: a failure leaves the tree untouched.
//
// The reassign target is deliberately not validated against the deleted
// department's subtree. Reassigning to a direct child relinks that child's
// parent reference to itself. Do not add a descendant check here without
// changing the documented contract.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, departmentID int64, input DeleteDepartmentInput) error {
	switch input.Mode {
	case DeleteModeCascade:
		err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			departments := s.departments.WithTx(tx)

			if _, err := departments.GetByID(ctx, departmentID); err != nil {
				return err
			}

			descendants, err := s.descendantIDs(ctx, departments, departmentID)
			if err != nil {
				return err
			}

			ids := make([]int64, 0, len(descendants)+1)
			ids = append(ids, departmentID)
			for id := range descendants {
				ids = append(ids, id)
			}
			return departments.DeleteByIDs(ctx, ids)
		})
		if err != nil {
			return err
		}

		s.logger.Info().Int64("departmentId", departmentID).Msg("Deleted department (cascade)")
		return nil

	case DeleteModeReassign:
		if input.ReassignTo == nil {
			return apperrors.NewBadRequestError("reassign_to_department_id is required when mode=reassign")
		}
		targetID := *input.ReassignTo

		err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			departments := s.departments.WithTx(tx)
			employees := s.employees.WithTx(tx)

			if _, err := departments.GetByID(ctx, departmentID); err != nil {
				return err
			}

			exists, err := departments.Exists(ctx, targetID)
			if err != nil {
				return fmt.Errorf("error checking target department: %w", err)
			}
			if !exists {
				return apperrors.NewNotFoundError("target department for reassign not found")
			}
			if targetID == departmentID {
				return apperrors.NewConflictError("cannot reassign to the department being deleted")
			}

			// Relink before deleting so the store-level cascade never sees the
			// reassigned employees or children
			if err := employees.RelinkDepartment(ctx, departmentID, targetID); err != nil {
				return err
			}
			if err := departments.RelinkChildren(ctx, departmentID, targetID); err != nil {
				return err
			}
			return departments.Delete(ctx, departmentID)
		})
		if err != nil {
			return err
		}

		s.logger.Info().Int64("departmentId", departmentID).Int64("reassignTo", targetID).Msg("Deleted department (reassign)")
		return nil

	default:
		return apperrors.NewValidationError(fmt.Sprintf("invalid delete mode %q, must be one of: cascade, reassign", string(input.Mode)))
	}
}

// descendantIDs computes the full descendant set of a department with an
// explicit work list over the parent adjacency, so deep trees cannot exhaust
// the stack.
func (s *DepartmentService) descendantIDs(ctx context.Context, departments repositories.DepartmentStore, departmentID int64) (map[int64]struct{}, error) {
	result := make(map[int64]struct{})
	stack := []int64{departmentID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		childIDs, err := departments.ChildIDs(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("error loading child departments: %w", err)
		}
		for _, childID := range childIDs {
			if _, seen := result[childID]; seen {
				continue
			}
			result[childID] = struct{}{}
			stack = append(stack, childID)
		}
	}

	return result, nil
}

// normalizeRequiredString trims the value and enforces the 1..200 rune bounds
func normalizeRequiredString(raw string, field string) (string, error) {
	value := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(value)
	if length < 1 || length > maxNameLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s length must be between 1 and %d characters", field, maxNameLength))
	}
	return value, nil
}
