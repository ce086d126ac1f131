package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_department_name_parent"}

	assert.True(t, IsUniqueViolation(pgErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert failed: %w", pgErr)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_department_name_parent"}

	assert.True(t, IsDuplicateConstraintError(pgErr, "uq_department_name_parent"))
	assert.False(t, IsDuplicateConstraintError(pgErr, "uq_departments_name_root"))
}

func TestIsForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "fk_employees_department"}

	assert.True(t, IsForeignKeyViolation(pgErr))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert failed: %w", pgErr)))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}
