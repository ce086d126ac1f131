package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/orgtree/internal/app/models"
)

func TestParseHiredAt(t *testing.T) {
	date := "2024-06-01"
	request := CreateEmployeeRequest{HiredAt: &date}

	parsed, err := request.ParseHiredAt()
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *parsed)

	// Absent and empty dates are both treated as not hired yet.
	request.HiredAt = nil
	parsed, err = request.ParseHiredAt()
	require.NoError(t, err)
	assert.Nil(t, parsed)

	empty := ""
	request.HiredAt = &empty
	parsed, err = request.ParseHiredAt()
	require.NoError(t, err)
	assert.Nil(t, parsed)

	bad := "01.06.2024"
	request.HiredAt = &bad
	_, err = request.ParseHiredAt()
	assert.Error(t, err)
}

func TestNewEmployeeResponseFormatsHiredAt(t *testing.T) {
	hiredAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	response := NewEmployeeResponse(&models.Employee{
		ID:           1,
		DepartmentID: 2,
		FullName:     "Ada Lovelace",
		Position:     "Engineer",
		HiredAt:      &hiredAt,
	})

	require.NotNil(t, response.HiredAt)
	assert.Equal(t, "2024-06-01", *response.HiredAt)

	withoutDate := NewEmployeeResponse(&models.Employee{ID: 2, DepartmentID: 2, FullName: "Bob", Position: "Manager"})
	assert.Nil(t, withoutDate.HiredAt)
}
