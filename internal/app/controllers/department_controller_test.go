package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/orgtree/internal/app/controllers"
	"github.com/yigit/orgtree/internal/app/models"
	"github.com/yigit/orgtree/internal/app/models/dto"
	"github.com/yigit/orgtree/internal/app/routes"
	"github.com/yigit/orgtree/internal/app/services"
	"github.com/yigit/orgtree/internal/pkg/apperrors"
)

// stubService lets each test plug in just the service behavior it needs.
type stubService struct {
	createDepartmentFn func(ctx context.Context, input services.CreateDepartmentInput) (*models.Department, error)
	createEmployeeFn   func(ctx context.Context, departmentID int64, input services.CreateEmployeeInput) (*models.Employee, error)
	getTreeFn          func(ctx context.Context, departmentID int64, options services.TreeOptions) (*dto.DepartmentTreeResponse, error)
	updateDepartmentFn func(ctx context.Context, departmentID int64, input services.UpdateDepartmentInput) (*models.Department, error)
	deleteDepartmentFn func(ctx context.Context, departmentID int64, input services.DeleteDepartmentInput) error
}

func (s stubService) CreateDepartment(ctx context.Context, input services.CreateDepartmentInput) (*models.Department, error) {
	if s.createDepartmentFn == nil {
		return &models.Department{}, nil
	}
	return s.createDepartmentFn(ctx, input)
}

func (s stubService) CreateEmployee(ctx context.Context, departmentID int64, input services.CreateEmployeeInput) (*models.Employee, error) {
	if s.createEmployeeFn == nil {
		return &models.Employee{}, nil
	}
	return s.createEmployeeFn(ctx, departmentID, input)
}

func (s stubService) GetDepartmentTree(ctx context.Context, departmentID int64, options services.TreeOptions) (*dto.DepartmentTreeResponse, error) {
	if s.getTreeFn == nil {
		return &dto.DepartmentTreeResponse{}, nil
	}
	return s.getTreeFn(ctx, departmentID, options)
}

func (s stubService) UpdateDepartment(ctx context.Context, departmentID int64, input services.UpdateDepartmentInput) (*models.Department, error) {
	if s.updateDepartmentFn == nil {
		return &models.Department{}, nil
	}
	return s.updateDepartmentFn(ctx, departmentID, input)
}

func (s stubService) DeleteDepartment(ctx context.Context, departmentID int64, input services.DeleteDepartmentInput) error {
	if s.deleteDepartmentFn == nil {
		return nil
	}
	return s.deleteDepartmentFn(ctx, departmentID, input)
}

func newTestRouter(service services.DepartmentManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.SetupRouter(router, controllers.NewDepartmentController(service))
	return router
}

func doRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestCreateDepartment(t *testing.T) {
	router := newTestRouter(stubService{
		createDepartmentFn: func(_ context.Context, input services.CreateDepartmentInput) (*models.Department, error) {
			assert.Equal(t, "Backend", input.Name)
			require.NotNil(t, input.ParentID)
			assert.Equal(t, int64(1), *input.ParentID)
			return &models.Department{
				ID:        2,
				Name:      input.Name,
				ParentID:  input.ParentID,
				CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments", `{"name":"Backend","parent_id":1}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	var payload dto.DepartmentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, int64(2), payload.ID)
	assert.Equal(t, "Backend", payload.Name)
}

func TestCreateDepartmentMissingName(t *testing.T) {
	router := newTestRouter(stubService{})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments", `{"parent_id":1}`)

	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	require.NotNil(t, response.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, response.Error.Code)
}

func TestCreateDepartmentMalformedJSON(t *testing.T) {
	router := newTestRouter(stubService{})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments", `{"name":`)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestCreateDepartmentConflict(t *testing.T) {
	router := newTestRouter(stubService{
		createDepartmentFn: func(context.Context, services.CreateDepartmentInput) (*models.Department, error) {
			return nil, apperrors.NewConflictError(`department with name "Backend" already exists under this parent`)
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments", `{"name":"Backend"}`)

	require.Equal(t, http.StatusConflict, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	require.NotNil(t, response.Error)
	assert.Equal(t, dto.ErrorCodeConflict, response.Error.Code)
}

func TestCreateDepartmentParentNotFound(t *testing.T) {
	router := newTestRouter(stubService{
		createDepartmentFn: func(context.Context, services.CreateDepartmentInput) (*models.Department, error) {
			return nil, apperrors.NewNotFoundError("parent department not found")
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments", `{"name":"Backend","parent_id":42}`)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateEmployee(t *testing.T) {
	router := newTestRouter(stubService{
		createEmployeeFn: func(_ context.Context, departmentID int64, input services.CreateEmployeeInput) (*models.Employee, error) {
			assert.Equal(t, int64(3), departmentID)
			assert.Equal(t, "Ada Lovelace", input.FullName)
			require.NotNil(t, input.HiredAt)
			assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *input.HiredAt)
			return &models.Employee{
				ID:           7,
				DepartmentID: departmentID,
				FullName:     input.FullName,
				Position:     input.Position,
				HiredAt:      input.HiredAt,
			}, nil
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments/3/employees",
		`{"full_name":"Ada Lovelace","position":"Engineer","hired_at":"2024-06-01"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	var payload dto.EmployeeResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, int64(7), payload.ID)
	require.NotNil(t, payload.HiredAt)
	assert.Equal(t, "2024-06-01", *payload.HiredAt)
}

func TestCreateEmployeeBadHiredAt(t *testing.T) {
	router := newTestRouter(stubService{})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments/3/employees",
		`{"full_name":"Ada","position":"Engineer","hired_at":"01.06.2024"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestCreateEmployeeBadDepartmentID(t *testing.T) {
	router := newTestRouter(stubService{})

	recorder := doRequest(router, http.MethodPost, "/api/v1/departments/abc/employees",
		`{"full_name":"Ada","position":"Engineer"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestGetDepartmentTreeDefaults(t *testing.T) {
	var captured services.TreeOptions
	router := newTestRouter(stubService{
		getTreeFn: func(_ context.Context, departmentID int64, options services.TreeOptions) (*dto.DepartmentTreeResponse, error) {
			assert.Equal(t, int64(1), departmentID)
			captured = options
			return &dto.DepartmentTreeResponse{
				Department: dto.DepartmentResponse{ID: 1, Name: "Engineering"},
				Employees:  []dto.EmployeeResponse{},
				Children:   []dto.DepartmentTreeResponse{},
			}, nil
		},
	})

	recorder := doRequest(router, http.MethodGet, "/api/v1/departments/1", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, captured.Depth)
	assert.True(t, captured.IncludeEmployees)
	assert.Equal(t, models.EmployeeSortByCreatedAt, captured.SortEmployeesBy)
}

func TestGetDepartmentTreeQueryParams(t *testing.T) {
	var captured services.TreeOptions
	router := newTestRouter(stubService{
		getTreeFn: func(_ context.Context, _ int64, options services.TreeOptions) (*dto.DepartmentTreeResponse, error) {
			captured = options
			return &dto.DepartmentTreeResponse{}, nil
		},
	})

	recorder := doRequest(router, http.MethodGet,
		"/api/v1/departments/1?depth=3&include_employees=false&sort_employees=full_name", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 3, captured.Depth)
	assert.False(t, captured.IncludeEmployees)
	assert.Equal(t, models.EmployeeSortByFullName, captured.SortEmployeesBy)
}

func TestGetDepartmentTreeInvalidParams(t *testing.T) {
	router := newTestRouter(stubService{})

	for _, path := range []string{
		"/api/v1/departments/1?depth=0",
		"/api/v1/departments/1?depth=6",
		"/api/v1/departments/1?depth=zero",
		"/api/v1/departments/1?include_employees=sometimes",
		"/api/v1/departments/1?sort_employees=salary",
	} {
		recorder := doRequest(router, http.MethodGet, path, "")
		assert.Equalf(t, http.StatusUnprocessableEntity, recorder.Code, "path %s", path)
	}
}

func TestGetDepartmentTreeNotFound(t *testing.T) {
	router := newTestRouter(stubService{
		getTreeFn: func(context.Context, int64, services.TreeOptions) (*dto.DepartmentTreeResponse, error) {
			return nil, apperrors.NewNotFoundError("department not found")
		},
	})

	recorder := doRequest(router, http.MethodGet, "/api/v1/departments/404", "")

	require.Equal(t, http.StatusNotFound, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	require.NotNil(t, response.Error)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, response.Error.Code)
}

func TestUpdateDepartment(t *testing.T) {
	router := newTestRouter(stubService{
		updateDepartmentFn: func(_ context.Context, departmentID int64, input services.UpdateDepartmentInput) (*models.Department, error) {
			assert.Equal(t, int64(5), departmentID)
			require.NotNil(t, input.Name)
			assert.Equal(t, "Platform", *input.Name)
			assert.Nil(t, input.ParentID, "omitted parent_id must stay nil")
			return &models.Department{ID: 5, Name: "Platform"}, nil
		},
	})

	recorder := doRequest(router, http.MethodPatch, "/api/v1/departments/5", `{"name":"Platform"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	var payload dto.DepartmentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "Platform", payload.Name)
}

func TestUpdateDepartmentCycleConflict(t *testing.T) {
	router := newTestRouter(stubService{
		updateDepartmentFn: func(context.Context, int64, services.UpdateDepartmentInput) (*models.Department, error) {
			return nil, apperrors.NewConflictError("cannot move department into its own subtree")
		},
	})

	recorder := doRequest(router, http.MethodPatch, "/api/v1/departments/1", `{"parent_id":3}`)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestDeleteDepartmentCascade(t *testing.T) {
	var captured services.DeleteDepartmentInput
	router := newTestRouter(stubService{
		deleteDepartmentFn: func(_ context.Context, departmentID int64, input services.DeleteDepartmentInput) error {
			assert.Equal(t, int64(9), departmentID)
			captured = input
			return nil
		},
	})

	recorder := doRequest(router, http.MethodDelete, "/api/v1/departments/9?mode=cascade", "")

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())
	assert.Equal(t, services.DeleteModeCascade, captured.Mode)
	assert.Nil(t, captured.ReassignTo)
}

func TestDeleteDepartmentReassign(t *testing.T) {
	var captured services.DeleteDepartmentInput
	router := newTestRouter(stubService{
		deleteDepartmentFn: func(_ context.Context, _ int64, input services.DeleteDepartmentInput) error {
			captured = input
			return nil
		},
	})

	recorder := doRequest(router, http.MethodDelete,
		"/api/v1/departments/9?mode=reassign&reassign_to_department_id=2", "")

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, services.DeleteModeReassign, captured.Mode)
	require.NotNil(t, captured.ReassignTo)
	assert.Equal(t, int64(2), *captured.ReassignTo)
}

func TestDeleteDepartmentMissingReassignTarget(t *testing.T) {
	router := newTestRouter(stubService{
		deleteDepartmentFn: func(_ context.Context, _ int64, input services.DeleteDepartmentInput) error {
			return apperrors.NewBadRequestError("reassign_to_department_id is required when mode=reassign")
		},
	})

	recorder := doRequest(router, http.MethodDelete, "/api/v1/departments/9?mode=reassign", "")

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	require.NotNil(t, response.Error)
	assert.Equal(t, dto.ErrorCodeBadRequest, response.Error.Code)
}

func TestDeleteDepartmentInvalidMode(t *testing.T) {
	router := newTestRouter(stubService{
		deleteDepartmentFn: func(_ context.Context, _ int64, input services.DeleteDepartmentInput) error {
			return apperrors.NewValidationError(`invalid delete mode "purge", must be one of: cascade, reassign`)
		},
	})

	recorder := doRequest(router, http.MethodDelete, "/api/v1/departments/9?mode=purge", "")

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(stubService{})

	recorder := doRequest(router, http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}
