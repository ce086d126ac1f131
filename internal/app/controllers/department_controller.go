package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/orgtree/internal/app/models"
	"github.com/yigit/orgtree/internal/app/models/dto"
	"github.com/yigit/orgtree/internal/app/services"
	"github.com/yigit/orgtree/internal/middleware"
)

const (
	defaultTreeDepth = 1
	maxTreeDepth     = 5
)

// DepartmentController handles department and employee operations
type DepartmentController struct {
	departmentService services.DepartmentManager
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService services.DepartmentManager) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
	}
}

// CreateDepartment handles department creation
// @Summary Create a new department
// @Description Creates a department, optionally under a parent. The name must be unique among its siblings.
// @Tags departments
// @Accept json
// @Produce json
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 200 {object} dto.DepartmentResponse "Department created"
// @Failure 404 {object} dto.ErrorResponse "Parent department not found"
// @Failure 409 {object} dto.ErrorResponse "Sibling name conflict"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [post]
func (c *DepartmentController) CreateDepartment(ctx *gin.Context) {
	var request dto.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondValidationError(ctx, "Invalid department data", err)
		return
	}

	department, err := c.departmentService.CreateDepartment(ctx, services.CreateDepartmentInput{
		Name:     request.Name,
		ParentID: request.ParentID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDepartmentResponse(department))
}

// CreateEmployee handles employee creation in a department
// @Summary Create an employee in a department
// @Description Creates an employee attached to the given department
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param request body dto.CreateEmployeeRequest true "Employee information"
// @Success 200 {object} dto.EmployeeResponse "Employee created"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id}/employees [post]
func (c *DepartmentController) CreateEmployee(ctx *gin.Context) {
	departmentID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var request dto.CreateEmployeeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondValidationError(ctx, "Invalid employee data", err)
		return
	}

	hiredAt, err := request.ParseHiredAt()
	if err != nil {
		respondValidationError(ctx, "hired_at must be a date in YYYY-MM-DD format", err)
		return
	}

	employee, err := c.departmentService.CreateEmployee(ctx, departmentID, services.CreateEmployeeInput{
		FullName: request.FullName,
		Position: request.Position,
		HiredAt:  hiredAt,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewEmployeeResponse(employee))
}

// GetDepartmentTree retrieves a department with its subtree
// @Summary Get a department tree
// @Description Retrieves a department with its employees and child subtrees up to the requested depth
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param depth query int false "Depth of nested departments" default(1) minimum(1) maximum(5)
// @Param include_employees query bool false "Include employee lists" default(true)
// @Param sort_employees query string false "Employee sort key" Enums(created_at, full_name) default(created_at)
// @Success 200 {object} dto.DepartmentTreeResponse "Department tree"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [get]
func (c *DepartmentController) GetDepartmentTree(ctx *gin.Context) {
	departmentID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	depth := defaultTreeDepth
	if raw := ctx.Query("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTreeDepth {
			respondValidationError(ctx, "depth must be an integer between 1 and 5", nil)
			return
		}
		depth = parsed
	}

	includeEmployees := true
	if raw := ctx.Query("include_employees"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondValidationError(ctx, "include_employees must be a boolean", nil)
			return
		}
		includeEmployees = parsed
	}

	sortBy := models.EmployeeSortByCreatedAt
	if raw := ctx.Query("sort_employees"); raw != "" {
		sortBy = models.EmployeeSortField(raw)
		if !sortBy.Valid() {
			respondValidationError(ctx, "sort_employees must be one of: created_at, full_name", nil)
			return
		}
	}

	tree, err := c.departmentService.GetDepartmentTree(ctx, departmentID, services.TreeOptions{
		Depth:            depth,
		IncludeEmployees: includeEmployees,
		SortEmployeesBy:  sortBy,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tree)
}

// UpdateDepartment renames and/or reparents a department
// @Summary Update a department
// @Description Updates the name and/or parent of a department. Omitted fields keep their current values.
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param request body dto.UpdateDepartmentRequest true "Updated department information"
// @Success 200 {object} dto.DepartmentResponse "Department updated"
// @Failure 404 {object} dto.ErrorResponse "Department or target parent not found"
// @Failure 409 {object} dto.ErrorResponse "Name conflict, self-parenting or cycle"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [patch]
func (c *DepartmentController) UpdateDepartment(ctx *gin.Context) {
	departmentID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var request dto.UpdateDepartmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondValidationError(ctx, "Invalid department data", err)
		return
	}

	department, err := c.departmentService.UpdateDepartment(ctx, departmentID, services.UpdateDepartmentInput{
		Name:     request.Name,
		ParentID: request.ParentID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDepartmentResponse(department))
}

// DeleteDepartment deletes a department with the chosen strategy
// @Summary Delete a department
// @Description cascade: deletes the department with its whole subtree and employees. reassign: relinks direct employees and children to the target department, then deletes the department alone.
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param mode query string true "Deletion strategy" Enums(cascade, reassign)
// @Param reassign_to_department_id query int false "Target department (required when mode=reassign)"
// @Success 204 "Department deleted"
// @Failure 400 {object} dto.ErrorResponse "Missing reassign target"
// @Failure 404 {object} dto.ErrorResponse "Department or target not found"
// @Failure 409 {object} dto.ErrorResponse "Reassign target equals the department"
// @Failure 422 {object} dto.ErrorResponse "Invalid deletion mode"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [delete]
func (c *DepartmentController) DeleteDepartment(ctx *gin.Context) {
	departmentID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var reassignTo *int64
	if raw := ctx.Query("reassign_to_department_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidationError(ctx, "reassign_to_department_id must be a valid number", nil)
			return
		}
		reassignTo = &parsed
	}

	err := c.departmentService.DeleteDepartment(ctx, departmentID, services.DeleteDepartmentInput{
		Mode:       services.DeleteMode(ctx.Query("mode")),
		ReassignTo: reassignTo,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// parseIDParam parses the department ID path parameter, responding with a
// validation error on malformed input
func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		respondValidationError(ctx, "Department ID must be a valid number", nil)
		return 0, false
	}
	return id, true
}

func respondValidationError(ctx *gin.Context, message string, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	if err != nil {
		errorDetail = errorDetail.WithDetails(err.Error())
	}
	ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(errorDetail))
}
