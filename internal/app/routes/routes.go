package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/orgtree/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, departmentController *controllers.DepartmentController) {
	v1 := router.Group("/api/v1")

	departments := v1.Group("/departments")
	{
		departments.POST("", departmentController.CreateDepartment)
		departments.POST("/:id/employees", departmentController.CreateEmployee)
		departments.GET("/:id", departmentController.GetDepartmentTree)
		departments.PATCH("/:id", departmentController.UpdateDepartment)
		departments.DELETE("/:id", departmentController.DeleteDepartment)
	}

	// Health check endpoint
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
