package assignment

import "github.com/gin-gonic/gin"

// SetupAssignmentRoutes registers the assignment and hold routes
func SetupAssignmentRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/assignments")
	{
		group.POST("", controller.Assign)
		group.GET("/available", controller.GetAvailable)
		group.POST("/holds/:id/confirm", controller.ConfirmHold)
		group.POST("/holds/:id/release", controller.ReleaseHold)
	}
}
