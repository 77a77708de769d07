package tables

import "github.com/gin-gonic/gin"

// SetupTableRoutes registers catalog admin routes
func SetupTableRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/tables")
	{
		group.GET("", controller.ListTables)
		group.GET("/:id", controller.GetTable)
		group.POST("", controller.CreateTable)
		group.PATCH("/:id", controller.UpdateTable)
	}
}
