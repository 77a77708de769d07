package calendar

import "github.com/gin-gonic/gin"

// SetupCalendarRoutes registers demand calendar routes
func SetupCalendarRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/calendar")
	{
		group.GET("/:date", controller.GetDate)
		group.POST("/demand-windows", controller.AddDemandWindow)
	}
}
