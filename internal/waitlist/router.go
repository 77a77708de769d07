package waitlist

import "github.com/gin-gonic/gin"

// SetupWaitlistRoutes registers the waitlist routes
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/waitlist")
	{
		group.POST("", controller.Add)
		group.POST("/notify-next", controller.NotifyNext)
		group.POST("/:id/confirm", controller.Confirm)
		group.POST("/:id/cancel", controller.Cancel)
		group.GET("/stats", controller.Stats)
	}
}
