package escalation

import "github.com/gin-gonic/gin"

// SetupEscalationRoutes registers the escalation evaluation route
func SetupEscalationRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/escalation")
	{
		group.POST("/evaluate", controller.Evaluate)
	}
}
