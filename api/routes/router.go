// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"tably/internal/assignment"
	"tably/internal/calendar"
	"tably/internal/escalation"
	"tably/internal/shared/config"
	"tably/internal/shared/database"
	"tably/internal/tables"
	"tably/internal/waitlist"

	"github.com/gin-gonic/gin"
)

// Deps carries the singleton services constructed at process start.
type Deps struct {
	Config          *config.Config
	DB              *database.DB
	TableService    tables.Service
	CalendarService calendar.Service
	Engine          *assignment.Engine
	Policy          *escalation.Policy
	WaitlistService waitlist.Service
}

// Router holds all route dependencies
type Router struct {
	deps Deps
}

// NewRouter creates a new router instance
func NewRouter(deps Deps) *Router {
	return &Router{deps: deps}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.deps.Config.GetAPIBasePath())
	{
		tables.SetupTableRoutes(api, tables.NewController(r.deps.TableService))
		calendar.SetupCalendarRoutes(api, calendar.NewController(r.deps.CalendarService))
		assignment.SetupAssignmentRoutes(api, assignment.NewController(r.deps.Engine))
		escalation.SetupEscalationRoutes(api, escalation.NewController(r.deps.Policy))
		waitlist.SetupWaitlistRoutes(api, waitlist.NewController(r.deps.WaitlistService))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.deps.DB.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tably",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tably",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.deps.Config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.deps.Config.APIVersion,
			"venue":       r.deps.Config.Venue.Name,
			"timestamp":   time.Now(),
		})
	})
}
