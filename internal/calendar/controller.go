package calendar

import (
	"net/http"
	"time"

	"tably/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetDate reports the holiday and demand verdict for one date
func (c *Controller) GetDate(ctx *gin.Context) {
	date, err := time.Parse(dateLayout, ctx.Param("date"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil, nil)
		return
	}

	payload := gin.H{
		"date":        date.Format(dateLayout),
		"is_holiday":  c.service.IsHoliday(date),
		"high_demand": c.service.IsHighDemand(date),
	}
	if h, ok := c.service.GetHoliday(date); ok {
		payload["holiday"] = h
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "calendar verdict", payload, nil)
}

// AddDemandWindow registers a curated high-demand window
func (c *Controller) AddDemandWindow(ctx *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid start_date", nil, nil)
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil || end.Before(start) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid end_date", nil, nil)
		return
	}

	window := &DemandWindow{
		Year:      start.Year(),
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	if err := c.service.AddDemandWindow(ctx.Request.Context(), window); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to save demand window", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "demand window added", window, nil)
}
