package assignment

import (
	"errors"
	"net/http"

	"tably/internal/shared/faults"
	"tably/internal/shared/utils/response"
	"tably/internal/tables"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	engine    *Engine
	validator *validator.Validate
}

func NewController(engine *Engine) *Controller {
	return &Controller{
		engine:    engine,
		validator: validator.New(),
	}
}

func (c *Controller) Assign(ctx *gin.Context) {
	var req AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "validation failed", nil, err.Error())
		return
	}

	result, err := c.engine.Assign(ctx.Request.Context(), req.toRequest())
	if err != nil {
		if errors.Is(err, faults.ErrInvalidRequest) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "assignment failed", nil, err.Error())
		return
	}
	if !result.Success {
		// Business failures travel in the result body with a 200; the
		// caller branches on failure_reason and escalation_required.
		response.RespondJSON(ctx, "success", http.StatusOK, "no assignment", result, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "table assigned", result, nil)
}

func (c *Controller) GetAvailable(ctx *gin.Context) {
	date := ctx.Query("date")
	shift := tables.Shift(ctx.Query("shift"))

	var zone *tables.Zone
	if z := ctx.Query("zone"); z != "" {
		parsed := tables.Zone(z)
		if !parsed.IsValid() {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid zone", nil, nil)
			return
		}
		zone = &parsed
	}

	ids, err := c.engine.GetAvailable(ctx.Request.Context(), date, shift, zone)
	if err != nil {
		if errors.Is(err, faults.ErrInvalidRequest) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "availability lookup failed", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "available tables", ids, nil)
}

func (c *Controller) ConfirmHold(ctx *gin.Context) {
	confirmed, err := c.engine.ConfirmHold(ctx.Request.Context(), ctx.Param("id"))
	c.respondHoldOutcome(ctx, confirmed, err, "hold confirmed")
}

func (c *Controller) ReleaseHold(ctx *gin.Context) {
	released, err := c.engine.ReleaseHold(ctx.Request.Context(), ctx.Param("id"))
	c.respondHoldOutcome(ctx, released, err, "hold released")
}

func (c *Controller) respondHoldOutcome(ctx *gin.Context, done bool, err error, message string) {
	switch {
	case err == nil:
		response.RespondJSON(ctx, "success", http.StatusOK, message, gin.H{"done": done}, nil)
	case errors.Is(err, faults.ErrAlreadyFinalized):
		response.RespondJSON(ctx, "success", http.StatusOK, "hold already finalized", gin.H{"done": false}, nil)
	case errors.Is(err, faults.ErrInvalidRequest):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "hold operation failed", nil, err.Error())
	}
}
