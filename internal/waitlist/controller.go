package waitlist

import (
	"context"
	"errors"
	"net/http"

	"tably/internal/shared/faults"
	"tably/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) Add(ctx *gin.Context) {
	var req AddWaitlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "validation failed", nil, err.Error())
		return
	}

	entry, err := c.service.Add(ctx.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, faults.ErrInvalidRequest) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to join waitlist", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "added to waitlist", entry, nil)
}

func (c *Controller) NotifyNext(ctx *gin.Context) {
	var req NotifyNextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "validation failed", nil, err.Error())
		return
	}

	entry, err := c.service.NotifyNext(ctx.Request.Context(), req.Date, req.Time, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, faults.ErrInvalidRequest):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, faults.ErrServiceUnavailable):
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "messaging channel unavailable", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to notify waitlist", nil, err.Error())
		}
		return
	}
	if entry == nil {
		response.RespondJSON(ctx, "success", http.StatusOK, "no fitting entry waiting", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "entry notified", entry, nil)
}

func (c *Controller) Confirm(ctx *gin.Context) {
	c.finalize(ctx, c.service.Confirm, "entry confirmed")
}

func (c *Controller) Cancel(ctx *gin.Context) {
	c.finalize(ctx, c.service.Cancel, "entry cancelled")
}

func (c *Controller) finalize(ctx *gin.Context, op func(context.Context, uuid.UUID) (bool, error), message string) {
	id, ok := parseEntryID(ctx)
	if !ok {
		return
	}

	done, err := op(ctx.Request.Context(), id)
	switch {
	case err == nil:
		response.RespondJSON(ctx, "success", http.StatusOK, message, gin.H{"done": done}, nil)
	case errors.Is(err, faults.ErrInvalidTransition):
		response.RespondJSON(ctx, "error", http.StatusConflict, "offer no longer valid", nil, err.Error())
	case errors.Is(err, faults.ErrInvalidRequest):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "waitlist operation failed", nil, err.Error())
	}
}

func (c *Controller) Stats(ctx *gin.Context) {
	date := ctx.Query("date")
	stats, err := c.service.Stats(ctx.Request.Context(), date)
	if err != nil {
		if errors.Is(err, faults.ErrInvalidRequest) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to load stats", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "waitlist stats", stats, nil)
}

func parseEntryID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid entry id", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}
