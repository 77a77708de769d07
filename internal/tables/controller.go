package tables

import (
	"net/http"

	"tably/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) ListTables(ctx *gin.Context) {
	var zone *Zone
	if z := ctx.Query("zone"); z != "" {
		parsed := Zone(z)
		if !parsed.IsValid() {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid zone", nil, nil)
			return
		}
		zone = &parsed
	}

	tables, err := c.service.ListTables(ctx.Request.Context(), zone)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to list tables", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "tables retrieved", tables, nil)
}

func (c *Controller) GetTable(ctx *gin.Context) {
	table, err := c.service.GetTable(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "table retrieved", table, nil)
}

func (c *Controller) CreateTable(ctx *gin.Context) {
	var req CreateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	table, err := c.service.CreateTable(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "table created", table, nil)
}

func (c *Controller) UpdateTable(ctx *gin.Context) {
	var req UpdateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	table, err := c.service.UpdateTable(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "table updated", table, nil)
}
