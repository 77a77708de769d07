package escalation

import (
	"net/http"
	"time"

	"tably/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// EvaluateRequest is the HTTP payload for an escalation check.
type EvaluateRequest struct {
	PartySize            int      `json:"party_size" binding:"required,min=1"`
	Date                 string   `json:"date" binding:"required"`
	SpecialRequests      []string `json:"special_requests"`
	HadNoAvailability    bool     `json:"had_no_availability"`
	ExplicitHumanRequest bool     `json:"explicit_human_request"`
}

type Controller struct {
	policy *Policy
}

func NewController(policy *Policy) *Controller {
	return &Controller{policy: policy}
}

func (c *Controller) Evaluate(ctx *gin.Context) {
	var req EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil, nil)
		return
	}

	result := c.policy.Evaluate(Input{
		PartySize:            req.PartySize,
		Date:                 date,
		SpecialRequests:      req.SpecialRequests,
		HadNoAvailability:    req.HadNoAvailability,
		ExplicitHumanRequest: req.ExplicitHumanRequest,
	})
	response.RespondJSON(ctx, "success", http.StatusOK, "escalation evaluated", result, nil)
}
