package admission

import (
	"net/http"

	"ticketflow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Enter handles POST /queue/enter
func (c *Controller) Enter(ctx *gin.Context) {
	var req EnterQueueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	result, err := c.service.Enter(ctx.Request.Context(), eventID, req.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to enter queue", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Entered queue successfully", EnterQueueResponse{
		Token:    result.Token,
		Position: result.Position,
	}, nil)
}

// Status handles GET /queue/status?token=
func (c *Controller) Status(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Missing queue token", nil, "token query parameter is required")
		return
	}

	result, err := c.service.Status(ctx.Request.Context(), token)
	if err != nil {
		response.RespondError(ctx, "Failed to get queue status", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Queue status retrieved successfully", QueueStatusResponse{
		EventID:  result.EventID,
		Status:   result.Status,
		Position: result.Position,
	}, nil)
}

// Admit handles POST /queue/admit (admin)
// Manual batch admission alongside the scheduler, for operational overrides.
func (c *Controller) Admit(ctx *gin.Context) {
	var req AdmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	admitted, err := c.service.AllowEntriesForEvent(ctx.Request.Context(), eventID, req.Count)
	if err != nil {
		response.RespondError(ctx, "Failed to admit queue entries", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Queue entries admitted successfully", AdmitResponse{
		EventID:  eventID,
		Admitted: admitted,
	}, nil)
}
