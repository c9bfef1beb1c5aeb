package catalog

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

// RegisterShowtime handles POST /showtimes (admin)
func (c *Controller) RegisterShowtime(ctx *gin.Context) {
	var req RegisterShowtimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	showtime, err := c.service.RegisterShowtime(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, "Failed to register showtime", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Showtime registered successfully", showtime, nil)
}

// GetShowtime handles GET /showtimes/:id
func (c *Controller) GetShowtime(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, err.Error())
		return
	}

	showtime, err := c.service.GetShowtime(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, "Failed to get showtime", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtime retrieved successfully", showtime, nil)
}

// ListShowtimesByEvent handles GET /events/:eventId/showtimes
func (c *Controller) ListShowtimesByEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("eventId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	showtimes, err := c.service.ListShowtimesByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, "Failed to list showtimes", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtimes retrieved successfully", showtimes, nil)
}
