package ticketing

import (
	"context"
	"net/http"

	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/shared/utils/response"
	"ticketflow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueueTokenHeader carries the waiting-room token into the reservation flow.
const QueueTokenHeader = "X-Queue-Token"

// QueueGuard gates reservation creation on waiting-room admission.
// Implemented by the admission service; declared here to avoid a circular
// dependency.
type QueueGuard interface {
	VerifyReady(ctx context.Context, token string) (uuid.UUID, error)
	ConsumeReady(ctx context.Context, token string) error
}

type Controller struct {
	service      Service
	guard        QueueGuard
	enforceGuard bool
	log          *logger.Logger
}

func NewController(service Service, guard QueueGuard, enforceGuard bool) *Controller {
	return &Controller{
		service:      service,
		guard:        guard,
		enforceGuard: enforceGuard,
		log:          logger.GetDefault(),
	}
}

// CreateReservation handles POST /reservations
func (c *Controller) CreateReservation(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	queueToken := ctx.GetHeader(QueueTokenHeader)
	if c.enforceGuard {
		if _, err := c.guard.VerifyReady(ctx.Request.Context(), queueToken); err != nil {
			response.RespondError(ctx, "Queue admission required", err)
			return
		}
	}

	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, err.Error())
		return
	}

	inventoryIDs := make([]uuid.UUID, 0, len(req.SeatInventoryIDs))
	for _, raw := range req.SeatInventoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat inventory ID", nil, err.Error())
			return
		}
		inventoryIDs = append(inventoryIDs, id)
	}

	reservation, err := c.service.CreateReservation(ctx.Request.Context(), userID, showtimeID, inventoryIDs)
	if err != nil {
		response.RespondError(ctx, "Failed to create reservation", err)
		return
	}

	// One admission pays for one checkout. Failed attempts keep the token
	// so the caller can retry different seats within the ready window.
	if c.enforceGuard && queueToken != "" {
		if err := c.guard.ConsumeReady(ctx.Request.Context(), queueToken); err != nil {
			c.log.WithError(err).Warn("Failed to consume ready token")
		}
	}

	_, inventories, err := c.service.GetReservation(ctx.Request.Context(), reservation.ID, userID)
	if err != nil {
		// The reservation exists; respond without seat details
		inventories = nil
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully",
		toReservationResponse(reservation, inventories), nil)
}

// GetReservation handles GET /reservations/:id
func (c *Controller) GetReservation(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	reservation, inventories, err := c.service.GetReservation(ctx.Request.Context(), id, userID)
	if err != nil {
		response.RespondError(ctx, "Failed to get reservation", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully",
		toReservationResponse(reservation, inventories), nil)
}

// ListReservations handles GET /reservations
func (c *Controller) ListReservations(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	reservations, err := c.service.ListReservations(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondError(ctx, "Failed to list reservations", err)
		return
	}

	responses := make([]ReservationResponse, 0, len(reservations))
	for i := range reservations {
		responses = append(responses, toReservationResponse(&reservations[i], nil))
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", responses, nil)
}

// CancelReservation handles DELETE /reservations/:id
func (c *Controller) CancelReservation(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	if err := c.service.CancelReservation(ctx.Request.Context(), id, userID); err != nil {
		response.RespondError(ctx, "Failed to cancel reservation", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation cancelled successfully", nil, nil)
}

// GetSeatMap handles GET /showtimes/:id/seats
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, err.Error())
		return
	}

	snapshot, err := c.service.GetSeatMap(ctx.Request.Context(), showtimeID)
	if err != nil {
		response.RespondError(ctx, "Failed to get seat map", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved successfully", snapshot, nil)
}

// Rebroadcast handles POST /showtimes/:id/rebroadcast (admin)
func (c *Controller) Rebroadcast(ctx *gin.Context) {
	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, err.Error())
		return
	}

	if err := c.service.RebroadcastShowtime(ctx.Request.Context(), showtimeID); err != nil {
		response.RespondError(ctx, "Failed to rebroadcast seat status", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat status rebroadcast successfully", nil, nil)
}

func (c *Controller) authenticatedUser(ctx *gin.Context) (uuid.UUID, bool) {
	raw := middleware.UserID(ctx)
	userID, err := uuid.Parse(raw)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		ctx.Abort()
		return uuid.Nil, false
	}
	return userID, true
}
