package payments

import (
	"net/http"

	"ticketflow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	registry *Registry
}

func NewController(registry *Registry) *Controller {
	return &Controller{registry: registry}
}

// Confirm handles POST /payments/confirm
// Routes the gateway callback to whichever domain owns the order.
func (c *Controller) Confirm(ctx *gin.Context) {
	var req ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	err := c.registry.Dispatch(ctx.Request.Context(), ConfirmRequest{
		OrderID:    req.OrderID,
		PaymentKey: req.PaymentKey,
		Amount:     req.Amount,
	})
	if err != nil {
		response.RespondError(ctx, "Failed to confirm payment", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed successfully", gin.H{
		"order_id": req.OrderID,
	}, nil)
}
