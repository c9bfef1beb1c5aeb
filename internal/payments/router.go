package payments

import (
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures payment confirmation routes
func SetupPaymentRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	paymentsGroup := rg.Group("/payments")
	paymentsGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		paymentsGroup.POST("/confirm", controller.Confirm)
	}
}
