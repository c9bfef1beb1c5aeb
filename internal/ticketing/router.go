package ticketing

import (
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketingRoutes configures reservation and seat-map routes
func SetupTicketingRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	reservations := rg.Group("/reservations")
	reservations.Use(middleware.JWTAuthWithConfig(cfg))
	{
		reservations.POST("", controller.CreateReservation)
		reservations.GET("", controller.ListReservations)
		reservations.GET("/:id", controller.GetReservation)
		reservations.DELETE("/:id", controller.CancelReservation)
	}

	showtimes := rg.Group("/showtimes")
	{
		// Public seat map
		showtimes.GET("/:id/seats", controller.GetSeatMap)

		// Admin recovery tool
		admin := showtimes.Group("")
		admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
		{
			admin.POST("/:id/rebroadcast", controller.Rebroadcast)
		}
	}
}
