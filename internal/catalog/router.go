package catalog

import (
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes configures showtime browsing and registration routes
func SetupCatalogRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	showtimes := rg.Group("/showtimes")
	{
		// Public browsing
		showtimes.GET("/:id", controller.GetShowtime)

		// Admin registration (provisions seat inventory)
		admin := showtimes.Group("")
		admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
		{
			admin.POST("", controller.RegisterShowtime)
		}
	}

	events := rg.Group("/events")
	{
		events.GET("/:eventId/showtimes", controller.ListShowtimesByEvent)
	}
}
