package admission

import (
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdmissionRoutes configures waiting-room routes
func SetupAdmissionRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	queue := rg.Group("/queue")
	{
		// Public: entering and polling the queue needs no account
		queue.POST("/enter", controller.Enter)
		queue.GET("/status", controller.Status)

		// Admin override for manual batch admission
		admin := queue.Group("")
		admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
		{
			admin.POST("/admit", controller.Admit)
		}
	}
}
