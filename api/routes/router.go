// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"ticketflow/internal/admission"
	"ticketflow/internal/catalog"
	"ticketflow/internal/notifications"
	"ticketflow/internal/payments"
	"ticketflow/internal/realtime"
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/database"
	"ticketflow/internal/ticketing"
	"ticketflow/pkg/cache"
	"ticketflow/pkg/clock"
	"ticketflow/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	// Cross-package wiring resolved during setup
	admissionService admission.Service
	admissionRepo    admission.Repository
	ticketingService ticketing.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Admission before ticketing: the reservation flow needs the queue
		// guard, and catalog needs the inventory provisioner
		r.setupAdmissionRoutes(api)
		r.setupTicketingAndCatalogRoutes(api)
		r.setupRealtimeRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketflow-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketflow-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAdmissionRoutes configures waiting-room routes
func (r *Router) setupAdmissionRoutes(rg *gin.RouterGroup) {
	repo := admission.NewRepository(r.db.GetRedis())
	service := admission.NewService(repo, r.config.Admission, clock.NewSystem())
	controller := admission.NewController(service)

	r.admissionRepo = repo
	r.admissionService = service

	admission.SetupAdmissionRoutes(rg, r.config, controller)
}

// setupTicketingAndCatalogRoutes wires the catalog, reservation and payment
// routes. They share the ticketing service: it provisions inventory for the
// catalog and processes confirmed payments for the payment registry.
func (r *Router) setupTicketingAndCatalogRoutes(rg *gin.RouterGroup) {
	ticketingRepo := ticketing.NewRepository(r.db.GetPostgreSQL())
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())

	gateway := payments.NewHTTPGateway(r.config.Payments)
	broadcaster := realtime.NewRedisBroadcaster(r.db.GetRedis())
	cacheService := cache.NewService(r.db.GetRedis())

	ticketingService := ticketing.NewService(
		ticketingRepo, catalogRepo, gateway, broadcaster,
		r.producer, cacheService, clock.NewSystem(), r.config.Holds,
	)
	r.ticketingService = ticketingService

	ticketingController := ticketing.NewController(ticketingService, r.admissionService, r.config.Admission.Enforced)
	ticketing.SetupTicketingRoutes(rg, r.config, ticketingController)

	catalogService := catalog.NewService(catalogRepo, ticketingService)
	catalogController := catalog.NewController(catalogService)
	catalog.SetupCatalogRoutes(rg, r.config, catalogController)

	registry := payments.NewRegistry()
	registry.AddResolver(ticketingService)
	if err := registry.Register(payments.OrderKindTicket, ticketingService); err != nil {
		logger.GetDefault().WithError(err).Error("Failed to register ticket payment processor")
	}
	paymentsController := payments.NewController(registry)
	payments.SetupPaymentRoutes(rg, r.config, paymentsController)
}

// setupRealtimeRoutes configures the seat status stream
func (r *Router) setupRealtimeRoutes(rg *gin.RouterGroup) {
	controller := realtime.NewController(r.db.GetRedis())

	showtimes := rg.Group("/showtimes")
	{
		showtimes.GET("/:id/stream", controller.StreamSeatStatus)
	}
}

// AdmissionService exposes the wired admission service for background jobs.
func (r *Router) AdmissionService() admission.Service {
	return r.admissionService
}

// AdmissionRepository exposes the wired admission repository for the
// scheduler's queue discovery.
func (r *Router) AdmissionRepository() admission.Repository {
	return r.admissionRepo
}

// TicketingService exposes the wired ticketing service for the hold reaper.
func (r *Router) TicketingService() ticketing.Service {
	return r.ticketingService
}
