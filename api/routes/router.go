// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"yellowair/internal/bookings"
	"yellowair/internal/flights"
	"yellowair/internal/loyalty"
	"yellowair/internal/notifications"
	"yellowair/internal/occupancy"
	routedomain "yellowair/internal/routes"
	"yellowair/internal/shared/config"
	"yellowair/internal/shared/database"
	"yellowair/internal/users"
	"yellowair/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	producer     notifications.SettlementProducer

	routeService   routedomain.Service // shared with occupancy
	loyaltyService loyalty.Service     // exposed for the background job
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetCacheService wires the Redis read-model cache and settlement lease.
func (r *Router) SetCacheService(cacheService cache.Service) {
	r.cacheService = cacheService
}

// SetSettlementProducer wires the Kafka settlement event stream.
func (r *Router) SetSettlementProducer(producer notifications.SettlementProducer) {
	r.producer = producer
}

// LoyaltyService returns the settlement service after SetupRoutes has run,
// for the periodic job to share.
func (r *Router) LoyaltyService() loyalty.Service {
	return r.loyaltyService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Route templates first: occupancy reads through the same service
		r.setupRouteRoutes(api)

		r.setupFlightRoutes(api)
		r.setupOccupancyRoutes(api)
		r.setupLoyaltyRoutes(api)
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
				"service":   "yellowair-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "yellowair-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupRouteRoutes configures the route template endpoints
func (r *Router) setupRouteRoutes(rg *gin.RouterGroup) {
	routeRepo := routedomain.NewRepository(r.db.GetPostgreSQL())
	routeService := routedomain.NewService(routeRepo)
	routeController := routedomain.NewController(routeService)

	if r.cacheService != nil {
		routeController.SetCacheService(r.cacheService)
	}

	r.routeService = routeService

	routedomain.SetupRouteRoutes(rg, routeController)
}

// setupFlightRoutes configures the simulated status board endpoints
func (r *Router) setupFlightRoutes(rg *gin.RouterGroup) {
	flightRepo := flights.NewRepository(r.db.GetPostgreSQL())
	routeRepo := routedomain.NewRepository(r.db.GetPostgreSQL())
	flightService := flights.NewService(flightRepo, routeRepo)
	synchronizer := flights.NewDaySynchronizer(flightService, r.config.Simulation.SyncMinInterval)
	flightController := flights.NewController(flightService, synchronizer)

	if r.cacheService != nil {
		flightController.SetCacheService(r.cacheService)
	}

	flights.SetupFlightRoutes(rg, flightController)
}

// setupOccupancyRoutes configures the deterministic seat map endpoints
func (r *Router) setupOccupancyRoutes(rg *gin.RouterGroup) {
	occupancyController := occupancy.NewController(r.routeService)

	if r.cacheService != nil {
		occupancyController.SetCacheService(r.cacheService)
	}

	occupancy.SetupOccupancyRoutes(rg, occupancyController)
}

// setupLoyaltyRoutes configures the settlement trigger endpoints
func (r *Router) setupLoyaltyRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	loyaltyService := loyalty.NewService(bookingRepo, userRepo)

	if r.cacheService != nil {
		loyaltyService.SetCacheService(r.cacheService)
	}
	if r.producer != nil {
		loyaltyService.SetProducer(r.producer)
	}

	r.loyaltyService = loyaltyService

	loyaltyController := loyalty.NewController(loyaltyService)

	loyalty.SetupLoyaltyRoutes(rg, loyaltyController)
}
