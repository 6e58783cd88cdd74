package routes

import (
	"yellowair/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRouteRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - the booking UI browses the network
	publicRoutes := router.Group("/routes")
	{
		publicRoutes.GET("", controller.GetAllRoutes)              // GET /api/v1/routes
		publicRoutes.GET("/:flightNumber", controller.GetRoute)    // GET /api/v1/routes/:flightNumber
	}

	// Admin routes - schedule editing belongs to the admin collaborator
	adminRoutes := router.Group("/admin/routes")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.PUT("", controller.UpsertRoute) // PUT /api/v1/admin/routes
	}
}
