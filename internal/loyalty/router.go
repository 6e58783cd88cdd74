package loyalty

import (
	"yellowair/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupLoyaltyRoutes(router *gin.RouterGroup, controller Controller) {
	// Manual trigger stays admin-only; ordinary clients never settle points
	cronRoutes := router.Group("/cron")
	cronRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		cronRoutes.GET("/process-points", controller.ProcessPoints) // GET /api/v1/cron/process-points
	}
}
