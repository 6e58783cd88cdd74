package flights

import "github.com/gin-gonic/gin"

func SetupFlightRoutes(router *gin.RouterGroup, controller Controller) {
	// The status board is the only caller of the lifecycle operations: each
	// poll lazily materializes and advances the day it asks about.
	router.GET("/flight-status", controller.GetFlightStatus) // GET /api/v1/flight-status?date=&status=&search=&limit=&offset=
}
