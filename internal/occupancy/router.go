package occupancy

import "github.com/gin-gonic/gin"

func SetupOccupancyRoutes(router *gin.RouterGroup, controller Controller) {
	flights := router.Group("/flights")
	{
		flights.GET("/:flightNumber/seatmap", controller.GetSeatMap) // GET /api/v1/flights/:flightNumber/seatmap?date=&cabin=
	}
}
