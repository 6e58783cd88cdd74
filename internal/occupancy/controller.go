package occupancy

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"yellowair/internal/routes"
	"yellowair/internal/shared/constants"
	"yellowair/internal/shared/utils/response"
	"yellowair/pkg/cache"
	"yellowair/pkg/logger"
)

type Controller interface {
	GetSeatMap(c *gin.Context)
	SetCacheService(cacheService cache.Service)
}

type controller struct {
	routeService routes.Service
	cacheService cache.Service
	log          *logger.Logger
}

func NewController(routeService routes.Service) Controller {
	return &controller{
		routeService: routeService,
		log:          logger.GetDefault(),
	}
}

// SetCacheService enables caching of rendered seat maps. Safe for a longer
// TTL since the map for a given flight, date and cabin never changes.
func (ctrl *controller) SetCacheService(cacheService cache.Service) {
	ctrl.cacheService = cacheService
}

// SeatMapResponse is the availability view served to the seat-selection UI.
type SeatMapResponse struct {
	FlightNumber   string  `json:"flight_number"`
	Date           string  `json:"date"`
	Cabin          string  `json:"cabin"`
	TotalSeats     int     `json:"total_seats"`
	OccupiedSeats  []int   `json:"occupied_seats"`
	AvailableSeats int     `json:"available_seats"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	OccupancyPct   float64 `json:"occupancy_percentage"`
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	flightNumber := c.Param("flightNumber")

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, err.Error())
		return
	}

	cabin := routes.CabinClass(c.DefaultQuery("cabin", string(routes.CabinEconomy)))
	if !cabin.IsValid() {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid cabin class", nil, nil)
		return
	}

	cacheKey := fmt.Sprintf("%s:flight:%s:date:%s:cabin:%s",
		constants.CACHE_KEY_SEAT_MAP, flightNumber, date.Format("2006-01-02"), cabin)

	if ctrl.cacheService != nil {
		var cached SeatMapResponse
		if err := ctrl.cacheService.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", cached, nil)
			return
		}
	}

	template, err := ctrl.routeService.GetRouteByFlightNumber(c.Request.Context(), flightNumber)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		return
	}

	totalSeats := template.SeatsFor(cabin)
	if totalSeats == 0 {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Cabin not offered on this route", nil, nil)
		return
	}

	occupied := OccupiedSeats(template.ID.String(), date, cabin, totalSeats)
	indices := make([]int, 0, len(occupied))
	for idx := range occupied {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	resp := SeatMapResponse{
		FlightNumber:   template.FlightNumber,
		Date:           date.Format("2006-01-02"),
		Cabin:          cabin.String(),
		TotalSeats:     totalSeats,
		OccupiedSeats:  indices,
		AvailableSeats: totalSeats - len(indices),
		OccupancyRate:  Rate(date, template.ID.String()),
		OccupancyPct:   Percentage(template.ID.String(), date, cabin, totalSeats),
	}

	if ctrl.cacheService != nil {
		if err := ctrl.cacheService.Set(c.Request.Context(), cacheKey, resp, constants.TTL_SEAT_MAP); err != nil {
			ctrl.log.LogCacheWriteFailed(c.Request.Context(), cacheKey, err)
		}
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", resp, nil)
}
