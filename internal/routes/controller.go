package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yellowair/internal/shared/constants"
	"yellowair/internal/shared/utils/response"
	"yellowair/pkg/cache"
	"yellowair/pkg/logger"
)

type Controller interface {
	GetAllRoutes(c *gin.Context)
	GetRoute(c *gin.Context)
	UpsertRoute(c *gin.Context)
	SetCacheService(cacheService cache.Service)
}

type controller struct {
	service      Service
	cacheService cache.Service
	log          *logger.Logger
}

func NewController(service Service) Controller {
	return &controller{
		service: service,
		log:     logger.GetDefault(),
	}
}

// SetCacheService enables caching of route listings and details. Admin
// upserts invalidate the affected entries; listings otherwise age out.
func (ctrl *controller) SetCacheService(cacheService cache.Service) {
	ctrl.cacheService = cacheService
}

func (ctrl *controller) GetAllRoutes(c *gin.Context) {
	// Optional ?date=YYYY-MM-DD filters to templates operating that weekday.
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, err.Error())
			return
		}

		templates, err := ctrl.service.ListRoutesForDate(c.Request.Context(), date)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list routes", nil, nil)
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Routes retrieved successfully", templates, nil)
		return
	}

	if ctrl.cacheService != nil {
		var cached []RouteTemplate
		if err := ctrl.cacheService.Get(c.Request.Context(), constants.CACHE_KEY_ROUTES_LIST, &cached); err == nil {
			response.RespondJSON(c, "success", http.StatusOK, "Routes retrieved successfully", cached, nil)
			return
		}
	}

	templates, err := ctrl.service.ListRoutes(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list routes", nil, nil)
		return
	}

	if ctrl.cacheService != nil {
		if err := ctrl.cacheService.Set(c.Request.Context(), constants.CACHE_KEY_ROUTES_LIST, templates, constants.TTL_ROUTES_LIST); err != nil {
			ctrl.log.LogCacheWriteFailed(c.Request.Context(), constants.CACHE_KEY_ROUTES_LIST, err)
		}
	}

	response.RespondJSON(c, "success", http.StatusOK, "Routes retrieved successfully", templates, nil)
}

func (ctrl *controller) GetRoute(c *gin.Context) {
	flightNumber := c.Param("flightNumber")
	cacheKey := constants.CACHE_KEY_ROUTE_DETAIL + flightNumber

	if ctrl.cacheService != nil {
		var cached RouteTemplate
		if err := ctrl.cacheService.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			response.RespondJSON(c, "success", http.StatusOK, "Route retrieved successfully", cached, nil)
			return
		}
	}

	template, err := ctrl.service.GetRouteByFlightNumber(c.Request.Context(), flightNumber)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "route "+flightNumber+" not found" {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	if ctrl.cacheService != nil {
		if err := ctrl.cacheService.Set(c.Request.Context(), cacheKey, template, constants.TTL_ROUTE_DETAIL); err != nil {
			ctrl.log.LogCacheWriteFailed(c.Request.Context(), cacheKey, err)
		}
	}

	response.RespondJSON(c, "success", http.StatusOK, "Route retrieved successfully", template, nil)
}

func (ctrl *controller) UpsertRoute(c *gin.Context) {
	var req UpsertRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	template, err := ctrl.service.UpsertRoute(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	// Drop stale cache entries so the edit is visible immediately.
	if ctrl.cacheService != nil {
		_ = ctrl.cacheService.Delete(c.Request.Context(), constants.CACHE_KEY_ROUTES_LIST)
		_ = ctrl.cacheService.Delete(c.Request.Context(), constants.CACHE_KEY_ROUTE_DETAIL+template.FlightNumber)
	}

	response.RespondJSON(c, "success", http.StatusOK, "Route saved successfully", template, nil)
}
