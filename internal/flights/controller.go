package flights

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yellowair/internal/shared/constants"
	"yellowair/internal/shared/utils/response"
	"yellowair/pkg/cache"
	"yellowair/pkg/logger"
)

type Controller interface {
	GetFlightStatus(c *gin.Context)
	SetCacheService(cacheService cache.Service)
}

type controller struct {
	service      Service
	synchronizer *DaySynchronizer
	cacheService cache.Service
	log          *logger.Logger
}

func NewController(service Service, synchronizer *DaySynchronizer) Controller {
	return &controller{
		service:      service,
		synchronizer: synchronizer,
		log:          logger.GetDefault(),
	}
}

// SetCacheService enables the Redis read-model cache. Optional: without it
// every request hits PostgreSQL directly.
func (ctrl *controller) SetCacheService(cacheService cache.Service) {
	ctrl.cacheService = cacheService
}

// StatusBoardResponse is the paginated status listing.
type StatusBoardResponse struct {
	Items      []InstanceResponse `json:"items"`
	TotalCount int64              `json:"total_count"`
	HasMore    bool               `json:"has_more"`
	NextOffset *int               `json:"next_offset,omitempty"`
}

func (ctrl *controller) GetFlightStatus(c *gin.Context) {
	targetDate := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, err.Error())
			return
		}
		targetDate = parsed
	}

	var query InstanceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if query.Limit < 0 || query.Limit > 200 {
		query.Limit = 200
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	if query.Status != "" && !query.Status.IsValid() {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid status filter", nil, nil)
		return
	}

	// The poll is what drives the simulation forward; failures here are
	// advisory and must not break the read.
	if err := ctrl.synchronizer.SyncDay(c.Request.Context(), targetDate); err != nil {
		ctrl.log.LogSyncFailed(c.Request.Context(), targetDate.Format(dateLayout), err)
	}

	cacheKey := fmt.Sprintf("%s:date:%s:status:%s:search:%s:limit:%d:offset:%d",
		constants.CACHE_KEY_STATUS_BOARD,
		targetDate.Format(dateLayout), query.Status, query.Search, query.Limit, query.Offset)

	if ctrl.cacheService != nil {
		var cached StatusBoardResponse
		if err := ctrl.cacheService.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			response.RespondJSON(c, "success", http.StatusOK, "Flight status retrieved successfully", cached, nil)
			return
		}
	}

	items, total, err := ctrl.service.ListInstances(c.Request.Context(), targetDate, query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list flight status", nil, nil)
		return
	}

	board := StatusBoardResponse{
		Items:      items,
		TotalCount: total,
	}
	if query.Limit > 0 {
		next := query.Offset + query.Limit
		if int64(next) < total {
			board.HasMore = true
			board.NextOffset = &next
		}
	}

	if ctrl.cacheService != nil {
		if err := ctrl.cacheService.Set(c.Request.Context(), cacheKey, board, constants.TTL_STATUS_BOARD); err != nil {
			ctrl.log.LogCacheWriteFailed(c.Request.Context(), cacheKey, err)
		}
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight status retrieved successfully", board, nil)
}
