package loyalty

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yellowair/internal/shared/utils/response"
)

type Controller interface {
	ProcessPoints(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// ProcessPoints triggers one settlement pass on demand. The periodic job
// covers normal operation; this endpoint exists for external schedulers and
// operators.
func (ctrl *controller) ProcessPoints(c *gin.Context) {
	summary, err := ctrl.service.ProcessPendingPoints(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			response.RespondJSON(c, "error", http.StatusConflict, "A settlement run is already in progress", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to process pending points", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Settlement run completed", summary, nil)
}
