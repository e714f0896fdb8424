package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lendtrak/incentive/internal/server/http/dto"
)

// SyncHandler exposes overshoot recomputation to the platform scheduler.
type SyncHandler struct {
	facade SyncFacade
}

// NewSyncHandler constructs SyncHandler.
func NewSyncHandler(facade SyncFacade) *SyncHandler {
	return &SyncHandler{facade: facade}
}

// Sync handles POST /api/cso/:csoID/overshoot/sync.
func (h *SyncHandler) Sync(c *gin.Context) {
	csoID, ok := CSOIDParam(c)
	if !ok {
		return
	}

	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	metric, err := h.facade.SyncOvershoot(c.Request.Context(), csoID, req.Year, time.Month(req.Month))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OvershootResponse{
		Year:           metric.Year,
		Month:          int(metric.Month),
		TotalLoans:     metric.TotalLoans,
		OvershootCount: metric.OvershootCount,
		OvershootValue: metric.OvershootValue.String(),
		OvershootBonus: metric.OvershootBonus.String(),
	})
}
