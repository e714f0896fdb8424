package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lendtrak/incentive/internal/server/http/dto"
)

// WalletHandler serves the wallet summary and trend endpoints.
type WalletHandler struct {
	facade WalletFacade
}

// NewWalletHandler constructs WalletHandler.
func NewWalletHandler(facade WalletFacade) *WalletHandler {
	return &WalletHandler{facade: facade}
}

// Summary handles GET /api/cso/:csoID/wallet.
func (h *WalletHandler) Summary(c *gin.Context) {
	csoID, ok := CSOIDParam(c)
	if !ok {
		return
	}

	summary, err := h.facade.Wallet(c.Request.Context(), csoID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(summary))
}

// History handles GET /api/cso/:csoID/bonus/history.
func (h *WalletHandler) History(c *gin.Context) {
	csoID, ok := CSOIDParam(c)
	if !ok {
		return
	}

	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		year = parsed
	}

	rows, err := h.facade.History(c.Request.Context(), csoID, year)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if len(rows) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoryResponse(rows))
}
