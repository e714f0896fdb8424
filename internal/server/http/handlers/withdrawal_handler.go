package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lendtrak/incentive/internal/server/http/dto"
)

// WithdrawalHandler runs the annual cash-out endpoint.
type WithdrawalHandler struct {
	facade WithdrawalFacade
}

// NewWithdrawalHandler constructs WithdrawalHandler.
func NewWithdrawalHandler(facade WithdrawalFacade) *WithdrawalHandler {
	return &WithdrawalHandler{facade: facade}
}

// Approve handles POST /api/cso/:csoID/withdrawal/approve.
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	csoID, ok := CSOIDParam(c)
	if !ok {
		return
	}

	var req dto.ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	var expected *decimal.Decimal
	if req.ExpectedDeduction != nil {
		value, err := decimal.NewFromString(*req.ExpectedDeduction)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		expected = &value
	}

	receipt, err := h.facade.ApproveWithdrawal(c.Request.Context(), csoID, expected)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReceiptResponse(receipt))
}
