package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/server/http/dto"
)

// CSOIDParam extracts and validates the :csoID path parameter. A malformed
// identifier aborts the request with 400.
func CSOIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("csoID"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatus(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func abortWithError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Code: code, Message: err.Error()})
}

// writeDomainError maps domain sentinels onto HTTP statuses shared by the
// wallet endpoints.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrInvalidPeriod):
		abortWithError(c, http.StatusUnprocessableEntity, "INVALID_PERIOD", err)
	case errors.Is(err, domainErrors.ErrWindowClosed):
		abortWithError(c, http.StatusForbidden, "WINDOW_CLOSED", err)
	case errors.Is(err, domainErrors.ErrAlreadyApproved):
		abortWithError(c, http.StatusConflict, "ALREADY_APPROVED", err)
	case errors.Is(err, domainErrors.ErrStaleSnapshotConflict):
		abortWithError(c, http.StatusConflict, "STALE_SNAPSHOT", err)
	case errors.Is(err, domainErrors.ErrNothingToWithdraw):
		abortWithError(c, http.StatusUnprocessableEntity, "NOTHING_TO_WITHDRAW", err)
	case errors.Is(err, domainErrors.ErrLoanSourceUnavailable),
		errors.Is(err, domainErrors.ErrBaseBonusUnavailable):
		abortWithError(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", err)
	default:
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
