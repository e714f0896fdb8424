package dto

import (
	"time"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// HistoryRowResponse is one month of the bonus trend series.
type HistoryRowResponse struct {
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	BaseBonus      string    `json:"base_bonus"`
	OvershootBonus string    `json:"overshoot_bonus"`
	DeductionTotal string    `json:"deduction_total"`
	TotalBonus     string    `json:"total_bonus"`
	RemainingBonus string    `json:"remaining_bonus"`
	Withdrawable   string    `json:"withdrawable"`
	Locked         string    `json:"locked"`
	AsOf           time.Time `json:"as_of"`
}

// NewHistoryResponse maps trend rows onto the wire shape.
func NewHistoryResponse(rows []model.HistoryRow) []HistoryRowResponse {
	out := make([]HistoryRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, HistoryRowResponse{
			Year:           row.Year,
			Month:          int(row.Month),
			BaseBonus:      row.BaseBonus.String(),
			OvershootBonus: row.OvershootBonus.String(),
			DeductionTotal: row.DeductionTotal.String(),
			TotalBonus:     row.TotalBonus.String(),
			RemainingBonus: row.RemainingBonus.String(),
			Withdrawable:   row.Withdrawable.String(),
			Locked:         row.Locked.String(),
			AsOf:           row.AsOf,
		})
	}
	return out
}
