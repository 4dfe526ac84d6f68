package payrate

import "github.com/shopspring/decimal"

type CreateRateAdjustmentRequest struct {
	UserID        string           `json:"userId" binding:"required,uuid"`
	NewRate       *decimal.Decimal `json:"newRate" binding:"required"`
	EffectiveDate string           `json:"effectiveDate" binding:"required,datetime=2006-01-02"`
	Reason        string           `json:"reason" binding:"max=500"`
}

type RateAdjustmentResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	NewRate            decimal.Decimal `json:"newRate"`
	EffectiveDate      string          `json:"effectiveDate"`
	Reason             string          `json:"reason,omitempty"`
	ApprovingManagerID string          `json:"approvingManagerId"`
}

type RateHistoryResponse struct {
	UserID      string                   `json:"userId"`
	CurrentRate *decimal.Decimal         `json:"currentRate"`
	Adjustments []RateAdjustmentResponse `json:"adjustments"`
}
