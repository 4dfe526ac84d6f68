package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

type EarningInput struct {
	Description string           `json:"description" binding:"required,max=255"`
	BaseRate    *decimal.Decimal `json:"baseRate"`
	Hours       *decimal.Decimal `json:"hours"`
	Rate        *decimal.Decimal `json:"rate"`
	Date        string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type LineItemRequest struct {
	Description string           `json:"description" binding:"required,max=255"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
}

// GeneratePayslipRequest creates the current-period payslip. UserID may only
// differ from the caller for administrators.
type GeneratePayslipRequest struct {
	UserID       string            `json:"userId" binding:"omitempty,uuid"`
	Earnings     []EarningInput    `json:"earnings" binding:"omitempty,dive"`
	Bonuses      []LineItemRequest `json:"bonuses" binding:"omitempty,dive"`
	MiscEarnings []LineItemRequest `json:"miscEarnings" binding:"omitempty,dive"`
	Deductions   []LineItemRequest `json:"deductions" binding:"omitempty,dive"`
	Paye         *decimal.Decimal  `json:"paye"`
	UIF          *decimal.Decimal  `json:"uif"`
}

type AddLineItemRequest struct {
	Description string           `json:"description" binding:"required,max=255"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Version     *int64           `json:"version"`
}

type UpdateLineItemRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount"`
	Version     *int64           `json:"version"`
}

type UpdateEarningRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=255"`
	BaseRate    *decimal.Decimal `json:"baseRate"`
	Hours       *decimal.Decimal `json:"hours"`
	Rate        *decimal.Decimal `json:"rate"`
	Date        *string          `json:"date"`
	Version     *int64           `json:"version"`
}

type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=DRAFT QUERY QUERY_HANDLED STAFF_APPROVED LOCKED PAID"`
	Version *int64 `json:"version"`
}

// VersionRequest is the optional body of the transition shortcuts and deletes.
type VersionRequest struct {
	Version *int64 `json:"version"`
}

type AddQueryRequest struct {
	ItemID  string `json:"itemId" binding:"required"`
	Note    string `json:"note" binding:"required,max=2000"`
	Version *int64 `json:"version"`
}

type UpdateQueryRequest struct {
	Note    string `json:"note" binding:"required,max=2000"`
	Version *int64 `json:"version"`
}

type ResolveQueryRequest struct {
	ResolutionNote *string `json:"resolutionNote" binding:"omitempty,max=2000"`
	Version        *int64  `json:"version"`
}

type ListPayslipsFilterRequest struct {
	Status    string `form:"status"`
	UserID    string `form:"userId"`
	PayPeriod string `form:"payPeriod"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type LineItemResponse struct {
	ID           string          `json:"id"`
	Key          string          `json:"key"`
	Index        int             `json:"index"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	HasOpenQuery bool            `json:"hasOpenQuery"`
}

type EarningResponse struct {
	ID           string          `json:"id"`
	Key          string          `json:"key"`
	Index        int             `json:"index"`
	Description  string          `json:"description"`
	BaseRate     decimal.Decimal `json:"baseRate"`
	Hours        decimal.Decimal `json:"hours"`
	Rate         decimal.Decimal `json:"rate"`
	Total        decimal.Decimal `json:"total"`
	Date         string          `json:"date,omitempty"`
	HasOpenQuery bool            `json:"hasOpenQuery"`
}

type TotalsResponse struct {
	GrossEarnings   decimal.Decimal `json:"grossEarnings"`
	Bonuses         decimal.Decimal `json:"bonuses"`
	MiscEarnings    decimal.Decimal `json:"miscEarnings"`
	Deductions      decimal.Decimal `json:"deductions"`
	Paye            decimal.Decimal `json:"paye"`
	UIF             decimal.Decimal `json:"uif"`
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`
}

type NoteResponse struct {
	ID             string  `json:"id"`
	ItemID         string  `json:"itemId"`
	Note           string  `json:"note"`
	Resolved       bool    `json:"resolved"`
	ResolutionNote *string `json:"resolutionNote,omitempty"`
	CreatedBy      string  `json:"createdBy"`
	CreatedByName  string  `json:"createdByName"`
	CreatedAt      string  `json:"createdAt"`
	ResolvedBy     *string `json:"resolvedBy,omitempty"`
	ResolvedAt     *string `json:"resolvedAt,omitempty"`
}

type HistoryEntryResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	UpdatedBy      string `json:"updatedBy"`
	UpdatedByName  string `json:"updatedByName"`
	UpdatedByEmail string `json:"updatedByEmail,omitempty"`
}

type PayslipResponse struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"userId"`
	PayPeriod        string                 `json:"payPeriod"`
	Status           string                 `json:"status"`
	Version          int64                  `json:"version"`
	Earnings         []EarningResponse      `json:"earnings"`
	Bonuses          []LineItemResponse     `json:"bonuses"`
	MiscEarnings     []LineItemResponse     `json:"miscEarnings"`
	Deductions       []LineItemResponse     `json:"deductions"`
	Totals           TotalsResponse         `json:"totals"`
	Notes            []NoteResponse         `json:"notes"`
	History          []HistoryEntryResponse `json:"history"`
	OpenQueries      int                    `json:"openQueries"`
	AvailableActions []string               `json:"availableActions"`
	CanEditItems     bool                   `json:"canEditItems"`
	CanQuery         bool                   `json:"canQuery"`
	CreatedBy        string                 `json:"createdBy"`
	CreatedAt        string                 `json:"createdAt"`
	UpdatedAt        string                 `json:"updatedAt"`
}

type PayslipSummaryResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	PayPeriod       string          `json:"payPeriod"`
	Status          string          `json:"status"`
	Version         int64           `json:"version"`
	GrossEarnings   decimal.Decimal `json:"grossEarnings"`
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`
	OpenQueries     int             `json:"openQueries"`
}
