package payslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusQuery         Status = "QUERY"
	StatusQueryHandled  Status = "QUERY_HANDLED"
	StatusStaffApproved Status = "STAFF_APPROVED"
	StatusLocked        Status = "LOCKED"
	StatusPaid          Status = "PAID"
)

var AllStatuses = []Status{
	StatusDraft,
	StatusQuery,
	StatusQueryHandled,
	StatusStaffApproved,
	StatusLocked,
	StatusPaid,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Final reports whether the payslip is read-only (only LOCKED -> PAID remains).
func (s Status) Final() bool {
	return s == StatusLocked || s == StatusPaid
}

// Payslip is one pay period of one payer. Collections are stored as JSONB
// (postgres) or embedded arrays (mongo); the aggregate is always read and
// written as a whole document.
type Payslip struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_owner_period" json:"userId"`
	PayPeriod string    `gorm:"type:varchar(7);not null;uniqueIndex:uq_payslip_owner_period;index" json:"payPeriod"`
	Status    Status    `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`

	Earnings     []Earning  `gorm:"serializer:json;type:jsonb;not null" json:"earnings"`
	Bonuses      []LineItem `gorm:"serializer:json;type:jsonb;not null" json:"bonuses"`
	MiscEarnings []LineItem `gorm:"serializer:json;type:jsonb;not null" json:"miscEarnings"`
	Deductions   []LineItem `gorm:"serializer:json;type:jsonb;not null" json:"deductions"`

	// Cached aggregates, rewritten on every line-item mutation. Reads re-derive them.
	// GrossEarnings sums the earning lines only.
	GrossEarnings   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"grossEarnings"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"totalDeductions"`
	NetPay          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"netPay"`

	// Statutory deductions are supplied by the caller, never computed here.
	Paye decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"paye"`
	UIF  decimal.Decimal `gorm:"column:uif;type:numeric(14,2);not null;default:0" json:"uif"`

	Notes   []Note         `gorm:"serializer:json;type:jsonb;not null" json:"notes"`
	History []HistoryEntry `gorm:"serializer:json;type:jsonb;not null" json:"history"`

	Version   int64     `gorm:"not null;default:1" json:"version"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Payslip) TableName() string {
	return "payslips"
}

// LineItem is a bonus, miscellaneous earning or deduction.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Earning is a generated line (usually one lesson or block of hours).
// Total is nil until it has been derived.
type Earning struct {
	ID          uuid.UUID        `json:"id"`
	Description string           `json:"description"`
	BaseRate    decimal.Decimal  `json:"baseRate"`
	Hours       decimal.Decimal  `json:"hours"`
	Rate        decimal.Decimal  `json:"rate"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Date        string           `json:"date,omitempty"`
}

// Note is a query (dispute) raised against a line item or the whole payslip.
type Note struct {
	ID             uuid.UUID  `json:"id"`
	ItemID         string     `json:"itemId"`
	Note           string     `json:"note"`
	Resolved       bool       `json:"resolved"`
	ResolutionNote *string    `json:"resolutionNote,omitempty"`
	CreatedBy      uuid.UUID  `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	ResolvedBy     *uuid.UUID `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

// HistoryEntry records one status transition. Entries are never edited.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
}

// Actor is the caller of an operation as seen by the authorization policy.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

func (a Actor) Owns(p *Payslip) bool {
	return p != nil && a.ID != uuid.Nil && a.ID == p.UserID
}

// QueryFilter narrows admin listings. Nil fields are not applied; a zero
// Limit returns every match.
type QueryFilter struct {
	Status    *Status
	UserID    *string
	PayPeriod *string
	Limit     int
	Offset    int
}
