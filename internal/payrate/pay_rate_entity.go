package payrate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateAdjustment changes a tutor's hourly rate from EffectiveDate onwards.
type RateAdjustment struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_pay_rate_effective"`
	NewRate            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	EffectiveDate      time.Time       `gorm:"type:date;not null;uniqueIndex:uq_pay_rate_effective"`
	Reason             string          `gorm:"type:text"`
	ApprovingManagerID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (RateAdjustment) TableName() string {
	return "pay_rate_adjustments"
}

// CurrentRate is the NewRate of the adjustment with the latest effective
// date. Ties go to the adjustment recorded last.
func CurrentRate(adjustments []RateAdjustment) (decimal.Decimal, bool) {
	if len(adjustments) == 0 {
		return decimal.Zero, false
	}

	latest := adjustments[0]
	for _, a := range adjustments[1:] {
		if a.EffectiveDate.After(latest.EffectiveDate) ||
			(a.EffectiveDate.Equal(latest.EffectiveDate) && a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	return latest.NewRate, true
}
