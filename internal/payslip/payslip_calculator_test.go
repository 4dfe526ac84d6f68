package payslip_test

import (
	"testing"

	"go-tutorhub/internal/payslip"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// fixturePayslip nets to 4450: earnings 3100 + 1000, bonus 500, misc 100,
// deductions 50 + PAYE 150 + UIF 50.
func fixturePayslip(owner uuid.UUID) *payslip.Payslip {
	return &payslip.Payslip{
		ID:        uuid.New(),
		UserID:    owner,
		PayPeriod: "2026-03",
		Status:    payslip.StatusDraft,
		Earnings: []payslip.Earning{
			{ID: uuid.New(), Description: "Grade 10 maths", BaseRate: dec("100"), Hours: dec("10"), Rate: dec("300")},
			{ID: uuid.New(), Description: "Exam prep", Hours: dec("5"), Rate: dec("200")},
		},
		Bonuses:      []payslip.LineItem{{ID: uuid.New(), Description: "Referral", Amount: dec("500")}},
		MiscEarnings: []payslip.LineItem{{ID: uuid.New(), Description: "Travel", Amount: dec("100")}},
		Deductions:   []payslip.LineItem{{ID: uuid.New(), Description: "Advance", Amount: dec("50")}},
		Paye:         dec("150"),
		UIF:          dec("50"),
		Notes:        []payslip.Note{},
		History:      []payslip.HistoryEntry{},
		Version:      3,
		CreatedBy:    owner,
	}
}

func TestEarningTotal(t *testing.T) {
	assert.True(t, dec("3100").Equal(payslip.EarningTotal(dec("100"), dec("10"), dec("300"))))
	assert.True(t, dec("0").Equal(payslip.EarningTotal(decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{})))
	assert.True(t, dec("12.75").Equal(payslip.EarningTotal(dec("0.25"), dec("2.5"), dec("5"))))
}

func TestComputeTotals(t *testing.T) {
	t.Run("fixture", func(t *testing.T) {
		totals := payslip.ComputeTotals(fixturePayslip(uuid.New()))

		assert.True(t, dec("4100").Equal(totals.GrossEarnings))
		assert.True(t, dec("500").Equal(totals.Bonuses))
		assert.True(t, dec("100").Equal(totals.MiscEarnings))
		assert.True(t, dec("50").Equal(totals.Deductions))
		assert.True(t, dec("4700").Equal(totals.TotalIncome))
		assert.True(t, dec("250").Equal(totals.TotalDeductions))
		assert.True(t, dec("4450").Equal(totals.NetPay))
	})

	t.Run("nil payslip yields zeros", func(t *testing.T) {
		totals := payslip.ComputeTotals(nil)
		assert.True(t, totals.NetPay.IsZero())
		assert.True(t, totals.GrossEarnings.IsZero())
		assert.True(t, totals.TotalIncome.IsZero())
	})

	t.Run("empty collections", func(t *testing.T) {
		totals := payslip.ComputeTotals(&payslip.Payslip{})
		assert.True(t, totals.NetPay.IsZero())
	})

	t.Run("stored earning total wins", func(t *testing.T) {
		p := &payslip.Payslip{Earnings: []payslip.Earning{
			{ID: uuid.New(), Hours: dec("1"), Rate: dec("100"), Total: decPtr("90")},
		}}
		assert.True(t, dec("90").Equal(payslip.ComputeTotals(p).GrossEarnings))
	})

	t.Run("exact decimal arithmetic", func(t *testing.T) {
		p := &payslip.Payslip{Bonuses: []payslip.LineItem{
			{ID: uuid.New(), Amount: dec("0.1")},
			{ID: uuid.New(), Amount: dec("0.2")},
		}}
		assert.Equal(t, "0.3", payslip.ComputeTotals(p).Bonuses.String())
	})

	t.Run("gross earnings exclude bonuses and misc", func(t *testing.T) {
		p := &payslip.Payslip{
			Earnings:     []payslip.Earning{{ID: uuid.New(), Hours: dec("20"), Rate: dec("250")}},
			Bonuses:      []payslip.LineItem{{ID: uuid.New(), Amount: dec("500")}},
			MiscEarnings: []payslip.LineItem{{ID: uuid.New(), Amount: dec("250")}},
			Deductions:   []payslip.LineItem{{ID: uuid.New(), Amount: dec("500")}},
			Paye:         dec("750"),
			UIF:          dec("50"),
		}

		totals := payslip.ComputeTotals(p)

		assert.True(t, dec("5000").Equal(totals.GrossEarnings))
		assert.True(t, dec("5750").Equal(totals.TotalIncome))
		assert.True(t, dec("1300").Equal(totals.TotalDeductions))
		assert.True(t, dec("4450").Equal(totals.NetPay))

		payslip.Recalculate(p)
		assert.True(t, dec("5000").Equal(p.GrossEarnings))
		assert.True(t, dec("4450").Equal(p.NetPay))
		// stored gross plus bonuses and misc, less all deductions, is net pay
		rebuilt := p.GrossEarnings.Add(dec("500")).Add(dec("250")).Sub(dec("500")).Sub(p.Paye).Sub(p.UIF)
		assert.True(t, rebuilt.Equal(p.NetPay))
	})

	t.Run("net pay may go negative", func(t *testing.T) {
		p := &payslip.Payslip{Deductions: []payslip.LineItem{{ID: uuid.New(), Amount: dec("10")}}}
		assert.True(t, dec("-10").Equal(payslip.ComputeTotals(p).NetPay))
	})
}

func TestRecalculate(t *testing.T) {
	p := fixturePayslip(uuid.New())
	p.Earnings[0].Total = decPtr("1")
	p.NetPay = dec("999")

	payslip.Recalculate(p)

	if assert.NotNil(t, p.Earnings[0].Total) {
		assert.True(t, dec("3100").Equal(*p.Earnings[0].Total))
	}
	if assert.NotNil(t, p.Earnings[1].Total) {
		assert.True(t, dec("1000").Equal(*p.Earnings[1].Total))
	}
	assert.True(t, dec("4100").Equal(p.GrossEarnings))
	assert.True(t, dec("250").Equal(p.TotalDeductions))
	assert.True(t, dec("4450").Equal(p.NetPay))
}
