package payslip

import "github.com/shopspring/decimal"

// Totals is the derived view of a payslip's money. It is never persisted as
// the source of truth; the line-item collections are.
type Totals struct {
	GrossEarnings   decimal.Decimal
	Bonuses         decimal.Decimal
	MiscEarnings    decimal.Decimal
	Deductions      decimal.Decimal
	TotalIncome     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// EarningTotal is the single formula for an earning line: baseRate + hours*rate.
func EarningTotal(baseRate, hours, rate decimal.Decimal) decimal.Decimal {
	return baseRate.Add(hours.Mul(rate))
}

// EarningAmount returns the stored total when present and derives it otherwise.
func EarningAmount(e Earning) decimal.Decimal {
	if e.Total != nil {
		return *e.Total
	}
	return EarningTotal(e.BaseRate, e.Hours, e.Rate)
}

func sumItems(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount)
	}
	return sum
}

// ComputeTotals derives the payslip aggregates. A nil payslip yields zeros.
func ComputeTotals(p *Payslip) Totals {
	if p == nil {
		return Totals{
			GrossEarnings:   decimal.Zero,
			Bonuses:         decimal.Zero,
			MiscEarnings:    decimal.Zero,
			Deductions:      decimal.Zero,
			TotalIncome:     decimal.Zero,
			TotalDeductions: decimal.Zero,
			NetPay:          decimal.Zero,
		}
	}

	gross := decimal.Zero
	for _, e := range p.Earnings {
		gross = gross.Add(EarningAmount(e))
	}

	t := Totals{
		GrossEarnings: gross,
		Bonuses:       sumItems(p.Bonuses),
		MiscEarnings:  sumItems(p.MiscEarnings),
		Deductions:    sumItems(p.Deductions),
	}
	// gross covers earning lines only; bonuses and misc are added on top
	t.TotalIncome = t.GrossEarnings.Add(t.Bonuses).Add(t.MiscEarnings)
	t.TotalDeductions = t.Deductions.Add(p.Paye).Add(p.UIF)
	t.NetPay = t.TotalIncome.Sub(t.TotalDeductions)
	return t
}

// Recalculate refreshes every earning total and the cached aggregates.
func Recalculate(p *Payslip) {
	for i := range p.Earnings {
		total := EarningTotal(p.Earnings[i].BaseRate, p.Earnings[i].Hours, p.Earnings[i].Rate)
		p.Earnings[i].Total = &total
	}
	t := ComputeTotals(p)
	p.GrossEarnings = t.GrossEarnings
	p.TotalDeductions = t.TotalDeductions
	p.NetPay = t.NetPay
}
