package payslip

import (
	"bytes"
	"fmt"

	"go-tutorhub/internal/user"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Payslips"

var registerHeaders = []string{
	"Payslip ID",
	"Tutor",
	"Email",
	"Pay Period",
	"Status",
	"Gross Earnings",
	"Bonuses",
	"Misc Earnings",
	"Deductions",
	"PAYE",
	"UIF",
	"Total Income",
	"Total Deductions",
	"Net Pay",
	"Open Queries",
}

// BuildRegister renders the payroll register workbook. Money columns are
// re-derived from the line items, not read from the stored cache.
func BuildRegister(payslips []Payslip, users map[string]user.UserResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(registerSheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	for i, header := range registerHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(registerSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i := range payslips {
		p := &payslips[i]
		t := ComputeTotals(p)

		name := p.UserID.String()
		email := ""
		if u, ok := users[name]; ok {
			if u.Name != "" {
				name = u.Name
			}
			email = u.Email
		}

		row := []any{
			p.ID.String(),
			name,
			email,
			p.PayPeriod,
			string(p.Status),
			t.GrossEarnings.InexactFloat64(),
			t.Bonuses.InexactFloat64(),
			t.MiscEarnings.InexactFloat64(),
			t.Deductions.InexactFloat64(),
			p.Paye.InexactFloat64(),
			p.UIF.InexactFloat64(),
			t.TotalIncome.InexactFloat64(),
			t.TotalDeductions.InexactFloat64(),
			t.NetPay.InexactFloat64(),
			len(OpenQueries(p)),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}
