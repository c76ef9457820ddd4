package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-engine/internal/report"
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet      = "Summary"
	maxSheetNameRunes = 31
)

var summaryHeader = []interface{}{
	"Loan", "Method", "Amount", "Rate %", "Term", "Monthly Payment", "Total Payment", "Total Interest",
	"Reference Date", "Remaining Balance", "Penalties",
}

var scheduleHeader = []interface{}{"#", "Date", "Payment", "Principal", "Interest", "Balance"}

// XlsxFormat writes a workbook with a summary sheet and one schedule sheet per
// loan that has a schedule.
func XlsxFormat(w io.Writer, results []report.Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	_ = f.SetRowStyle(summarySheet, 1, 1, headerStyle)

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for i, result := range results {
		s := result.Summary
		row := []interface{}{
			result.Name,
			string(result.Method),
			s.Amount.InexactFloat64(),
			s.InterestRate.InexactFloat64(),
			s.Term,
			s.MonthlyPayment.InexactFloat64(),
			s.TotalPayment.InexactFloat64(),
			s.TotalInterest.InexactFloat64(),
			"",
			"",
			result.TotalPenalties().InexactFloat64(),
		}
		if result.RemainingBalance != nil {
			row[8] = result.ReferenceDate.Format(constants.DateLayout)
			row[9] = result.RemainingBalance.InexactFloat64()
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}

		if len(result.Schedule) == 0 {
			continue
		}
		sheet := sheetName(result.Name, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeScheduleSheet(f, sheet, result, headerStyle, moneyStyle); err != nil {
			return err
		}
	}

	if n := len(results) + 1; n > 1 {
		// Amount, and the money columns after Term.
		_ = f.SetCellStyle(summarySheet, "C2", fmt.Sprintf("C%d", n), moneyStyle)
		_ = f.SetCellStyle(summarySheet, "F2", fmt.Sprintf("H%d", n), moneyStyle)
		_ = f.SetCellStyle(summarySheet, "J2", fmt.Sprintf("K%d", n), moneyStyle)
	}

	_, err = f.WriteTo(w)
	return err
}

func writeScheduleSheet(f *excelize.File, sheet string, result report.Report, headerStyle, moneyStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &scheduleHeader); err != nil {
		return err
	}
	_ = f.SetRowStyle(sheet, 1, 1, headerStyle)

	for i, entry := range result.Schedule {
		row := []interface{}{
			entry.PaymentNumber,
			entry.PaymentDate.Format(constants.DateLayout),
			entry.Payment.InexactFloat64(),
			entry.Principal.InexactFloat64(),
			entry.Interest.InexactFloat64(),
			entry.Balance.InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(scheduleHeader), len(result.Schedule)+1)
	return f.SetCellStyle(sheet, "C2", last, moneyStyle)
}

// sheetName makes a loan name usable as a unique worksheet name.
func sheetName(name string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Loan"
	}
	base = truncateRunes(base, maxSheetNameRunes)

	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(base, maxSheetNameRunes-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
