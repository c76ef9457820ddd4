package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-engine/internal/report"
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/format"
	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"#", 12}, {"Date", 28}, {"Payment", 35}, {"Principal", 35}, {"Interest", 35}, {"Balance", 35},
}

// PdfFormat writes a printable report: each loan starts a page with its
// summary followed by its schedule table.
func PdfFormat(w io.Writer, results []report.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Loan report", true)

	if len(results) == 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(40, 10, "No loans configured")
	}

	for _, result := range results {
		s := result.Summary
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(40, 10, tr("Loan "+result.Name))
		pdf.Ln(12)

		pdf.SetFont("Arial", "", 10)
		summaryLine(pdf, "Amount:", format.Currency(s.Amount))
		summaryLine(pdf, "Annual rate:", format.Percent(s.InterestRate))
		summaryLine(pdf, "Term:", fmt.Sprintf("%d months", s.Term))
		summaryLine(pdf, "Method:", string(result.Method))
		summaryLine(pdf, "Monthly payment:", format.Currency(s.MonthlyPayment))
		summaryLine(pdf, "Total payment:", format.Currency(s.TotalPayment))
		summaryLine(pdf, "Total interest:", format.Currency(s.TotalInterest))
		if result.RemainingBalance != nil {
			summaryLine(pdf, "Balance on "+result.ReferenceDate.Format(constants.DateLayout)+":",
				format.Currency(*result.RemainingBalance))
		}
		if len(result.Penalties) > 0 {
			summaryLine(pdf, "Late penalties:", format.Currency(result.TotalPenalties()))
		}
		pdf.Ln(6)

		if len(result.Schedule) == 0 {
			continue
		}
		scheduleHeaderRow(pdf)
		pdf.SetFont("Arial", "", 9)
		for _, entry := range result.Schedule {
			// Repeat the header on every page the table spans.
			if pdf.GetY() > 265 {
				pdf.AddPage()
				scheduleHeaderRow(pdf)
				pdf.SetFont("Arial", "", 9)
			}
			values := []string{
				fmt.Sprintf("%d", entry.PaymentNumber),
				entry.PaymentDate.Format(constants.DateLayout),
				format.NumericCurrency(entry.Payment),
				format.NumericCurrency(entry.Principal),
				format.NumericCurrency(entry.Interest),
				format.NumericCurrency(entry.Balance),
			}
			for i, value := range values {
				align := "R"
				if i == 1 {
					align = "C"
				}
				pdf.CellFormat(pdfColumns[i].width, 6, value, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	return pdf.Output(w)
}

func summaryLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(45, 6, label)
	pdf.Cell(60, 6, value)
	pdf.Ln(6)
}

func scheduleHeaderRow(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(224, 224, 224)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
