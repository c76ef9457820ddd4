// Package output provides utilities for formatting and displaying loan reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/loan-engine/internal/report"
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders reports in the named format.
func Write(w io.Writer, outputFormat string, results []report.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	case constants.OutputFormatXLSX:
		return XlsxFormat(w, results)
	case constants.OutputFormatPDF:
		return PdfFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []report.Report) error {
	pw := &prettyWriter{p: message.NewPrinter(language.English), w: w}
	for i, result := range results {
		s := result.Summary
		pw.printf("--- Results for loan %s ---\n", result.Name)
		pw.printf("Amount %s at %s for %d months (%s)\n",
			format.Currency(s.Amount), format.Percent(s.InterestRate), s.Term, result.Method)
		pw.printf("Monthly payment: %s\n", format.Currency(s.MonthlyPayment))
		pw.printf("Total payment:   %s\n", format.Currency(s.TotalPayment))
		pw.printf("Total interest:  %s\n", format.Currency(s.TotalInterest))
		if result.RemainingBalance != nil {
			pw.printf("Balance on %s: %s\n",
				result.ReferenceDate.Format(constants.DateLayout), format.Currency(*result.RemainingBalance))
		}

		if len(result.Schedule) > 0 {
			pw.printf("\n#    | Date       | Payment       | Principal     | Interest      | Balance\n")
			pw.printf("____ | __________ | _____________ | _____________ | _____________ | _____________\n")
			for _, entry := range result.Schedule {
				pw.printf("%-4d | %s | %13s | %13s | %13s | %13s\n",
					entry.PaymentNumber,
					entry.PaymentDate.Format(constants.DateLayout),
					format.Currency(entry.Payment),
					format.Currency(entry.Principal),
					format.Currency(entry.Interest),
					format.Currency(entry.Balance),
				)
			}
		}

		if len(result.Penalties) > 0 {
			pw.printf("\nLate payments:\n")
			for _, line := range result.Penalties {
				pw.printf("  %s: %s, %d days late, penalty %s\n",
					line.Name, format.Currency(line.Amount), line.DaysLate, format.Currency(line.Penalty))
			}
			pw.printf("  Total penalties: %s\n", format.Currency(result.TotalPenalties()))
		}

		if i < len(results)-1 {
			pw.printf("\n")
		}
	}
	return pw.err
}

// prettyWriter keeps the first write error and skips everything after it.
type prettyWriter struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (pw *prettyWriter) printf(format string, args ...interface{}) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.p.Fprintf(pw.w, format, args...)
}

// CsvHeader is the first row CsvFormat writes.
var CsvHeader = []string{
	"loan", "method", "paymentNumber", "paymentDate", "payment", "principal", "interest", "balance",
}

// CsvFormat outputs every schedule row of every loan in comma-separated value
// format. Loans without a schedule contribute no rows.
func CsvFormat(w io.Writer, results []report.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CsvHeader); err != nil {
		return err
	}
	for _, result := range results {
		for _, entry := range result.Schedule {
			record := []string{
				result.Name,
				string(result.Method),
				strconv.Itoa(entry.PaymentNumber),
				entry.PaymentDate.Format(constants.DateLayout),
				entry.Payment.StringFixed(constants.CurrencyPlaces),
				entry.Principal.StringFixed(constants.CurrencyPlaces),
				entry.Interest.StringFixed(constants.CurrencyPlaces),
				entry.Balance.StringFixed(constants.CurrencyPlaces),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// JSONFormat outputs the reports as an indented JSON array.
func JSONFormat(w io.Writer, results []report.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if results == nil {
		results = []report.Report{}
	}
	return encoder.Encode(results)
}
