package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/loan-engine/internal/config"
	"github.com/iwvelando/loan-engine/internal/report"
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/datetime"
	"github.com/iwvelando/loan-engine/pkg/loans"
	"github.com/iwvelando/loan-engine/pkg/output"
	"github.com/iwvelando/loan-engine/pkg/testutil"
	"github.com/iwvelando/loan-engine/pkg/validation"
	"go.uber.org/zap"
)

func loadReports(t *testing.T, path string) (*config.Configuration, []report.Report) {
	t.Helper()
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration(%s) error = %v", path, err)
	}
	results, err := report.GetReports(context.Background(), zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("GetReports() error = %v", err)
	}
	return conf, results
}

// TestEndToEnd runs the test portfolio exactly as the CLI does and checks the
// headline numbers of every loan.
func TestEndToEnd(t *testing.T) {
	conf, results := loadReports(t, "../test_config.yaml")

	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		t.Fatalf("test config output format: %v", err)
	}
	if len(results) != len(conf.Loans) {
		t.Fatalf("expected %d reports, got %d", len(conf.Loans), len(results))
	}

	tests := []struct {
		name           string
		method         loans.Method
		monthlyPayment string
		totalInterest  string
		entries        int
		repaid         string
		finalBalance   string
	}{
		{"mortgage", loans.MethodCompound, "886.70", "144212.00", 360, "175000.67", "0.00"},
		{"car", loans.MethodCompound, "1066.19", "794.28", 12, "12000.05", "0.00"},
		{"personal", loans.MethodSimple, "1120.00", "1200.00", 12, "12000.00", "0.00"},
		{"interest free", loans.MethodCompound, "333.33", "-0.01", 3, "999.99", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutil.FindReport(results, tt.name)
			if r == nil {
				t.Fatalf("no report for %s", tt.name)
			}
			if r.Method != tt.method {
				t.Errorf("method = %s, expected %s", r.Method, tt.method)
			}
			if got := r.Summary.MonthlyPayment.StringFixed(2); got != tt.monthlyPayment {
				t.Errorf("monthly payment = %s, expected %s", got, tt.monthlyPayment)
			}
			if got := r.Summary.TotalInterest.StringFixed(2); got != tt.totalInterest {
				t.Errorf("total interest = %s, expected %s", got, tt.totalInterest)
			}
			if len(r.Schedule) != tt.entries {
				t.Fatalf("schedule has %d entries, expected %d", len(r.Schedule), tt.entries)
			}
			if got := testutil.SchedulePrincipal(*r).StringFixed(2); got != tt.repaid {
				t.Errorf("schedule repays %s of %s, expected %s", got, r.Summary.Amount, tt.repaid)
			}
			if got := r.Schedule[len(r.Schedule)-1].Balance.StringFixed(2); got != tt.finalBalance {
				t.Errorf("final balance = %s, expected %s", got, tt.finalBalance)
			}
		})
	}
}

func TestEndToEndBalancesAndPenalties(t *testing.T) {
	_, results := loadReports(t, "../test_config.yaml")

	car := testutil.FindReport(results, "car")
	if car == nil || car.RemainingBalance == nil {
		t.Fatalf("car report missing its balance: %+v", car)
	}
	if !car.RemainingBalance.Equal(car.Schedule[5].Balance) {
		t.Errorf("car balance %s, expected the sixth entry's %s", car.RemainingBalance, car.Schedule[5].Balance)
	}
	if len(car.Penalties) != 2 {
		t.Fatalf("expected 2 penalty lines, got %d", len(car.Penalties))
	}
	if got := car.Penalties[0].Penalty.StringFixed(2); got != "10.66" {
		t.Errorf("march penalty = %s, expected 10.66", got)
	}
	if !car.Penalties[1].Penalty.IsZero() {
		t.Errorf("on-time payment penalized %s", car.Penalties[1].Penalty)
	}

	mortgage := testutil.FindReport(results, "mortgage")
	if mortgage == nil || mortgage.RemainingBalance == nil {
		t.Fatalf("mortgage report missing its balance")
	}
	if !mortgage.RemainingBalance.Equal(mortgage.Schedule[5].Balance) {
		t.Errorf("mortgage balance %s, expected %s", mortgage.RemainingBalance, mortgage.Schedule[5].Balance)
	}

	free := testutil.FindReport(results, "interest free")
	if free == nil || free.RemainingBalance == nil || !free.RemainingBalance.IsZero() {
		t.Errorf("interest free loan should be repaid by 2030")
	}
	expectedDates := []string{"2024-02-29", "2024-03-29", "2024-04-29"}
	for i, entry := range free.Schedule {
		if got := entry.PaymentDate.Format(datetime.DateLayout); got != expectedDates[i] {
			t.Errorf("payment %d date = %s, expected %s", entry.PaymentNumber, got, expectedDates[i])
		}
	}
	if got := free.Schedule[2].Payment.StringFixed(2); got != "333.33" {
		t.Errorf("final interest free payment = %s, expected the monthly 333.33", got)
	}
}

func TestEndToEndCSV(t *testing.T) {
	_, results := loadReports(t, "../test_config.yaml")

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, results); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV does not parse: %v", err)
	}

	// Header plus every schedule row.
	expectedRows := 1 + 360 + 12 + 12 + 3
	if len(records) != expectedRows {
		t.Errorf("expected %d CSV rows, got %d", expectedRows, len(records))
	}
	for _, record := range records[1:] {
		if len(record) != len(output.CsvHeader) {
			t.Fatalf("CSV row has %d fields, expected %d: %v", len(record), len(output.CsvHeader), record)
		}
		if !strings.HasPrefix(record[3], "20") {
			t.Errorf("CSV date should start with the year: %s", record[3])
		}
	}
}

func TestExampleConfiguration(t *testing.T) {
	conf, results := loadReports(t, filepath.Join("..", "..", constants.ExampleConfigFile))

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("example configuration should be warning free, got %v", warnings)
	}
	if len(results) != len(conf.Loans) {
		t.Fatalf("expected %d reports, got %d", len(conf.Loans), len(results))
	}

	for _, outputFormat := range validation.SupportedOutputFormats {
		t.Run(outputFormat, func(t *testing.T) {
			var buf bytes.Buffer
			if err := output.Write(&buf, outputFormat, results); err != nil {
				t.Fatalf("Write(%s) error = %v", outputFormat, err)
			}
			if buf.Len() == 0 {
				t.Errorf("Write(%s) produced no output", outputFormat)
			}
		})
	}
}
