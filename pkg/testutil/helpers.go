// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/loan-engine/internal/report"
	"github.com/shopspring/decimal"
)

// FindReport finds a report by loan name in the results slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(results []report.Report, name string) *report.Report {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// SchedulePrincipal sums the principal column of a report's schedule.
func SchedulePrincipal(r report.Report) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range r.Schedule {
		total = total.Add(entry.Principal)
	}
	return total
}
