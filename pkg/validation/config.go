// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-engine/pkg/datetime"
	"github.com/iwvelando/loan-engine/pkg/loans"
)

// PortfolioValidator checks a loan portfolio for suspicious but legal input.
type PortfolioValidator struct {
	DefaultMethod string
	Loans         []LoanInfo
}

// LoanInfo is the subset of a configured loan the validator looks at.
type LoanInfo struct {
	Name              string
	StartDate         string
	Term              int
	CalculationMethod string
	ReferenceDate     string
	LatePayments      []LatePaymentInfo
}

// LatePaymentInfo is the subset of a late payment the validator looks at.
type LatePaymentInfo struct {
	Name     string
	DaysLate int
}

// ValidateReferenceDate warns when a balance lookup date falls outside the
// life of the loan, where the answer is trivially the principal or zero.
func ValidateReferenceDate(loanName, startDate, referenceDate string, termMonths int) (string, error) {
	before, err := datetime.DateBeforeDate(referenceDate, startDate)
	if err != nil {
		return "", err
	}
	if before {
		return fmt.Sprintf("Loan '%s' reference date %s is before its start date %s - balance is the full principal",
			loanName, referenceDate, startDate), nil
	}

	start, err := datetime.ParseDate(startDate)
	if err != nil {
		return "", err
	}
	maturityDate := datetime.StepMonths(start, termMonths).Format(datetime.DateLayout)
	if referenceDate >= maturityDate {
		return fmt.Sprintf("Loan '%s' reference date %s is on or after maturity (%s) - balance is zero",
			loanName, referenceDate, maturityDate), nil
	}

	return "", nil
}

// ValidateLatePayments warns about late payments that can never be penalized.
func ValidateLatePayments(loanName string, payments []LatePaymentInfo) []string {
	var warnings []string
	for i, payment := range payments {
		name := payment.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if payment.DaysLate <= 0 {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' late payment '%s' is not late (%d days) - penalty is zero",
				loanName, name, payment.DaysLate))
		}
	}
	return warnings
}

// ValidateAll validates the entire portfolio and returns warnings
func (pv *PortfolioValidator) ValidateAll() []string {
	var warnings []string

	if len(pv.Loans) == 0 {
		warnings = append(warnings, "No loans configured")
	}

	seen := make(map[string]bool, len(pv.Loans))
	for i, loan := range pv.Loans {
		name := loan.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("Loan %s has no name", name))
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' is configured more than once", name))
		}
		seen[name] = true

		method := loan.CalculationMethod
		if method == "" {
			method = pv.DefaultMethod
		}
		if method != "" {
			if _, err := loans.ParseMethod(method); err != nil {
				warnings = append(warnings, fmt.Sprintf("Loan '%s' uses unknown calculation method '%s'", name, method))
			}
		}

		if loan.ReferenceDate != "" {
			if loan.StartDate == "" {
				warnings = append(warnings, fmt.Sprintf("Loan '%s' has a reference date but no start date - balance is skipped", name))
			} else {
				warning, err := ValidateReferenceDate(name, loan.StartDate, loan.ReferenceDate, loan.Term)
				if err == nil && warning != "" {
					warnings = append(warnings, warning)
				}
			}
		}

		warnings = append(warnings, ValidateLatePayments(name, loan.LatePayments)...)
	}

	return warnings
}
