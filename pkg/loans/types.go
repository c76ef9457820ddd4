package loans

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Method selects how interest accrues and how payments are structured.
type Method string

const (
	// MethodSimple is equal principal installments with interest on the
	// declining balance; payments shrink over the term.
	MethodSimple Method = "simple"
	// MethodCompound is a level payment computed with the annuity formula.
	MethodCompound Method = "compound"
)

// ParseMethod maps a method name onto a Method, ignoring case and surrounding
// whitespace.
func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case MethodSimple:
		return MethodSimple, nil
	case MethodCompound:
		return MethodCompound, nil
	default:
		return "", invalid("calculationMethod", fmt.Sprintf("unknown method %q", name))
	}
}

// Terms are the contractual parameters of a loan.
type Terms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal // 12 means 12% per year
	TermMonths        int
}

// Validate rejects terms no calculation can be performed on.
func (t Terms) Validate() error {
	if t.TermMonths <= 0 {
		return invalid("termMonths", "must be positive")
	}
	if t.Principal.IsNegative() {
		return invalid("principal", "must not be negative")
	}
	if t.AnnualRatePercent.IsNegative() {
		return invalid("annualRatePercent", "must not be negative")
	}
	return nil
}

// Summary is the fast, schedule-free view of a loan.
type Summary struct {
	Amount            decimal.Decimal `json:"amount"`
	InterestRate      decimal.Decimal `json:"interestRate"`
	Term              int             `json:"term"`
	MonthlyPayment    decimal.Decimal `json:"monthlyPayment"`
	TotalPayment      decimal.Decimal `json:"totalPayment"`
	TotalInterest     decimal.Decimal `json:"totalInterest"`
	CalculationMethod Method          `json:"calculationMethod"`

	// Simple-method breakdown of the first installment; zero for Compound.
	MonthlyPrincipal    decimal.Decimal `json:"monthlyPrincipal"`
	FirstPeriodInterest decimal.Decimal `json:"firstPeriodInterest"`
}

// Entry is one billing period of an amortization schedule.
type Entry struct {
	PaymentNumber int             `json:"paymentNumber"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Payment       decimal.Decimal `json:"payment"`
	Principal     decimal.Decimal `json:"principal"`
	Interest      decimal.Decimal `json:"interest"`
	Balance       decimal.Decimal `json:"balance"`
}

// PenaltyInput describes a late payment.
type PenaltyInput struct {
	PaymentAmount    decimal.Decimal
	DaysLate         int
	DailyRatePercent decimal.Decimal // 0.1 means 0.1% per day
}

// Loan is a disbursed loan, used to reconstruct its balance at a date.
type Loan struct {
	Terms
	StartDate time.Time
}
