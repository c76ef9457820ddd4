package config

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-engine/pkg/datetime"
	"github.com/iwvelando/loan-engine/pkg/loans"
	"github.com/iwvelando/loan-engine/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	Name              string        `yaml:"name"`
	Amount            float64       `yaml:"amount"`
	InterestRate      float64       `yaml:"interestRate"` // annual percent
	Term              int           `yaml:"term"`         // months
	StartDate         string        `yaml:"startDate,omitempty"`
	CalculationMethod string        `yaml:"calculationMethod,omitempty"`
	ReferenceDate     string        `yaml:"referenceDate,omitempty"`
	LatePayments      []LatePayment `yaml:"latePayments,omitempty"`
}

// LatePayment is a payment made after its due date.
type LatePayment struct {
	Name     string  `yaml:"name,omitempty"`
	Amount   float64 `yaml:"amount"`
	DaysLate int     `yaml:"daysLate"`
}

// Terms converts the loan's parameters into engine terms.
func (loan Loan) Terms() loans.Terms {
	return loans.Terms{
		Principal:         mathutil.FromFloat(loan.Amount),
		AnnualRatePercent: mathutil.FromFloat(loan.InterestRate),
		TermMonths:        loan.Term,
	}
}

// HasSchedule reports whether a start date was given, which is what a
// schedule and a balance need.
func (loan Loan) HasSchedule() bool {
	return loan.StartDate != ""
}

// Start parses the loan's start date.
func (loan Loan) Start() (time.Time, error) {
	start, err := datetime.ParseDate(loan.StartDate)
	if err != nil {
		return time.Time{}, badDate("startDate", loan.StartDate, err)
	}
	return start, nil
}

// Reference parses the loan's reference date. ok is false when none is set.
func (loan Loan) Reference() (ref time.Time, ok bool, err error) {
	if loan.ReferenceDate == "" {
		return time.Time{}, false, nil
	}
	ref, err = datetime.ParseDate(loan.ReferenceDate)
	if err != nil {
		return time.Time{}, false, badDate("referenceDate", loan.ReferenceDate, err)
	}
	return ref, true, nil
}

// EngineLoan converts the loan into the form balance reconstruction takes.
func (loan Loan) EngineLoan() (loans.Loan, error) {
	start, err := loan.Start()
	if err != nil {
		return loans.Loan{}, err
	}
	return loans.Loan{Terms: loan.Terms(), StartDate: start}, nil
}

// PaymentAmount returns the late payment amount as a decimal.
func (late LatePayment) PaymentAmount() decimal.Decimal {
	return mathutil.FromFloat(late.Amount)
}

func badDate(field, value string, err error) error {
	return &loans.ArgumentError{
		Field:  field,
		Reason: fmt.Sprintf("%q is not a %s date (%v)", value, DateLayout, err),
	}
}
