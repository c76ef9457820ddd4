// Package loans is the loan calculation engine: payments, summaries,
// amortization schedules, late penalties and balance reconstruction.
//
// All money is decimal and every rounded quantity goes to cents with halves
// rounded up, so results are reproducible to the cent.
package loans

import (
	"time"

	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)
	// annualPercentDivisor converts an annual percentage into a monthly
	// fraction: rate / 100 / 12.
	annualPercentDivisor = decimal.NewFromInt(constants.PercentageMultiplier * constants.MonthsPerYear)
	percentDivisor       = decimal.NewFromInt(constants.PercentageMultiplier)
)

// periodicRate returns the monthly rate as a fraction, kept at working precision.
func periodicRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(annualPercentDivisor, constants.RateWorkingPlaces)
}

// periodInterest is one month of interest on balance, rounded to cents.
// The division happens last so whole-cent rates stay exact.
func periodInterest(balance, annualRatePercent decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRatePercent).DivRound(annualPercentDivisor, constants.CurrencyPlaces)
}

// compoundFactor returns (1+r)^n.
func compoundFactor(r decimal.Decimal, n int) decimal.Decimal {
	base := one.Add(r)
	factor := one
	for i := 0; i < n; i++ {
		factor = factor.Mul(base).Round(constants.RateWorkingPlaces)
	}
	return factor
}

// CalculateMonthlyPayment returns the level payment that retires the principal
// over the term: P·r·(1+r)^n / ((1+r)^n − 1), or P/n when the rate is zero.
func CalculateMonthlyPayment(terms Terms) (decimal.Decimal, error) {
	if err := terms.Validate(); err != nil {
		return decimal.Zero, err
	}

	n := decimal.NewFromInt(int64(terms.TermMonths))
	if terms.AnnualRatePercent.IsZero() {
		return terms.Principal.DivRound(n, constants.CurrencyPlaces), nil
	}

	r := periodicRate(terms.AnnualRatePercent)
	factor := compoundFactor(r, terms.TermMonths)
	numerator := terms.Principal.Mul(r).Mul(factor)
	return numerator.DivRound(factor.Sub(one), constants.CurrencyPlaces), nil
}

// CalculateTotalInterest returns what a level payment costs over the term
// beyond the principal.
func CalculateTotalInterest(principal, monthlyPayment decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, invalid("termMonths", "must be positive")
	}
	if principal.IsNegative() {
		return decimal.Zero, invalid("principal", "must not be negative")
	}
	if monthlyPayment.IsNegative() {
		return decimal.Zero, invalid("monthlyPayment", "must not be negative")
	}
	totalPaid := monthlyPayment.Mul(decimal.NewFromInt(int64(termMonths)))
	return mathutil.Round(totalPaid.Sub(principal)), nil
}

// CalculateLoan summarizes a loan without building its schedule.
//
// For MethodSimple the reported MonthlyPayment is the first installment only,
// since later installments shrink with the balance, and TotalInterest is the
// flat simple interest over the whole term.
func CalculateLoan(terms Terms, method Method) (Summary, error) {
	if err := terms.Validate(); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Amount:            terms.Principal,
		InterestRate:      terms.AnnualRatePercent,
		Term:              terms.TermMonths,
		CalculationMethod: method,
	}
	n := decimal.NewFromInt(int64(terms.TermMonths))

	switch method {
	case MethodSimple:
		summary.MonthlyPrincipal = terms.Principal.DivRound(n, constants.CurrencyPlaces)
		summary.FirstPeriodInterest = periodInterest(terms.Principal, terms.AnnualRatePercent)
		summary.MonthlyPayment = summary.MonthlyPrincipal.Add(summary.FirstPeriodInterest)
		summary.TotalInterest = terms.Principal.Mul(terms.AnnualRatePercent).Mul(n).
			DivRound(annualPercentDivisor, constants.CurrencyPlaces)
		summary.TotalPayment = terms.Principal.Add(summary.TotalInterest)
	case MethodCompound:
		payment, err := CalculateMonthlyPayment(terms)
		if err != nil {
			return Summary{}, err
		}
		summary.MonthlyPayment = payment
		summary.TotalPayment = mathutil.Round(payment.Mul(n))
		summary.TotalInterest = mathutil.Round(summary.TotalPayment.Sub(terms.Principal))
	default:
		return Summary{}, invalid("calculationMethod", "must be simple or compound")
	}

	return summary, nil
}

// CalculatePenalty returns the late fee for a payment: linear daily accrual,
// no compounding and no cap. Payments that are not late cost nothing.
func CalculatePenalty(in PenaltyInput) (decimal.Decimal, error) {
	if in.PaymentAmount.IsNegative() {
		return decimal.Zero, invalid("paymentAmount", "must not be negative")
	}
	if in.DailyRatePercent.IsNegative() {
		return decimal.Zero, invalid("dailyPenaltyRatePercent", "must not be negative")
	}
	if in.DaysLate <= 0 {
		return decimal.Zero, nil
	}
	raw := in.PaymentAmount.Mul(in.DailyRatePercent).Mul(decimal.NewFromInt(int64(in.DaysLate)))
	return raw.DivRound(percentDivisor, constants.CurrencyPlaces), nil
}

// RemainingBalance reconstructs the outstanding balance of a level-payment
// loan at referenceDate by regenerating its schedule.
func RemainingBalance(loan Loan, referenceDate time.Time) (decimal.Decimal, error) {
	if referenceDate.IsZero() {
		return decimal.Zero, invalid("referenceDate", "is required")
	}
	schedule, err := GenerateSchedule(loan.Terms, loan.StartDate)
	if err != nil {
		return decimal.Zero, err
	}

	if referenceDate.Before(loan.StartDate) {
		return loan.Principal, nil
	}

	last := schedule[len(schedule)-1]
	if !referenceDate.Before(last.PaymentDate) {
		return decimal.Zero, nil
	}

	// Payment numbers ascend with dates, so the last match is the latest one.
	balance := loan.Principal
	for _, entry := range schedule {
		if entry.PaymentDate.After(referenceDate) {
			break
		}
		balance = entry.Balance
	}
	return balance, nil
}
