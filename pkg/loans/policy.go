package loans

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Policy carries the business defaults a caller applies at the call boundary:
// which method a loan uses when it names none, and the daily late penalty.
type Policy struct {
	DefaultMethod           Method
	DailyPenaltyRatePercent decimal.Decimal
}

// NewPolicy validates and builds a Policy.
func NewPolicy(defaultMethod string, dailyPenaltyRatePercent decimal.Decimal) (Policy, error) {
	method, err := ParseMethod(defaultMethod)
	if err != nil {
		return Policy{}, err
	}
	if dailyPenaltyRatePercent.IsNegative() {
		return Policy{}, invalid("dailyPenaltyRatePercent", "must not be negative")
	}
	return Policy{DefaultMethod: method, DailyPenaltyRatePercent: dailyPenaltyRatePercent}, nil
}

// ResolveMethod parses name, falling back to the default method when blank.
func (p Policy) ResolveMethod(name string) (Method, error) {
	if strings.TrimSpace(name) == "" {
		if p.DefaultMethod == "" {
			return "", invalid("calculationMethod", "is required")
		}
		return p.DefaultMethod, nil
	}
	return ParseMethod(name)
}

// CalculateLoan summarizes a loan using the named method or the default one.
func (p Policy) CalculateLoan(terms Terms, methodName string) (Summary, error) {
	method, err := p.ResolveMethod(methodName)
	if err != nil {
		return Summary{}, err
	}
	return CalculateLoan(terms, method)
}

// Penalty prices a late payment at the policy's daily rate.
func (p Policy) Penalty(paymentAmount decimal.Decimal, daysLate int) (decimal.Decimal, error) {
	return CalculatePenalty(PenaltyInput{
		PaymentAmount:    paymentAmount,
		DaysLate:         daysLate,
		DailyRatePercent: p.DailyPenaltyRatePercent,
	})
}
