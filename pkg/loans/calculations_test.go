package loans

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func terms(principal, rate string, months int) Terms {
	return Terms{Principal: dec(principal), AnnualRatePercent: dec(rate), TermMonths: months}
}

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name     string
		terms    Terms
		expected string
	}{
		{"12k at 12% for a year", terms("12000", "12", 12), "1066.19"},
		{"30-year mortgage", terms("175000", "4.5", 360), "886.70"},
		{"Zero interest straight line", terms("1000", "0", 3), "333.33"},
		{"Zero interest rounds half up", terms("100", "0", 8), "12.50"},
		{"Zero principal", terms("0", "5", 12), "0.00"},
		{"Single period", terms("1000", "12", 1), "1010.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := CalculateMonthlyPayment(tt.terms)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, payment.StringFixed(2))
		})
	}
}

func TestCalculateMonthlyPaymentZeroRateMatchesStraightLine(t *testing.T) {
	for _, months := range []int{1, 3, 7, 12, 360} {
		tt := terms("12345.67", "0", months)
		payment, err := CalculateMonthlyPayment(tt)
		require.NoError(t, err)
		expected := tt.Principal.Div(decimal.NewFromInt(int64(months))).Round(2)
		assert.True(t, payment.Equal(expected), "months=%d got %s expected %s", months, payment, expected)
	}
}

func TestCalculateMonthlyPaymentInvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		terms Terms
		field string
	}{
		{"Zero term", terms("1000", "5", 0), "termMonths"},
		{"Negative term", terms("1000", "5", -12), "termMonths"},
		{"Negative principal", terms("-1", "5", 12), "principal"},
		{"Negative rate", terms("1000", "-0.5", 12), "annualRatePercent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateMonthlyPayment(tt.terms)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))

			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.field, argErr.Field)
		})
	}
}

func TestCalculateTotalInterest(t *testing.T) {
	interest, err := CalculateTotalInterest(dec("12000"), dec("1066.19"), 12)
	require.NoError(t, err)
	assert.Equal(t, "794.28", interest.StringFixed(2))

	_, err = CalculateTotalInterest(dec("12000"), dec("1066.19"), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCalculateLoanCompound(t *testing.T) {
	summary, err := CalculateLoan(terms("12000", "12", 12), MethodCompound)
	require.NoError(t, err)

	assert.Equal(t, "1066.19", summary.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "12794.28", summary.TotalPayment.StringFixed(2))
	assert.Equal(t, "794.28", summary.TotalInterest.StringFixed(2))
	assert.Equal(t, MethodCompound, summary.CalculationMethod)
	assert.Equal(t, 12, summary.Term)
	assert.True(t, summary.MonthlyPrincipal.IsZero())
}

func TestCalculateLoanSimple(t *testing.T) {
	summary, err := CalculateLoan(terms("12000", "12", 12), MethodSimple)
	require.NoError(t, err)

	assert.Equal(t, "1000.00", summary.MonthlyPrincipal.StringFixed(2))
	assert.Equal(t, "120.00", summary.FirstPeriodInterest.StringFixed(2))
	assert.Equal(t, "1120.00", summary.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "1200.00", summary.TotalInterest.StringFixed(2))
	assert.Equal(t, "13200.00", summary.TotalPayment.StringFixed(2))
	assert.Equal(t, MethodSimple, summary.CalculationMethod)
}

func TestCalculateLoanUnknownMethod(t *testing.T) {
	_, err := CalculateLoan(terms("12000", "12", 12), Method("balloon"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CalculateLoan(terms("12000", "12", 0), MethodSimple)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" Compound ")
	require.NoError(t, err)
	assert.Equal(t, MethodCompound, m)

	m, err = ParseMethod("simple")
	require.NoError(t, err)
	assert.Equal(t, MethodSimple, m)

	_, err = ParseMethod("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCalculatePenalty(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		daysLate int
		rate     string
		expected string
	}{
		{"On time", "1000", 0, "0.1", "0.00"},
		{"Paid early", "1000", -5, "0.1", "0.00"},
		{"Ten days late", "1000", 10, "0.1", "10.00"},
		{"Rounded to cents", "1066.19", 5, "0.1", "5.33"},
		{"Half cent rounds up", "5", 1, "0.1", "0.01"},
		{"Zero rate", "1000", 30, "0", "0.00"},
		{"Linear, no cap", "1000", 2000, "0.1", "2000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			penalty, err := CalculatePenalty(PenaltyInput{
				PaymentAmount:    dec(tt.amount),
				DaysLate:         tt.daysLate,
				DailyRatePercent: dec(tt.rate),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, penalty.StringFixed(2))
		})
	}
}

func TestCalculatePenaltyNonNegative(t *testing.T) {
	for days := -30; days <= 30; days++ {
		penalty, err := CalculatePenalty(PenaltyInput{
			PaymentAmount:    dec("250.75"),
			DaysLate:         days,
			DailyRatePercent: dec("0.1"),
		})
		require.NoError(t, err)
		assert.False(t, penalty.IsNegative(), "days=%d", days)
		assert.Equal(t, days <= 0, penalty.IsZero(), "days=%d penalty=%s", days, penalty)
	}
}

func TestCalculatePenaltyInvalidArguments(t *testing.T) {
	_, err := CalculatePenalty(PenaltyInput{PaymentAmount: dec("-1"), DaysLate: 3, DailyRatePercent: dec("0.1")})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CalculatePenalty(PenaltyInput{PaymentAmount: dec("100"), DaysLate: 3, DailyRatePercent: dec("-0.1")})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRemainingBalance(t *testing.T) {
	loan := Loan{Terms: terms("12000", "12", 12), StartDate: date(2025, 1, 15)}
	schedule, err := GenerateSchedule(loan.Terms, loan.StartDate)
	require.NoError(t, err)

	tests := []struct {
		name      string
		reference time.Time
		expected  decimal.Decimal
	}{
		{"Before start", date(2024, 12, 31), loan.Principal},
		{"On start date", loan.StartDate, loan.Principal},
		{"Before first payment", date(2025, 2, 14), loan.Principal},
		{"On first payment", schedule[0].PaymentDate, schedule[0].Balance},
		{"On sixth payment", schedule[5].PaymentDate, schedule[5].Balance},
		{"Between payments", schedule[5].PaymentDate.AddDate(0, 0, 3), schedule[5].Balance},
		{"On last payment", schedule[11].PaymentDate, decimal.Zero},
		{"Long after maturity", date(2030, 1, 1), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, err := RemainingBalance(loan, tt.reference)
			require.NoError(t, err)
			assert.True(t, balance.Equal(tt.expected), "got %s expected %s", balance, tt.expected)
		})
	}
}

func TestRemainingBalanceMalformedDates(t *testing.T) {
	_, err := RemainingBalance(Loan{Terms: terms("1000", "5", 12)}, date(2025, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = RemainingBalance(Loan{Terms: terms("1000", "5", 12), StartDate: date(2025, 1, 1)}, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPolicy(t *testing.T) {
	policy, err := NewPolicy("simple", dec("0.1"))
	require.NoError(t, err)

	summary, err := policy.CalculateLoan(terms("12000", "12", 12), "")
	require.NoError(t, err)
	assert.Equal(t, MethodSimple, summary.CalculationMethod)

	summary, err = policy.CalculateLoan(terms("12000", "12", 12), "compound")
	require.NoError(t, err)
	assert.Equal(t, MethodCompound, summary.CalculationMethod)

	penalty, err := policy.Penalty(dec("1000"), 10)
	require.NoError(t, err)
	assert.Equal(t, "10.00", penalty.StringFixed(2))

	_, err = NewPolicy("daily", dec("0.1"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPolicy("simple", dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Policy{}.ResolveMethod("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestScheduleGeneratorNilLogger(t *testing.T) {
	g := NewScheduleGenerator(nil)
	_, err := g.Generate(terms("1000", "5", 12), date(2025, 1, 1))
	assert.NoError(t, err)

	g = NewScheduleGenerator(zap.NewNop())
	_, err = g.GenerateForMethod(terms("1000", "5", 12), date(2025, 1, 1), Method("other"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
