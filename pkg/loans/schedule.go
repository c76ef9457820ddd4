package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/datetime"
	"github.com/iwvelando/loan-engine/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ScheduleGenerator builds amortization schedules. It holds no state between
// calls and is safe for concurrent use.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule builds the level-payment schedule without logging.
func GenerateSchedule(terms Terms, startDate time.Time) ([]Entry, error) {
	return NewScheduleGenerator(nil).Generate(terms, startDate)
}

// GenerateDecliningSchedule builds the equal-principal schedule without logging.
func GenerateDecliningSchedule(terms Terms, startDate time.Time) ([]Entry, error) {
	return NewScheduleGenerator(nil).GenerateDeclining(terms, startDate)
}

// Generate builds the level-payment (compound) schedule: one entry per month,
// each billing the same annuity payment, with interest on the running balance.
//
// The first payment falls one calendar month after startDate and every later
// one a calendar month after its predecessor. Rounding drift is not trued up:
// the last entry still bills the monthly payment, and its balance is only
// forced to zero when the residual is below a cent. A balance pushed below
// zero by that drift is reported as zero.
func (g *ScheduleGenerator) Generate(terms Terms, startDate time.Time) ([]Entry, error) {
	if startDate.IsZero() {
		return nil, invalid("startDate", "is required")
	}
	payment, err := CalculateMonthlyPayment(terms)
	if err != nil {
		return nil, err
	}

	n := terms.TermMonths
	schedule := make([]Entry, 0, n)
	balance := terms.Principal
	paymentDate := startDate

	for k := 1; k <= n; k++ {
		interest := periodInterest(balance, terms.AnnualRatePercent)
		principal := mathutil.Round(payment.Sub(interest))
		balance = mathutil.Round(balance.Sub(principal))
		if k == n && mathutil.BelowCent(balance) {
			balance = decimal.Zero
		}
		paymentDate = datetime.AddMonths(paymentDate, 1)

		schedule = append(schedule, Entry{
			PaymentNumber: k,
			PaymentDate:   paymentDate,
			Payment:       payment,
			Principal:     principal,
			Interest:      interest,
			Balance:       mathutil.Max(balance, decimal.Zero),
		})
	}

	if !balance.IsZero() {
		g.logger.Debug(fmt.Sprintf("schedule ends with a rounding residual of %s",
			balance.StringFixed(constants.CurrencyPlaces)),
			zap.String("op", "loans.Generate"),
			zap.Int("termMonths", n),
		)
	}
	return schedule, nil
}

// GenerateDeclining builds the declining-payment (simple) schedule: equal
// principal installments plus interest on the declining balance. The last
// installment retires whatever the rounded installments left over.
func (g *ScheduleGenerator) GenerateDeclining(terms Terms, startDate time.Time) ([]Entry, error) {
	if startDate.IsZero() {
		return nil, invalid("startDate", "is required")
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	n := terms.TermMonths
	installment := terms.Principal.DivRound(decimal.NewFromInt(int64(n)), constants.CurrencyPlaces)
	schedule := make([]Entry, 0, n)
	balance := terms.Principal
	paymentDate := startDate

	for k := 1; k <= n; k++ {
		interest := periodInterest(balance, terms.AnnualRatePercent)
		principal := installment

		// Never pay down more than is owed, and let the last period absorb
		// the rounding residue.
		if principal.GreaterThan(balance) || k == n {
			principal = balance
		}
		if k == n && !principal.Equal(installment) {
			g.logger.Debug(fmt.Sprintf("final installment adjusted by %s to retire the balance",
				principal.Sub(installment).StringFixed(constants.CurrencyPlaces)),
				zap.String("op", "loans.GenerateDeclining"),
				zap.Int("paymentNumber", k),
			)
		}

		balance = mathutil.Round(balance.Sub(principal))
		paymentDate = datetime.AddMonths(paymentDate, 1)

		schedule = append(schedule, Entry{
			PaymentNumber: k,
			PaymentDate:   paymentDate,
			Payment:       principal.Add(interest),
			Principal:     principal,
			Interest:      interest,
			Balance:       balance,
		})
	}

	return schedule, nil
}

// GenerateForMethod dispatches to the schedule matching method.
func (g *ScheduleGenerator) GenerateForMethod(terms Terms, startDate time.Time, method Method) ([]Entry, error) {
	switch method {
	case MethodCompound:
		return g.Generate(terms, startDate)
	case MethodSimple:
		return g.GenerateDeclining(terms, startDate)
	default:
		return nil, invalid("calculationMethod", "must be simple or compound")
	}
}
