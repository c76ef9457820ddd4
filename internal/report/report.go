// Package report defines the data structures related to a loan report and
// includes functions for computing reports over a whole portfolio.
package report

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/iwvelando/loan-engine/internal/config"
	"github.com/iwvelando/loan-engine/internal/metrics"
	"github.com/iwvelando/loan-engine/pkg/loans"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report holds everything computed for one configured loan.
type Report struct {
	Name             string           `json:"name"`
	Method           loans.Method     `json:"calculationMethod"`
	Summary          loans.Summary    `json:"summary"`
	StartDate        *time.Time       `json:"startDate,omitempty"`
	Schedule         []loans.Entry    `json:"schedule,omitempty"`
	ReferenceDate    *time.Time       `json:"referenceDate,omitempty"`
	RemainingBalance *decimal.Decimal `json:"remainingBalance,omitempty"`
	Penalties        []PenaltyLine    `json:"penalties,omitempty"`
}

// PenaltyLine is a priced late payment.
type PenaltyLine struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	DaysLate int             `json:"daysLate"`
	Penalty  decimal.Decimal `json:"penalty"`
}

// TotalPenalties sums the penalties of a report.
func (r Report) TotalPenalties() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Penalties {
		total = total.Add(line.Penalty)
	}
	return total
}

// GetReports computes a Report for every loan in the configuration. Loans are
// independent, so they are processed in parallel; the results keep the
// configuration's order. The first failing loan cancels the rest.
func GetReports(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := conf.BuildPolicy()
	if err != nil {
		return nil, err
	}

	results := make([]Report, len(conf.Loans))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	generator := loans.NewScheduleGenerator(logger)
	for i, loan := range conf.Loans {
		i, loan := i, loan
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := buildReport(logger, generator, policy, loan)
			if err != nil {
				return fmt.Errorf("loan %s: %w", loan.Name, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("computed %d loan reports", len(results)),
		zap.String("op", "report.GetReports"),
	)
	return results, nil
}

func buildReport(logger *zap.Logger, generator *loans.ScheduleGenerator, policy loans.Policy, loan config.Loan) (Report, error) {
	result := Report{Name: loan.Name}
	terms := loan.Terms()

	method, err := policy.ResolveMethod(loan.CalculationMethod)
	if err != nil {
		return result, err
	}
	result.Method = method

	result.Summary, err = loans.CalculateLoan(terms, method)
	metrics.ObserveCalculation("loans.CalculateLoan", err)
	if err != nil {
		return result, err
	}

	if loan.HasSchedule() {
		engineLoan, err := loan.EngineLoan()
		if err != nil {
			return result, err
		}
		start := engineLoan.StartDate
		result.StartDate = &start

		result.Schedule, err = generator.GenerateForMethod(engineLoan.Terms, start, method)
		metrics.ObserveCalculation("loans.GenerateSchedule", err)
		if err != nil {
			return result, err
		}
		metrics.ObserveSchedule(method, len(result.Schedule))

		ref, ok, err := loan.Reference()
		if err != nil {
			return result, err
		}
		if ok {
			balance, err := loans.RemainingBalance(engineLoan, ref)
			metrics.ObserveCalculation("loans.RemainingBalance", err)
			if err != nil {
				return result, err
			}
			result.ReferenceDate = &ref
			result.RemainingBalance = &balance
		}
	} else if loan.ReferenceDate != "" {
		logger.Warn(fmt.Sprintf("loan %s has a reference date but no start date, skipping balance", loan.Name),
			zap.String("op", "report.buildReport"),
		)
	}

	for i, late := range loan.LatePayments {
		penalty, err := policy.Penalty(late.PaymentAmount(), late.DaysLate)
		metrics.ObserveCalculation("loans.CalculatePenalty", err)
		if err != nil {
			return result, err
		}
		name := late.Name
		if name == "" {
			name = fmt.Sprintf("late payment %d", i+1)
		}
		result.Penalties = append(result.Penalties, PenaltyLine{
			Name:     name,
			Amount:   late.PaymentAmount(),
			DaysLate: late.DaysLate,
			Penalty:  penalty,
		})
	}

	return result, nil
}
