package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/loan-engine/internal/metrics"
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/datetime"
	"github.com/iwvelando/loan-engine/pkg/loans"
	"github.com/shopspring/decimal"
)

// Money in requests may be a JSON number or a numeric string; responses
// always carry strings so no precision is lost in transit.

type paymentRequest struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TermMonths        int             `json:"termMonths"`
}

type paymentResponse struct {
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
}

type summaryRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	InterestRate      decimal.Decimal `json:"interestRate"`
	Term              int             `json:"term"`
	CalculationMethod string          `json:"calculationMethod,omitempty"`
}

type scheduleRequest struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TermMonths        int             `json:"termMonths"`
	StartDate         string          `json:"startDate"`
	CalculationMethod string          `json:"calculationMethod,omitempty"`
}

type scheduleEntry struct {
	PaymentNumber int             `json:"paymentNumber"`
	PaymentDate   string          `json:"paymentDate"`
	Payment       decimal.Decimal `json:"payment"`
	Principal     decimal.Decimal `json:"principal"`
	Interest      decimal.Decimal `json:"interest"`
	Balance       decimal.Decimal `json:"balance"`
}

type scheduleResponse struct {
	CalculationMethod loans.Method    `json:"calculationMethod"`
	Schedule          []scheduleEntry `json:"schedule"`
}

type penaltyRequest struct {
	PaymentAmount           decimal.Decimal  `json:"paymentAmount"`
	DaysLate                int              `json:"daysLate"`
	DailyPenaltyRatePercent *decimal.Decimal `json:"dailyPenaltyRatePercent,omitempty"`
}

type penaltyResponse struct {
	Penalty decimal.Decimal `json:"penalty"`
}

type balanceRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	Term          int             `json:"term"`
	StartDate     string          `json:"startDate"`
	ReferenceDate string          `json:"referenceDate"`
}

type balanceResponse struct {
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// decodeRequest enforces POST and the body limit, then decodes JSON into v.
// It writes the error response itself and reports whether to continue.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// parseDate parses a request date, reporting a malformed one as an invalid
// argument.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &loans.ArgumentError{Field: field, Reason: "is required"}
	}
	t, err := datetime.ParseDate(value)
	if err != nil {
		return time.Time{}, &loans.ArgumentError{
			Field:  field,
			Reason: fmt.Sprintf("%q is not a %s date", value, constants.DateLayout),
		}
	}
	return t, nil
}

func (h *handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePayment"
	var req paymentRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	terms := loans.Terms{Principal: req.Principal, AnnualRatePercent: req.AnnualRatePercent, TermMonths: req.TermMonths}
	payment, err := loans.CalculateMonthlyPayment(terms)
	metrics.ObserveCalculation("loans.CalculateMonthlyPayment", err)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}
	interest, err := loans.CalculateTotalInterest(terms.Principal, payment, terms.TermMonths)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, paymentResponse{MonthlyPayment: payment, TotalInterest: interest})
}

func (h *handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSummary"
	var req summaryRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	terms := loans.Terms{Principal: req.Amount, AnnualRatePercent: req.InterestRate, TermMonths: req.Term}
	summary, err := h.policy.CalculateLoan(terms, req.CalculationMethod)
	metrics.ObserveCalculation("loans.CalculateLoan", err)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	var req scheduleRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	// The level-payment schedule unless another method is asked for.
	method := loans.MethodCompound
	if req.CalculationMethod != "" {
		var err error
		if method, err = loans.ParseMethod(req.CalculationMethod); err != nil {
			h.respondError(w, r, statusFor(err), err.Error(), op)
			return
		}
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}

	terms := loans.Terms{Principal: req.Principal, AnnualRatePercent: req.AnnualRatePercent, TermMonths: req.TermMonths}
	schedule, err := h.schedules.GenerateForMethod(terms, start, method)
	metrics.ObserveCalculation("loans.GenerateSchedule", err)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}
	metrics.ObserveSchedule(method, len(schedule))

	resp := scheduleResponse{CalculationMethod: method, Schedule: make([]scheduleEntry, len(schedule))}
	for i, entry := range schedule {
		resp.Schedule[i] = scheduleEntry{
			PaymentNumber: entry.PaymentNumber,
			PaymentDate:   entry.PaymentDate.Format(constants.DateLayout),
			Payment:       entry.Payment,
			Principal:     entry.Principal,
			Interest:      entry.Interest,
			Balance:       entry.Balance,
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handlePenalty(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePenalty"
	var req penaltyRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	rate := h.policy.DailyPenaltyRatePercent
	if req.DailyPenaltyRatePercent != nil {
		rate = *req.DailyPenaltyRatePercent
	}
	penalty, err := loans.CalculatePenalty(loans.PenaltyInput{
		PaymentAmount:    req.PaymentAmount,
		DaysLate:         req.DaysLate,
		DailyRatePercent: rate,
	})
	metrics.ObserveCalculation("loans.CalculatePenalty", err)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, penaltyResponse{Penalty: penalty})
}

func (h *handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBalance"
	var req balanceRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}
	ref, err := parseDate("referenceDate", req.ReferenceDate)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}

	loan := loans.Loan{
		Terms:     loans.Terms{Principal: req.Amount, AnnualRatePercent: req.InterestRate, TermMonths: req.Term},
		StartDate: start,
	}
	balance, err := loans.RemainingBalance(loan, ref)
	metrics.ObserveCalculation("loans.RemainingBalance", err)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, balanceResponse{RemainingBalance: balance})
}
