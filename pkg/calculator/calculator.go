// Package calculator holds the pure monetary math for installment schedules.
package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/nasiyabro/nasiya-backend/pkg/errors"
)

const (
	MinLoanMonths = 1
	MaxLoanMonths = 240
)

var hundred = decimal.NewFromInt(100)

// Quote is the result of a schedule calculation. MonthlyPayment is already
// rounded to 2 decimal places and is the authoritative figure for every
// installment; callers must persist it as-is so the schedule never drifts.
type Quote struct {
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
}

// Calculate computes the repayment quote for an installment sale.
//
// With a zero rate the remaining principal is split evenly across the term.
// With a positive rate the yearly rate is applied once as a flat charge over
// the life of the loan (total_interest = principal * rate / 100). This is a
// deliberate simplification, not amortized or compounding interest.
func Calculate(price, initialPayment decimal.Decimal, months int, yearlyRate decimal.Decimal) (*Quote, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("loan price must be greater than 0")
	}
	if initialPayment.IsNegative() {
		return nil, customError.WrapValidation("initial payment cannot be negative")
	}
	if initialPayment.GreaterThanOrEqual(price) {
		return nil, customError.WrapValidation("initial payment must be less than loan price")
	}
	if months < MinLoanMonths || months > MaxLoanMonths {
		return nil, customError.WrapValidation("loan months must be between 1 and 240")
	}
	if yearlyRate.IsNegative() {
		return nil, customError.WrapValidation("interest rate cannot be negative")
	}

	principal := price.Sub(initialPayment)
	interest := principal.Mul(yearlyRate).Div(hundred).Round(2)
	total := principal.Add(interest)
	monthly := total.Div(decimal.NewFromInt(int64(months))).Round(2)

	return &Quote{
		RemainingPrincipal: principal,
		MonthlyPayment:     monthly,
		TotalInterest:      interest,
		TotalAmount:        total,
	}, nil
}

// DueDate returns the due date of installment k (1-based): the loan start
// date advanced by k calendar months.
func DueDate(loanStartDate time.Time, k int) time.Time {
	return loanStartDate.AddDate(0, k, 0)
}
