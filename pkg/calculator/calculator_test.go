package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/nasiyabro/nasiya-backend/pkg/errors"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name            string
		price           decimal.Decimal
		initialPayment  decimal.Decimal
		months          int
		rate            decimal.Decimal
		expectedErr     string
		expectedMonthly decimal.Decimal
		expectedTotal   decimal.Decimal
	}{
		{
			name:            "zero interest gadget loan",
			price:           decimal.NewFromInt(1000),
			initialPayment:  decimal.NewFromInt(200),
			months:          10,
			rate:            decimal.Zero,
			expectedMonthly: decimal.NewFromInt(80), // (1000 - 200) / 10
			expectedTotal:   decimal.NewFromInt(800),
		},
		{
			name:            "flat yearly interest",
			price:           decimal.NewFromInt(12000),
			initialPayment:  decimal.NewFromInt(2000),
			months:          12,
			rate:            decimal.NewFromInt(12),
			expectedMonthly: decimal.NewFromFloat(933.33), // 11200 / 12 rounded
			expectedTotal:   decimal.NewFromInt(11200),    // 10000 + 1200 interest
		},
		{
			name:            "no initial payment",
			price:           decimal.NewFromInt(600),
			initialPayment:  decimal.Zero,
			months:          6,
			rate:            decimal.Zero,
			expectedMonthly: decimal.NewFromInt(100),
			expectedTotal:   decimal.NewFromInt(600),
		},
		{
			name:           "price must be positive",
			price:          decimal.Zero,
			initialPayment: decimal.Zero,
			months:         10,
			rate:           decimal.Zero,
			expectedErr:    "loan price",
		},
		{
			name:           "negative initial payment",
			price:          decimal.NewFromInt(1000),
			initialPayment: decimal.NewFromInt(-1),
			months:         10,
			rate:           decimal.Zero,
			expectedErr:    "initial payment cannot be negative",
		},
		{
			name:           "initial payment equals price",
			price:          decimal.NewFromInt(1000),
			initialPayment: decimal.NewFromInt(1000),
			months:         10,
			rate:           decimal.Zero,
			expectedErr:    "less than loan price",
		},
		{
			name:           "zero months",
			price:          decimal.NewFromInt(1000),
			initialPayment: decimal.NewFromInt(200),
			months:         0,
			rate:           decimal.Zero,
			expectedErr:    "between 1 and 240",
		},
		{
			name:           "term beyond 20 years",
			price:          decimal.NewFromInt(1000),
			initialPayment: decimal.NewFromInt(200),
			months:         241,
			rate:           decimal.Zero,
			expectedErr:    "between 1 and 240",
		},
		{
			name:           "negative rate",
			price:          decimal.NewFromInt(1000),
			initialPayment: decimal.NewFromInt(200),
			months:         10,
			rate:           decimal.NewFromInt(-5),
			expectedErr:    "interest rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := Calculate(tt.price, tt.initialPayment, tt.months, tt.rate)

			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
				assert.Nil(t, quote)
				return
			}

			require.NoError(t, err)
			assert.True(t, quote.MonthlyPayment.Equal(tt.expectedMonthly),
				"expected monthly %v, got %v", tt.expectedMonthly, quote.MonthlyPayment)
			assert.True(t, quote.TotalAmount.Equal(tt.expectedTotal),
				"expected total %v, got %v", tt.expectedTotal, quote.TotalAmount)
		})
	}
}

func TestCalculateInterestBreakdown(t *testing.T) {
	quote, err := Calculate(decimal.NewFromInt(12000), decimal.NewFromInt(2000), 12, decimal.NewFromInt(12))
	require.NoError(t, err)

	assert.True(t, quote.RemainingPrincipal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, quote.TotalInterest.Equal(decimal.NewFromInt(1200)))
	assert.True(t, quote.TotalAmount.Equal(quote.RemainingPrincipal.Add(quote.TotalInterest)))
}

func TestScheduleSumStaysWithinRoundingTolerance(t *testing.T) {
	// Awkward divisors: per-installment rounding error must never exceed a cent.
	for _, months := range []int{3, 7, 11, 13, 36} {
		quote, err := Calculate(decimal.NewFromInt(10000), decimal.NewFromInt(100), months, decimal.NewFromFloat(7.5))
		require.NoError(t, err)

		scheduleSum := quote.MonthlyPayment.Mul(decimal.NewFromInt(int64(months)))
		drift := scheduleSum.Sub(quote.TotalAmount).Abs()
		tolerance := decimal.NewFromFloat(0.01).Mul(decimal.NewFromInt(int64(months)))
		assert.True(t, drift.LessThanOrEqual(tolerance),
			"months=%d drift %v exceeds tolerance %v", months, drift, tolerance)
	}
}

func TestDueDate(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), DueDate(start, 1))
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), DueDate(start, 6))
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), DueDate(start, 12))
}
