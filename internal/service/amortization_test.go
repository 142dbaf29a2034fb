package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGuaranteeInstallment(t *testing.T) {
	start := date(2024, time.January, 1)
	value := decimal.NewFromInt(1200)

	tests := []struct {
		name       string
		refMonth   time.Time
		wantAmount string
		wantIndex  int
	}{
		{"first month", date(2024, time.January, 1), "100", 1},
		{"mid schedule", date(2024, time.June, 1), "100", 6},
		{"last installment", date(2024, time.December, 1), "100", 12},
		{"fully amortized", date(2025, time.January, 1), "0", 0},
		{"before contract start", date(2023, time.December, 1), "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, index := GuaranteeInstallment(value, start, tt.refMonth)
			assert.True(t, amount.Equal(decimal.RequireFromString(tt.wantAmount)), "amount = %s", amount)
			assert.Equal(t, tt.wantIndex, index)
		})
	}
}

func TestGuaranteeInstallmentNoGuarantee(t *testing.T) {
	amount, index := GuaranteeInstallment(decimal.Zero, date(2024, time.January, 1), date(2024, time.March, 1))
	assert.True(t, amount.IsZero())
	assert.Equal(t, 0, index)
}

func TestGuaranteeInstallmentIgnoresDayOfMonth(t *testing.T) {
	// started on the 25th still counts January as month 1
	amount, index := GuaranteeInstallment(decimal.NewFromInt(1200), date(2024, time.January, 25), date(2024, time.February, 1))
	assert.True(t, amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, index)
}

func TestGuaranteeInstallmentRounding(t *testing.T) {
	// 1000/12 rounds to 83.33 on every call; the few-cents drift across the
	// schedule is accepted
	amount, index := GuaranteeInstallment(decimal.NewFromInt(1000), date(2024, time.January, 1), date(2024, time.May, 1))
	assert.Equal(t, "83.33", amount.StringFixed(2))
	assert.Equal(t, 5, index)
}

func TestDueDate(t *testing.T) {
	march := date(2024, time.March, 1)

	tests := []struct {
		name       string
		paymentDay int
		prePaid    bool
		want       time.Time
	}{
		{"plain", 10, false, date(2024, time.March, 10)},
		{"pre-paid shifts a month ahead", 10, true, date(2024, time.April, 10)},
		{"unset day defaults to 5", 0, false, date(2024, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueDate(march, tt.paymentDay, tt.prePaid))
		})
	}
}

func TestDueDateClampsToMonthEnd(t *testing.T) {
	// day 31 lands on February: clamp to the 29th (2024 is a leap year)
	got := DueDate(date(2024, time.February, 1), 31, false)
	assert.Equal(t, date(2024, time.February, 29), got)
}
