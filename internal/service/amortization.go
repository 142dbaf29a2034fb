package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// guaranteeInstallments is how many monthly payments a security deposit is
// spread over, counted from the contract's start month.
const guaranteeInstallments = 12

var twelve = decimal.NewFromInt(guaranteeInstallments)

// GuaranteeInstallment computes the deposit installment due for a reference
// month. It returns the per-installment amount and the 1-based installment
// index, or (zero, 0) when the contract has no guarantee or the deposit is
// already fully amortized. The index is recomputed from dates on every call;
// there is no persisted installments-paid counter.
//
// The amount is guaranteeValue/12 rounded to cents independently per call,
// so across the 12 installments the sum may drift from guaranteeValue by a
// few cents. That drift is accepted, not corrected.
func GuaranteeInstallment(guaranteeValue decimal.Decimal, startDate, referenceMonth time.Time) (decimal.Decimal, int) {
	if guaranteeValue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, 0
	}

	index := monthsBetween(startDate, referenceMonth) + 1
	if index < 1 || index > guaranteeInstallments {
		return decimal.Zero, 0
	}

	return guaranteeValue.DivRound(twelve, 2), index
}

// monthsBetween counts whole calendar months from a to b, ignoring the
// day-of-month on both sides.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// DueDate places the invoice due date inside the reference month (or the
// following month for pre-paid contracts) on the contract's payment day.
// An unset payment day defaults to 5, and the day is clamped to the last
// day of the target month.
func DueDate(referenceMonth time.Time, paymentDay int, prePaid bool) time.Time {
	month := referenceMonth
	if prePaid {
		month = month.AddDate(0, 1, 0)
	}

	if paymentDay <= 0 {
		paymentDay = 5
	}
	if last := lastDayOfMonth(month); paymentDay > last {
		paymentDay = last
	}

	return time.Date(month.Year(), month.Month(), paymentDay, 0, 0, 0, 0, month.Location())
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
