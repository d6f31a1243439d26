package ledger

import "github.com/shopspring/decimal"

// Balance arithmetic for a receipt's outstanding due. All functions are pure.
// Callers must reject, not clamp, a negative result; clamping would silently
// lose money.

// DueAfterReceiptAmountChange shifts due by the delta of a receipt amount
// edit: newDue = due + (newAmount - oldAmount).
func DueAfterReceiptAmountChange(due, oldAmount, newAmount decimal.Decimal) (decimal.Decimal, error) {
	newDue := due.Add(newAmount.Sub(oldAmount))
	if newDue.IsNegative() {
		return decimal.Zero, ErrDueNegative
	}
	return newDue, nil
}

// DueAfterDepositAmountChange rebalances due for an amount edit on a settled
// deposit: newDue = due - newAmount + oldAmount.
func DueAfterDepositAmountChange(due, oldAmount, newAmount decimal.Decimal) (decimal.Decimal, error) {
	newDue := due.Sub(newAmount).Add(oldAmount)
	if newDue.IsNegative() {
		return decimal.Zero, ErrDueNegative
	}
	return newDue, nil
}

// DueAfterSettlement applies a deposit against a receipt. A deposit larger
// than the outstanding due is a domain error, not a partial application.
func DueAfterSettlement(due, depositAmount decimal.Decimal) (decimal.Decimal, error) {
	newDue := due.Sub(depositAmount)
	if newDue.IsNegative() {
		return decimal.Zero, ErrDepositExceedsDue
	}
	return newDue, nil
}

// DueAfterRelease restores a settled deposit's amount to the receipt's due.
// Increasing due is always legal.
func DueAfterRelease(due, depositAmount decimal.Decimal) decimal.Decimal {
	return due.Add(depositAmount)
}
