package money

import "github.com/shopspring/decimal"

// Round2 applies banker's rounding to two decimal places. It is applied
// exactly once per derived figure; downstream sums reuse the rounded
// value instead of re-rounding.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Dust is the one-cent guard at or below which a withdrawable amount is
// treated as nothing to withdraw.
var Dust = decimal.RequireFromString("0.01")

// IsDust reports whether an amount is too small to approve.
func IsDust(d decimal.Decimal) bool {
	return d.LessThanOrEqual(Dust)
}

// Share splits amount proportionally: it returns round2(amount*part/whole).
// A zero whole yields zero rather than dividing.
func Share(amount, part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return Round2(amount.Mul(part).Div(whole))
}
