package dashboard

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SplitPayout splits a requested payout into the net amount sent to the client and the
// platform fee, rounded to cents. Net + fee always equals the requested amount.
func SplitPayout(amount, feePercent float64) (net, fee float64) {
	requested := decimal.NewFromFloat(amount)
	feeAmount := requested.Mul(decimal.NewFromFloat(feePercent)).Div(hundred).Round(2)
	netAmount := requested.Sub(feeAmount)

	return netAmount.InexactFloat64(), feeAmount.InexactFloat64()
}

// addMoney adds amounts without float drift.
func addMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}
