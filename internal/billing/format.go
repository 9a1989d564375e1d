package billing

import "github.com/shopspring/decimal"

// DefaultCurrencySymbol is prefixed to formatted amounts when none is configured.
const DefaultCurrencySymbol = "$"

// FormatAmount renders v with exactly two decimals, rounding half away from zero.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatCurrency renders v as symbol followed by FormatAmount(v).
func FormatCurrency(symbol string, v float64) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return symbol + FormatAmount(v)
}
