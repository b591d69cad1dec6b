package utils

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, the shape receipt extraction produces.
	decimal.MarshalJSONWithoutQuotes = true
}

// Amount is a monetary value. No currency is attached; a bill is always in
// the currency printed on its receipt.
type Amount = decimal.Decimal

// Zero is the zero amount
var Zero = decimal.Zero

// NewAmount builds an Amount from a float, typically a test literal or a
// number decoded from an external document.
func NewAmount(value float64) Amount {
	return decimal.NewFromFloat(value)
}

// LineTotal returns price × quantity
func LineTotal(price Amount, quantity int) Amount {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// SafeDiv divides a by b and returns zero when b is zero
func SafeDiv(a, b Amount) Amount {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// SplitEvenly divides amount among count parties, zero when count is not positive
func SplitEvenly(amount Amount, count int) Amount {
	if count <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(int64(count)))
}

// RoundForDisplay rounds to currency precision. Calculations never call it.
func RoundForDisplay(amount Amount) Amount {
	return amount.Round(DisplayPlaces)
}

// Sum adds all amounts
func Sum(amounts ...Amount) Amount {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
