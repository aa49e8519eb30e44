// Package money converts ledger amounts, stored as int64 centavos, to and
// from pesos. Arithmetic that can produce fractions goes through decimal so
// percentages round the same way on every platform.
package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the currency sign used in human-readable amounts.
const Symbol = "₱"

// MaxAmount is the largest amount a single budget line may carry:
// ₱10 trillion, in centavos.
const MaxAmount int64 = 1_000_000_000_000_000

// ErrOverflow is returned when a sum of amounts does not fit in int64 centavos.
var ErrOverflow = errors.New("money: amount out of range")

var hundred = decimal.NewFromInt(100)

// ToPesos converts centavos to a peso decimal.
func ToPesos(centavos int64) decimal.Decimal {
	return decimal.New(centavos, -2)
}

// Add returns a+b, or ErrOverflow when the result would wrap around.
func Add(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Percent returns pct percent of centavos, rounded to the nearest centavo.
func Percent(centavos, pct int64) int64 {
	return decimal.NewFromInt(centavos).
		Mul(decimal.NewFromInt(pct)).
		Div(hundred).
		Round(0).
		IntPart()
}

// Format renders centavos as pesos with thousands separators, e.g. ₱160,000
// or ₱1,234.50. Centavos are only shown when non-zero.
func Format(centavos int64) string {
	pesos := ToPesos(centavos)
	sign := ""
	if pesos.IsNegative() {
		sign = "-"
		pesos = pesos.Neg()
	}

	whole := pesos.Truncate(0)
	out := sign + Symbol + group(whole.String())
	if frac := pesos.Sub(whole); !frac.IsZero() {
		out += strings.TrimPrefix(frac.StringFixed(2), "0")
	}
	return out
}

// group inserts a comma every three digits from the right.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
