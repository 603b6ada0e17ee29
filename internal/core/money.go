// Package core holds the ledger's value types: transactions, budgets,
// categories, money and reporting periods.
//
// Amounts are kept in integer cents. Conversion to and from decimal
// numbers only happens when parsing user input, when reading or writing
// stored records and when formatting for display.
package core

import (
	"math"
	"strconv"
	"strings"
)

const currencySymbol = "₹"

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Signs are rejected: the
// transaction type decides whether an amount is income or expense.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("12.344") -> 1234, nil (rounds down)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// MoneyFromDecimal rounds a decimal amount to the nearest cent.
func MoneyFromDecimal(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// Decimal returns the amount as a float64 for serialization and charts.
// Use cents for calculations.
func (m Money) Decimal() float64 {
	return float64(m.Cents) / 100.0
}

// FormatCurrency renders cents as rupees with Indian digit grouping,
// e.g. 12345678 -> "₹1,23,456.78" and -5000 -> "-₹50.00".
func FormatCurrency(cents int64) string {
	if cents < 0 {
		return "-" + currencySymbol + formatMagnitude(-cents)
	}
	return currencySymbol + formatMagnitude(cents)
}

// FormatSigned renders an amount the way the transaction list shows it:
// an explicit sign and no currency symbol for non-zero amounts.
func FormatSigned(cents int64) string {
	switch {
	case cents > 0:
		return "+" + formatMagnitude(cents)
	case cents < 0:
		return "-" + formatMagnitude(-cents)
	default:
		return FormatCurrency(0)
	}
}

func (m Money) String() string {
	return FormatCurrency(m.Cents)
}

func formatMagnitude(cents int64) string {
	return groupIndian(cents/100) + "." + leftPad2(cents%100)
}

// groupIndian groups the last three digits, then pairs: 1234567 -> 12,34,567.
func groupIndian(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

func leftPad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
