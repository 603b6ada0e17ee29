// Package ledger implements the pure transaction and budget operations
// behind the dashboard: month slices, summaries, category breakdowns,
// trailing series, table filtering, pagination and the upsert/delete
// mutations. Nothing in this package keeps state or performs I/O.
package ledger

import (
	"math"

	"fintrack/internal/core"
)

// DefaultTrendWindow is the number of months shown on the history chart.
const DefaultTrendWindow = 6

// MonthSlice returns the transactions dated inside p, preserving order.
func MonthSlice(txns []core.Transaction, p core.Period) []core.Transaction {
	var out []core.Transaction
	for _, t := range txns {
		if p.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// PreviousMonthSlice is MonthSlice for the month before p.
func PreviousMonthSlice(txns []core.Transaction, p core.Period) []core.Transaction {
	return MonthSlice(txns, p.Prev())
}

// Totals sums income and expense magnitudes.
func Totals(txns []core.Transaction) core.Totals {
	var tot core.Totals
	for _, t := range txns {
		switch signed := t.SignedCents(); {
		case signed > 0:
			tot.Income.Cents += signed
		case signed < 0:
			tot.Expenses.Cents -= signed
		}
	}
	return tot
}

// Summarize builds the dashboard summary of current against previous.
func Summarize(current, previous []core.Transaction) core.Summary {
	cur, prev := Totals(current), Totals(previous)
	curBal, prevBal := cur.Balance(), prev.Balance()

	return core.Summary{
		Income:           cur.Income,
		Expenses:         cur.Expenses,
		Balance:          curBal,
		IncomeChangePct:  PercentChange(cur.Income.Cents, prev.Income.Cents),
		ExpenseChangePct: PercentChange(cur.Expenses.Cents, prev.Expenses.Cents),
		BalanceChangePct: balanceChange(curBal.Cents, prevBal.Cents),
	}
}

// PercentChange is (current-previous)/previous*100, and 0 when previous is 0.
func PercentChange(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// balanceChange divides by |previous| so an improving balance reads as a
// positive change even when the previous balance was negative.
func balanceChange(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / math.Abs(float64(previous)) * 100
}

// CategoryBreakdown totals expenses per category in first-seen order.
// Categories without expenses are absent.
func CategoryBreakdown(current []core.Transaction) []core.CategoryAmount {
	var out []core.CategoryAmount
	index := make(map[core.Category]int)
	for _, t := range current {
		if !t.IsExpense() {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryAmount{Category: t.Category})
		}
		out[i].Amount.Cents += t.Entry.Amount.Cents
	}
	return out
}

// TrailingMonthlySeries walks window months back from p (p included) and
// returns income and expense totals per month, oldest first.
func TrailingMonthlySeries(txns []core.Transaction, p core.Period, window int) core.MonthlySeries {
	if window <= 0 {
		window = DefaultTrendWindow
	}
	s := core.MonthlySeries{
		Periods:  make([]core.Period, 0, window),
		Labels:   make([]string, 0, window),
		Income:   make([]core.Money, 0, window),
		Expenses: make([]core.Money, 0, window),
	}
	for i := window - 1; i >= 0; i-- {
		month := p.AddMonths(-i)
		tot := Totals(MonthSlice(txns, month))
		s.Periods = append(s.Periods, month)
		s.Labels = append(s.Labels, month.ShortLabel())
		s.Income = append(s.Income, tot.Income)
		s.Expenses = append(s.Expenses, tot.Expenses)
	}
	return s
}

// Recent returns the first n transactions of the date-sorted collection.
func Recent(txns []core.Transaction, n int) []core.Transaction {
	if n < 0 {
		n = 0
	}
	if n > len(txns) {
		n = len(txns)
	}
	return append([]core.Transaction(nil), txns[:n]...)
}
