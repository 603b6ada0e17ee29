package ledger

import "fintrack/internal/core"

// Usage thresholds, in percent of the budget amount.
const (
	WarningThreshold = 70.0
	DangerThreshold  = 85.0
)

// BudgetProgress computes how much of b was spent by the expenses in current.
func BudgetProgress(b core.Budget, current []core.Transaction) core.BudgetStatus {
	var spent int64
	for _, t := range current {
		if t.IsExpense() && t.Category == b.Category {
			spent += t.Entry.Amount.Cents
		}
	}

	var pct float64
	switch {
	case b.Amount.Cents > 0:
		pct = float64(spent) / float64(b.Amount.Cents) * 100
	case spent > 0:
		pct = 100
	}
	if pct > 100 {
		pct = 100
	}

	return core.BudgetStatus{
		Budget:    b,
		Spent:     core.Money{Cents: spent},
		Remaining: core.Money{Cents: b.Amount.Cents - spent},
		Percent:   pct,
		Tier:      Tier(pct),
	}
}

// BudgetsProgress maps BudgetProgress over budgets, keeping their order.
func BudgetsProgress(budgets []core.Budget, current []core.Transaction) []core.BudgetStatus {
	out := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetProgress(b, current))
	}
	return out
}

// Tier classifies a usage percentage.
func Tier(pct float64) core.BudgetTier {
	switch {
	case pct >= DangerThreshold:
		return core.BudgetDanger
	case pct >= WarningThreshold:
		return core.BudgetWarning
	default:
		return core.BudgetNormal
	}
}
