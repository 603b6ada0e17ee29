package core

// Totals are the income and expense sums of a set of transactions.
// Both are non-negative magnitudes.
type Totals struct {
	Income   Money
	Expenses Money
}

// Balance is income minus expenses.
func (t Totals) Balance() Money {
	return Money{Cents: t.Income.Cents - t.Expenses.Cents}
}

// Summary is the monthly overview shown on the dashboard cards.
// Percent changes compare against the previous month and are 0 whenever
// the previous value is 0.
type Summary struct {
	Income           Money
	Expenses         Money
	Balance          Money
	IncomeChangePct  float64
	ExpenseChangePct float64
	BalanceChangePct float64
}

// CategoryAmount represents an expense total aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// MonthlySeries holds per-month income and expense totals, oldest first.
type MonthlySeries struct {
	Periods  []Period
	Labels   []string
	Income   []Money
	Expenses []Money
}

// BudgetTier classifies how much of a budget has been used.
type BudgetTier string

const (
	BudgetNormal  BudgetTier = "normal"
	BudgetWarning BudgetTier = "warning"
	BudgetDanger  BudgetTier = "danger"
)

// BudgetStatus is a budget together with the spending of the reporting month.
type BudgetStatus struct {
	Budget    Budget
	Spent     Money
	Remaining Money
	Percent   float64 // capped at 100
	Tier      BudgetTier
}
