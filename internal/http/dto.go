package http

import (
	"encoding/json"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type transactionRequest struct {
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Notes       string      `json:"notes"`
}

// toTransaction parses the form fields. Range and catalogue checks are
// left to core validation so they surface as 422.
func (req transactionRequest) toTransaction(id string) (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	kind, err := core.ParseKind(req.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          id,
		Date:        date,
		Entry:       core.Entry{Kind: kind, Amount: core.Money{Cents: cents}},
		Description: sanitizeInput(req.Description),
		Category:    core.Category(strings.TrimSpace(req.Category)),
		Notes:       sanitizeInput(req.Notes),
	}, nil
}

type budgetRequest struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

func (req budgetRequest) toBudget(id string) (core.Budget, error) {
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		ID:       id,
		Category: core.Category(strings.TrimSpace(req.Category)),
		Amount:   core.Money{Cents: cents},
	}, nil
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

type periodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type moneyDTO struct {
	Value     float64 `json:"value"`
	Cents     int64   `json:"cents"`
	Formatted string  `json:"formatted"`
}

func newMoney(m core.Money) moneyDTO {
	return moneyDTO{Value: m.Decimal(), Cents: m.Cents, Formatted: m.String()}
}

type transactionDTO struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Type         string   `json:"type"`
	Amount       moneyDTO `json:"amount"`
	Signed       string   `json:"signed"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	CategoryName string   `json:"categoryName"`
	Notes        string   `json:"notes"`
}

func newTransaction(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:           t.ID,
		Date:         t.Date.String(),
		Type:         string(t.Entry.Kind),
		Amount:       newMoney(t.Entry.Amount),
		Signed:       core.FormatSigned(t.SignedCents()),
		Description:  t.Description,
		Category:     string(t.Category),
		CategoryName: t.Category.DisplayName(),
		Notes:        t.Notes,
	}
}

func newTransactions(txns []core.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(txns))
	for _, t := range txns {
		out = append(out, newTransaction(t))
	}
	return out
}

type pageDTO struct {
	Items      []transactionDTO `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
	HasPrev    bool             `json:"hasPrev"`
	HasNext    bool             `json:"hasNext"`
}

func newPage(p ledger.Page[core.Transaction]) pageDTO {
	return pageDTO{
		Items:      newTransactions(p.Items),
		Page:       p.Page,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
	}
}

type budgetDTO struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	CategoryName string   `json:"categoryName"`
	Amount       moneyDTO `json:"amount"`
}

func newBudget(b core.Budget) budgetDTO {
	return budgetDTO{
		ID:           b.ID,
		Category:     string(b.Category),
		CategoryName: b.Category.DisplayName(),
		Amount:       newMoney(b.Amount),
	}
}

type budgetStatusDTO struct {
	budgetDTO
	Spent     moneyDTO `json:"spent"`
	Remaining moneyDTO `json:"remaining"`
	Percent   float64  `json:"percent"`
	Tier      string   `json:"tier"`
}

func newBudgetStatus(s core.BudgetStatus) budgetStatusDTO {
	return budgetStatusDTO{
		budgetDTO: newBudget(s.Budget),
		Spent:     newMoney(s.Spent),
		Remaining: newMoney(s.Remaining),
		Percent:   s.Percent,
		Tier:      string(s.Tier),
	}
}

type periodDTO struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Label      string `json:"label"`
	CanAdvance bool   `json:"canAdvance"`
}

func newPeriod(p core.Period, canAdvance bool) periodDTO {
	return periodDTO{Year: p.Year, Month: int(p.Month), Label: p.Label(), CanAdvance: canAdvance}
}

type summaryDTO struct {
	Period           string   `json:"period"`
	Income           moneyDTO `json:"income"`
	Expenses         moneyDTO `json:"expenses"`
	Balance          moneyDTO `json:"balance"`
	IncomeChangePct  float64  `json:"incomeChangePct"`
	ExpenseChangePct float64  `json:"expenseChangePct"`
	BalanceChangePct float64  `json:"balanceChangePct"`
}

func newSummary(p core.Period, s core.Summary) summaryDTO {
	return summaryDTO{
		Period:           p.Label(),
		Income:           newMoney(s.Income),
		Expenses:         newMoney(s.Expenses),
		Balance:          newMoney(s.Balance),
		IncomeChangePct:  s.IncomeChangePct,
		ExpenseChangePct: s.ExpenseChangePct,
		BalanceChangePct: s.BalanceChangePct,
	}
}

type categoryAmountDTO struct {
	Category     string   `json:"category"`
	CategoryName string   `json:"categoryName"`
	Amount       moneyDTO `json:"amount"`
}

func newBreakdown(b []core.CategoryAmount) []categoryAmountDTO {
	out := make([]categoryAmountDTO, 0, len(b))
	for _, ca := range b {
		out = append(out, categoryAmountDTO{
			Category:     string(ca.Category),
			CategoryName: ca.Category.DisplayName(),
			Amount:       newMoney(ca.Amount),
		})
	}
	return out
}

type seriesDTO struct {
	Labels   []string  `json:"labels"`
	Income   []float64 `json:"income"`
	Expenses []float64 `json:"expenses"`
}

func newSeries(s core.MonthlySeries) seriesDTO {
	out := seriesDTO{
		Labels:   append([]string{}, s.Labels...),
		Income:   make([]float64, len(s.Income)),
		Expenses: make([]float64, len(s.Expenses)),
	}
	for i, m := range s.Income {
		out.Income[i] = m.Decimal()
	}
	for i, m := range s.Expenses {
		out.Expenses[i] = m.Decimal()
	}
	return out
}

type categoryOptionDTO struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type categoriesDTO struct {
	Income  []categoryOptionDTO `json:"income"`
	Expense []categoryOptionDTO `json:"expense"`
}

func newCategoryOptions(cats []core.Category) []categoryOptionDTO {
	out := make([]categoryOptionDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryOptionDTO{Key: string(c), Name: c.DisplayName()})
	}
	return out
}

type confirmDTO struct {
	Applied bool `json:"applied"`
}
