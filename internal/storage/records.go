package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"fintrack/internal/core"
)

// transactionRecord is the persisted shape of a transaction. Amount is a
// signed decimal: positive for income, negative for expenses.
type transactionRecord struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Notes       string  `json:"notes"`
}

type budgetRecord struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// EncodeTransactions serializes txns as a JSON array of records.
func EncodeTransactions(txns []core.Transaction) ([]byte, error) {
	recs := make([]transactionRecord, 0, len(txns))
	for _, t := range txns {
		recs = append(recs, transactionRecord{
			ID:          t.ID,
			Date:        t.Date.String(),
			Amount:      core.Money{Cents: t.SignedCents()}.Decimal(),
			Description: t.Description,
			Category:    string(t.Category),
			Notes:       t.Notes,
		})
	}
	return json.Marshal(recs)
}

// DecodeTransactions parses a stored array. An empty payload is an empty
// collection; an unparsable payload or record is an error.
func DecodeTransactions(payload []byte) ([]core.Transaction, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	var recs []transactionRecord
	if err := json.Unmarshal(payload, &recs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	txns := make([]core.Transaction, 0, len(recs))
	for i, rec := range recs {
		d, err := core.ParseDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("decode transaction %d: %w", i, err)
		}
		txns = append(txns, core.Transaction{
			ID:          rec.ID,
			Date:        d,
			Entry:       core.EntryFromSignedCents(core.MoneyFromDecimal(rec.Amount).Cents),
			Description: rec.Description,
			Category:    core.Category(rec.Category),
			Notes:       rec.Notes,
		})
	}
	return txns, nil
}

// EncodeBudgets serializes budgets as a JSON array of records.
func EncodeBudgets(budgets []core.Budget) ([]byte, error) {
	recs := make([]budgetRecord, 0, len(budgets))
	for _, b := range budgets {
		recs = append(recs, budgetRecord{
			ID:       b.ID,
			Category: string(b.Category),
			Amount:   b.Amount.Decimal(),
		})
	}
	return json.Marshal(recs)
}

// DecodeBudgets parses a stored array of budgets.
func DecodeBudgets(payload []byte) ([]core.Budget, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	var recs []budgetRecord
	if err := json.Unmarshal(payload, &recs); err != nil {
		return nil, fmt.Errorf("decode budgets: %w", err)
	}
	budgets := make([]core.Budget, 0, len(recs))
	for _, rec := range recs {
		budgets = append(budgets, core.Budget{
			ID:       rec.ID,
			Category: core.Category(rec.Category),
			Amount:   core.MoneyFromDecimal(rec.Amount),
		})
	}
	return budgets, nil
}
