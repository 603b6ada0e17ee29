package ledger

import (
	"fmt"
	"slices"

	"fintrack/internal/core"
)

// IDFunc produces identifiers for new records.
type IDFunc func() string

// UpsertTransaction returns a copy of coll with t inserted or replaced.
//
// An empty t.ID creates a record with a fresh id. A known id replaces that
// record in place. An unknown id returns core.ErrNotFound and leaves the
// collection untouched. The result is sorted by date, newest first.
func UpsertTransaction(coll []core.Transaction, t core.Transaction, newID IDFunc) ([]core.Transaction, core.Transaction, error) {
	out := slices.Clone(coll)
	if t.ID == "" {
		t.ID = newID()
		out = append(out, t)
	} else {
		i := indexTransaction(out, t.ID)
		if i < 0 {
			return coll, t, fmt.Errorf("transaction %s: %w", t.ID, core.ErrNotFound)
		}
		out[i] = t
	}
	SortTransactions(out)
	return out, t, nil
}

// DeleteTransaction returns a copy of coll without the record id. When id is
// unknown the original slice is returned and removed is false.
func DeleteTransaction(coll []core.Transaction, id string) (out []core.Transaction, removed bool) {
	i := indexTransaction(coll, id)
	if i < 0 {
		return coll, false
	}
	return slices.Delete(slices.Clone(coll), i, i+1), true
}

// FindTransaction looks a record up by id.
func FindTransaction(coll []core.Transaction, id string) (core.Transaction, bool) {
	if i := indexTransaction(coll, id); i >= 0 {
		return coll[i], true
	}
	return core.Transaction{}, false
}

// SortTransactions orders by date descending; equal dates keep their order.
func SortTransactions(txns []core.Transaction) {
	slices.SortStableFunc(txns, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
}

// IsSorted reports whether txns satisfy the date-descending invariant.
func IsSorted(txns []core.Transaction) bool {
	return slices.IsSortedFunc(txns, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
}

// UpsertBudget returns a copy of coll with b inserted or replaced.
//
// A known b.ID replaces that budget. Otherwise a budget for the same
// category is overwritten (b's id wins, a fresh one is generated when b
// has none) and only when neither exists is b appended. Any other budget
// left with the same category is dropped so each category keeps one budget.
func UpsertBudget(coll []core.Budget, b core.Budget, newID IDFunc) ([]core.Budget, core.Budget) {
	out := slices.Clone(coll)

	i := -1
	if b.ID != "" {
		i = indexBudget(out, func(x core.Budget) bool { return x.ID == b.ID })
	}
	if i < 0 {
		if b.ID == "" {
			b.ID = newID()
		}
		i = indexBudget(out, func(x core.Budget) bool { return x.Category == b.Category })
	}
	if i < 0 {
		return append(out, b), b
	}

	out[i] = b
	out = slices.DeleteFunc(out, func(x core.Budget) bool {
		return x.Category == b.Category && x.ID != b.ID
	})
	return out, b
}

// DeleteBudget returns a copy of coll without the budget id. When id is
// unknown the original slice is returned and removed is false.
func DeleteBudget(coll []core.Budget, id string) (out []core.Budget, removed bool) {
	i := indexBudget(coll, func(x core.Budget) bool { return x.ID == id })
	if i < 0 {
		return coll, false
	}
	return slices.Delete(slices.Clone(coll), i, i+1), true
}

// FindBudget looks a budget up by id.
func FindBudget(coll []core.Budget, id string) (core.Budget, bool) {
	if i := indexBudget(coll, func(x core.Budget) bool { return x.ID == id }); i >= 0 {
		return coll[i], true
	}
	return core.Budget{}, false
}

func indexTransaction(coll []core.Transaction, id string) int {
	return slices.IndexFunc(coll, func(t core.Transaction) bool { return t.ID == id })
}

func indexBudget(coll []core.Budget, match func(core.Budget) bool) int {
	return slices.IndexFunc(coll, match)
}
