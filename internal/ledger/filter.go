package ledger

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// DefaultPageSize is the number of rows per transaction table page.
const DefaultPageSize = 10

// All disables the category or type filter.
const All = "all"

// TypeFilter restricts the table to income or expense rows.
type TypeFilter string

const (
	TypeAll     TypeFilter = All
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

// ParseTypeFilter accepts "", "all", "income" and "expense".
func ParseTypeFilter(s string) (TypeFilter, error) {
	switch tf := TypeFilter(strings.ToLower(strings.TrimSpace(s))); tf {
	case "", TypeAll:
		return TypeAll, nil
	case TypeIncome, TypeExpense:
		return tf, nil
	default:
		return "", fmt.Errorf("invalid type filter %q", s)
	}
}

// Filter is the table view's filter state. The zero value matches everything.
type Filter struct {
	Category string // category key, "" or "all"
	Type     TypeFilter
	Search   string
}

// Matches applies the category, type and search conditions together.
func (f Filter) Matches(t core.Transaction) bool {
	if f.Category != "" && f.Category != All && string(t.Category) != f.Category {
		return false
	}
	switch f.Type {
	case TypeExpense:
		if t.SignedCents() >= 0 {
			return false
		}
	case TypeIncome:
		if t.SignedCents() < 0 {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term != "" && !strings.Contains(strings.ToLower(t.Description), term) {
		return false
	}
	return true
}

// FilterTransactions keeps the transactions matching f, preserving order.
func FilterTransactions(txns []core.Transaction, f Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Items      []T
	Page       int // clamped, 1-based
	TotalPages int // at least 1
	TotalItems int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Paginate slices list into pages of pageSize and returns the requested
// page, clamped into [1, TotalPages]. An empty list still has one page.
func Paginate[T any](list []T, pageSize, page int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := (len(list) + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	page = min(max(1, page), total)

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(list))
	items := make([]T, 0, end-start)
	items = append(items, list[start:end]...)

	return Page[T]{
		Items:      items,
		Page:       page,
		TotalPages: total,
		TotalItems: len(list),
	}
}
