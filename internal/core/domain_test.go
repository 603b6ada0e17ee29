package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

var refNow = time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 5, 1))
	if err != nil || string(b) != `"2024-05-01"` {
		t.Fatalf("marshal = %s, %v", b, err)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-02-29"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.February || d.Day() != 29 {
		t.Fatalf("unexpected date %v", d)
	}
	if err := json.Unmarshal([]byte(`"29/02/2024"`), &d); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestEntrySign(t *testing.T) {
	if got := Expense(Money{Cents: 500}).SignedCents(); got != -500 {
		t.Fatalf("expense signed = %d", got)
	}
	if got := Income(Money{Cents: 500}).SignedCents(); got != 500 {
		t.Fatalf("income signed = %d", got)
	}
	if e := EntryFromSignedCents(-250); e.Kind != KindExpense || e.Amount.Cents != 250 {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e := EntryFromSignedCents(0); e.Kind != KindIncome {
		t.Fatalf("zero should read back as income, got %+v", e)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2024, 5, 20),
		Entry:       Expense(Money{Cents: 100}),
		Description: "groceries",
		Category:    CategoryFood,
	}
	if err := good.Validate(refNow); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name string
		mod  func(*Transaction)
		want error
	}{
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"future date", func(tx *Transaction) { tx.Date = NewDate(2024, 5, 21) }, ErrFutureDate},
		{"blank description", func(tx *Transaction) { tx.Description = "   " }, ErrEmptyDescription},
		{"zero amount", func(tx *Transaction) { tx.Entry.Amount = Money{} }, ErrInvalidAmount},
		{"bad kind", func(tx *Transaction) { tx.Entry.Kind = "transfer" }, ErrInvalidKind},
		{"unknown category", func(tx *Transaction) { tx.Category = "crypto" }, ErrUnknownCategory},
		{"income category on expense", func(tx *Transaction) { tx.Category = CategorySalary }, ErrCategoryKindMismatch},
		{"201 characters", func(tx *Transaction) { tx.Description = strings.Repeat("a", 201) }, ErrDescriptionTooLong},
		{"201 multibyte characters", func(tx *Transaction) { tx.Description = strings.Repeat("ख", 201) }, ErrDescriptionTooLong},
		{"hindi description under the cap", func(tx *Transaction) {
			tx.Description = "खाना " + strings.Repeat("सब्ज़ी ", 12)
		}, nil},
		{"200 multibyte characters", func(tx *Transaction) { tx.Description = strings.Repeat("₹", 200) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := good
			tt.mod(&tx)
			if err := tx.Validate(refNow); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Category: CategoryFood, Amount: Money{Cents: 50000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{Category: "nope", Amount: Money{Cents: 1}}).Validate(); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if err := (Budget{Category: CategoryFood}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCategoryCatalogue(t *testing.T) {
	if k, ok := CategorySalary.Kind(); !ok || k != KindIncome {
		t.Fatalf("salary kind = %v %v", k, ok)
	}
	if k, ok := CategoryOther.Kind(); !ok || k != KindExpense {
		t.Fatalf("other kind = %v %v", k, ok)
	}
	if got := CategoryFood.DisplayName(); got != "Food & Dining" {
		t.Fatalf("display = %q", got)
	}
	if got := Category("pets").DisplayName(); got != "pets" {
		t.Fatalf("unknown display = %q", got)
	}
	if c, err := ParseCategory(" Other-Income "); err != nil || c != CategoryOtherIncome {
		t.Fatalf("parse = %q, %v", c, err)
	}
	if len(IncomeCategories())+len(ExpenseCategories()) != 13 {
		t.Fatalf("catalogue should have 13 categories")
	}
	for _, k := range []Kind{KindIncome, KindExpense} {
		for _, c := range CategoriesFor(k) {
			if got, _ := c.Kind(); got != k {
				t.Fatalf("CategoriesFor(%s) returned %s of kind %s", k, c, got)
			}
		}
	}
	if CategoriesFor(KindExpense)[0] != CategoryFood {
		t.Fatalf("expense categories should start with food")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d calls", id, i)
		}
		seen[id] = struct{}{}
	}
}
