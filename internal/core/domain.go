package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

const (
	dateLayout           = "2006-01-02"
	maxDescriptionLength = 200
)

type (
	// Kind tells income and expense entries apart.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is the tagged amount of a transaction. Amount is always a
	// positive magnitude; the sign only exists at the storage and query
	// boundary through SignedCents.
	Entry struct {
		Kind   Kind
		Amount Money
	}

	Transaction struct {
		ID          string
		Date        Date
		Entry       Entry
		Description string
		Category    Category
		Notes       string
	}

	// Budget is the monthly spending cap for one category.
	Budget struct {
		ID       string
		Category Category
		Amount   Money
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrFutureDate           = errors.New("date is in the future")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidKind          = errors.New("invalid transaction type")
	ErrEmptyDescription     = errors.New("empty description")
	ErrDescriptionTooLong   = errors.New("description too long (max 200 characters)")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrCategoryKindMismatch = errors.New("category does not match transaction type")
	ErrNotFound             = errors.New("not found")
)

// Income returns an income entry of the given magnitude.
func Income(m Money) Entry {
	return Entry{Kind: KindIncome, Amount: m}
}

// Expense returns an expense entry of the given magnitude.
func Expense(m Money) Entry {
	return Entry{Kind: KindExpense, Amount: m}
}

// EntryFromSignedCents rebuilds an entry from a stored signed amount.
// Zero is treated as income, matching the amount >= 0 rule used for filtering.
func EntryFromSignedCents(cents int64) Entry {
	if cents < 0 {
		return Expense(Money{Cents: -cents})
	}
	return Income(Money{Cents: cents})
}

// SignedCents returns the amount negated for expenses.
func (e Entry) SignedCents() int64 {
	if e.Kind == KindExpense {
		return -e.Amount.Cents
	}
	return e.Amount.Cents
}

func (k Kind) Validate() error {
	switch k {
	case KindIncome, KindExpense:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
}

// ParseKind maps the form value of a transaction type onto a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// SignedCents is the stored representation of the transaction amount.
func (t Transaction) SignedCents() int64 {
	return t.Entry.SignedCents()
}

func (t Transaction) IsExpense() bool {
	return t.Entry.Kind == KindExpense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AfterDay reports whether d falls on a later calendar day than t.
func (d Date) AfterDay(t time.Time) bool {
	return d.Time.After(DateOf(t).Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a transaction the way the entry form does. now is the
// reference for rejecting future dates.
func (t Transaction) Validate(now time.Time) error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Date.AfterDay(now) {
		return ErrFutureDate
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := t.Entry.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Entry.Amount.Validate(); err != nil {
		return err
	}
	kind, ok := t.Category.Kind()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(t.Category))
	}
	if kind != t.Entry.Kind {
		return fmt.Errorf("%w: %s is an %s category", ErrCategoryKindMismatch, t.Category, kind)
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(b.Category))
	}
	return b.Amount.Validate()
}

// Normalize trims the free-text fields in place of the form layer.
func (t Transaction) Normalize() Transaction {
	t.ID = strings.TrimSpace(t.ID)
	t.Description = strings.TrimSpace(t.Description)
	t.Notes = strings.TrimSpace(t.Notes)
	return t
}
