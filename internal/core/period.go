package core

import (
	"fmt"
	"time"
)

// Period is a reporting month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// NewPeriod validates a year and month coming from user input.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month %d: must be between 1 and 12", month)
	}
	if year < 1 {
		return Period{}, fmt.Errorf("invalid year %d", year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// AddMonths shifts the period by n calendar months, rolling the year over.
func (p Period) AddMonths(n int) Period {
	t := time.Date(p.Year, p.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return PeriodOf(t)
}

// Prev returns the previous month. There is no lower bound.
func (p Period) Prev() Period {
	return p.AddMonths(-1)
}

// Next returns the following month unless it lies after the calendar month
// of now, in which case p is returned unchanged with ok set to false.
func (p Period) Next(now time.Time) (next Period, ok bool) {
	n := p.AddMonths(1)
	if n.After(PeriodOf(now)) {
		return p, false
	}
	return n, true
}

// CanAdvance reports whether Next would move.
func (p Period) CanAdvance(now time.Time) bool {
	_, ok := p.Next(now)
	return ok
}

func (p Period) After(o Period) bool {
	if p.Year != o.Year {
		return p.Year > o.Year
	}
	return p.Month > o.Month
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// Start is the first day of the period.
func (p Period) Start() Date {
	return NewDate(p.Year, int(p.Month), 1)
}

// Label renders the period as "May 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}

// ShortLabel renders the abbreviated month name used on chart axes.
func (p Period) ShortLabel() string {
	return p.Month.String()[:3]
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
