package core

import (
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	GoalCurrent   GoalStatus = "current"
	GoalCompleted GoalStatus = "completed"
)

type (
	TransactionType string

	GoalStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		Birthdate    Date // optional, zero when not provided
		CreatedAt    time.Time
	}

	Category struct {
		ID   int64
		Name string
	}

	Transaction struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		Amount      Money
		Type        TransactionType
		Description string
		CreatedOn   time.Time // UTC
	}

	Goal struct {
		ID          int64
		UserID      int64
		Description string
		Target      Money
		Current     Money
		Status      GoalStatus
		StartDate   Date
		EndDate     Date
	}
)

// Catalog is the fixed set of category names seeded at startup.
var Catalog = []string{
	"Shopping",
	"Transport",
	"Groceries",
	"Car Payment",
	"Credit Card Payment",
	"Rent/Mortgage",
	"Utilities",
	"Entertainment",
	"Healthcare",
	"Education",
	"Salary",
	"Investment",
	"Gift",
	"Other",
}

const dateLayout = "2006-01-02"

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC date with the time component dropped.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD literal.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// IsEmpty reports whether the date was never set.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.CategoryID <= 0 {
		return ErrMissingCategory
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Description) == "" {
		return ErrEmptyDescription
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrNegativeAmount
	}
	if g.StartDate.IsEmpty() || g.EndDate.IsEmpty() {
		return ErrMissingDates
	}
	if g.EndDate.Before(g.StartDate.Time) {
		return ErrInvalidDateRange
	}
	return nil
}

// InitialStatus decides the status a goal is created with. A goal funded at
// or above its target from the start is already completed.
func (g Goal) InitialStatus() GoalStatus {
	if g.Current.Cents >= g.Target.Cents {
		return GoalCompleted
	}
	return GoalCurrent
}

// Lapsed reports whether a current goal's end date has been reached. Only
// the end date drives the lazy transition to completed; overshooting the
// target does not.
func (g Goal) Lapsed(today Date) bool {
	if g.Status != GoalCurrent {
		return false
	}
	if g.EndDate.IsEmpty() {
		return false
	}
	return !today.Before(g.EndDate.Time)
}

// CompletionPercentage returns current/target as a percentage. The value is
// not clamped at 100: a goal may overshoot its target and that is reported
// as-is.
func (g Goal) CompletionPercentage() float64 {
	if g.Target.Cents == 0 {
		return 0
	}
	return float64(g.Current.Cents) / float64(g.Target.Cents) * 100
}

// Reactivatable reports whether a completed goal may be marked current
// again. A goal whose window already closed stays completed.
func (g Goal) Reactivatable(today Date) bool {
	return !g.EndDate.Before(today.Time)
}

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}
