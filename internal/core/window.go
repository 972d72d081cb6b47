package core

import "time"

// Window is an inclusive [Start, End] timestamp range used to scope
// aggregation queries. A zero endpoint means unbounded on that side.
type Window struct {
	Start time.Time
	End   time.Time
}

// StartPtr returns the lower bound, or nil when unbounded.
func (w Window) StartPtr() *time.Time {
	if w.Start.IsZero() {
		return nil
	}
	s := w.Start
	return &s
}

// EndPtr returns the upper bound, or nil when unbounded.
func (w Window) EndPtr() *time.Time {
	if w.End.IsZero() {
		return nil
	}
	e := w.End
	return &e
}

// DayWindow covers a single UTC date, 00:00:00 through 23:59:59.
func DayWindow(d Date) Window {
	start := time.Date(d.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.Add(24*time.Hour - time.Second)}
}

// WeekWindow covers the ISO week containing d: Monday 00:00:00 through
// Sunday 23:59:59.
func WeekWindow(d Date) Window {
	// time.Weekday puts Sunday at 0; shift so Monday is the week start.
	offset := (int(d.Time.Weekday()) + 6) % 7
	monday := time.Date(d.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -offset)
	return Window{Start: monday, End: monday.Add(7*24*time.Hour - time.Second)}
}

// MonthWindow covers a calendar month, first instant through last second.
// December rolls over into the next year's January.
func MonthWindow(year, month int) Window {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Second)}
}

// Summary bundles the aggregates every canned report shares.
type Summary struct {
	Income             Money
	Expenses           Money
	NetBalance         Money
	ExpensesByCategory []CategoryAmount
	IncomeByCategory   []CategoryAmount
}

// DailyReport summarizes a single date.
type DailyReport struct {
	Date Date
	Summary
}

// WeeklyReport summarizes an ISO week.
type WeeklyReport struct {
	WeekStart Date
	WeekEnd   Date
	Summary
}

// MonthlyReport summarizes a calendar month.
type MonthlyReport struct {
	Year  int
	Month int // 1-12
	Summary
}
