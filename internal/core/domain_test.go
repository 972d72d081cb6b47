package core

import (
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-31", true},
		{" 2025-06-01 ", true},
		{"2025-13-01", false},
		{"01-02-2025", false},
		{"not-a-date", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		Description: "emergency fund",
		Target:      Money{Cents: 100000},
		Current:     Money{Cents: 0},
		StartDate:   NewDate(2025, 1, 1),
		EndDate:     NewDate(2025, 12, 31),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(g *Goal)
		want error
	}{
		{"empty description", func(g *Goal) { g.Description = "  " }, ErrEmptyDescription},
		{"zero target", func(g *Goal) { g.Target = Money{} }, ErrInvalidAmount},
		{"negative current", func(g *Goal) { g.Current = Money{Cents: -1} }, ErrNegativeAmount},
		{"missing start", func(g *Goal) { g.StartDate = Date{} }, ErrMissingDates},
		{"missing end", func(g *Goal) { g.EndDate = Date{} }, ErrMissingDates},
		{"end before start", func(g *Goal) { g.EndDate = NewDate(2024, 12, 31) }, ErrInvalidDateRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := good
			tc.mut(&g)
			if err := g.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestGoalInitialStatus(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		target  int64
		want    GoalStatus
	}{
		{"fresh goal", 0, 100000, GoalCurrent},
		{"partially funded", 50000, 100000, GoalCurrent},
		{"funded exactly", 100000, 100000, GoalCompleted},
		{"overfunded", 120000, 100000, GoalCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Goal{Current: Money{Cents: tc.current}, Target: Money{Cents: tc.target}}
			if got := g.InitialStatus(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestGoalLapsed(t *testing.T) {
	today := NewDate(2025, 6, 15)
	cases := []struct {
		name string
		goal Goal
		want bool
	}{
		{"end date in future", Goal{Status: GoalCurrent, EndDate: NewDate(2025, 6, 16)}, false},
		{"end date today", Goal{Status: GoalCurrent, EndDate: today}, true},
		{"end date passed", Goal{Status: GoalCurrent, EndDate: NewDate(2025, 6, 1)}, true},
		{"already completed", Goal{Status: GoalCompleted, EndDate: NewDate(2025, 6, 1)}, false},
		{"no end date", Goal{Status: GoalCurrent}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.goal.Lapsed(today); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestGoalCompletionPercentage(t *testing.T) {
	g := Goal{Current: Money{Cents: 50000}, Target: Money{Cents: 100000}}
	if got := g.CompletionPercentage(); got != 50.0 {
		t.Fatalf("expected 50.0, got %v", got)
	}

	// Not clamped: overshooting the target reports above 100.
	g.Current = Money{Cents: 150000}
	if got := g.CompletionPercentage(); got != 150.0 {
		t.Fatalf("expected 150.0, got %v", got)
	}

	g = Goal{}
	if got := g.CompletionPercentage(); got != 0 {
		t.Fatalf("expected 0 for zero target, got %v", got)
	}
}

func TestGoalReactivatable(t *testing.T) {
	today := NewDate(2025, 6, 15)
	if (Goal{EndDate: NewDate(2025, 6, 14)}).Reactivatable(today) {
		t.Fatal("lapsed goal must not be reactivatable")
	}
	if !(Goal{EndDate: today}).Reactivatable(today) {
		t.Fatal("goal ending today should be reactivatable")
	}
	if !(Goal{EndDate: NewDate(2025, 7, 1)}).Reactivatable(today) {
		t.Fatal("future goal should be reactivatable")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Amount: Money{Cents: 100}, Type: Expense, CategoryID: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Amount: Money{}, Type: Expense, CategoryID: 1}, ErrInvalidAmount},
		{Transaction{Amount: Money{Cents: 100}, Type: "transfer", CategoryID: 1}, ErrInvalidType},
		{Transaction{Amount: Money{Cents: 100}, Type: Income}, ErrMissingCategory},
	}
	for i, tc := range bads {
		if err := tc.tx.Validate(); err != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}
