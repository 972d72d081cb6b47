package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// ReportService aggregates ledger entries over day, week, and month windows.
// All sums run in storage; the service only assembles the result.
type ReportService struct {
	ledger LedgerStore
	logger *log.Logger
}

func NewReportService(ledger LedgerStore, logger *log.Logger) *ReportService {
	return &ReportService{
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentReport),
	}
}

// TotalByType sums one side of the ledger inside w. A zero window bound
// leaves that side open.
func (s *ReportService) TotalByType(ctx context.Context, userID int64, txType core.TransactionType, w core.Window) (core.Money, error) {
	if !txType.Valid() {
		return core.Money{}, core.ErrInvalidType
	}
	return s.ledger.SumByType(ctx, userID, txType, w.StartPtr(), w.EndPtr())
}

func (s *ReportService) TotalIncome(ctx context.Context, userID int64, w core.Window) (core.Money, error) {
	return s.TotalByType(ctx, userID, core.Income, w)
}

func (s *ReportService) TotalExpenses(ctx context.Context, userID int64, w core.Window) (core.Money, error) {
	return s.TotalByType(ctx, userID, core.Expense, w)
}

// NetBalance is income minus expenses over w; negative when the user spent
// more than they earned.
func (s *ReportService) NetBalance(ctx context.Context, userID int64, w core.Window) (core.Money, error) {
	income, err := s.TotalIncome(ctx, userID, w)
	if err != nil {
		return core.Money{}, err
	}
	expenses, err := s.TotalExpenses(ctx, userID, w)
	if err != nil {
		return core.Money{}, err
	}
	return income.Sub(expenses), nil
}

// TotalsByCategory breaks one transaction type down per category name.
func (s *ReportService) TotalsByCategory(ctx context.Context, userID int64, txType core.TransactionType, w core.Window) ([]core.CategoryAmount, error) {
	if !txType.Valid() {
		return nil, core.ErrInvalidType
	}
	return s.ledger.SumByCategory(ctx, userID, txType, w.StartPtr(), w.EndPtr())
}

func (s *ReportService) ExpensesByCategory(ctx context.Context, userID int64, w core.Window) ([]core.CategoryAmount, error) {
	return s.TotalsByCategory(ctx, userID, core.Expense, w)
}

func (s *ReportService) IncomeByCategory(ctx context.Context, userID int64, w core.Window) ([]core.CategoryAmount, error) {
	return s.TotalsByCategory(ctx, userID, core.Income, w)
}

// DailyReport summarizes a single date.
func (s *ReportService) DailyReport(ctx context.Context, userID int64, d core.Date) (core.DailyReport, error) {
	summary, err := s.summarize(ctx, userID, core.DayWindow(d))
	if err != nil {
		return core.DailyReport{}, err
	}
	return core.DailyReport{Date: d, Summary: summary}, nil
}

// WeeklyReport summarizes the ISO week containing d.
func (s *ReportService) WeeklyReport(ctx context.Context, userID int64, d core.Date) (core.WeeklyReport, error) {
	w := core.WeekWindow(d)
	summary, err := s.summarize(ctx, userID, w)
	if err != nil {
		return core.WeeklyReport{}, err
	}
	return core.WeeklyReport{
		WeekStart: core.Date{Time: w.Start},
		WeekEnd:   core.NewDate(w.End.Year(), int(w.End.Month()), w.End.Day()),
		Summary:   summary,
	}, nil
}

// MonthlyReport summarizes one calendar month.
func (s *ReportService) MonthlyReport(ctx context.Context, userID int64, year, month int) (core.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return core.MonthlyReport{}, core.ErrInvalidDate
	}
	summary, err := s.summarize(ctx, userID, core.MonthWindow(year, month))
	if err != nil {
		return core.MonthlyReport{}, err
	}
	return core.MonthlyReport{Year: year, Month: month, Summary: summary}, nil
}

func (s *ReportService) summarize(ctx context.Context, userID int64, w core.Window) (core.Summary, error) {
	income, err := s.TotalIncome(ctx, userID, w)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum income: %w", err)
	}
	expenses, err := s.TotalExpenses(ctx, userID, w)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum expenses: %w", err)
	}
	byExpenseCategory, err := s.ExpensesByCategory(ctx, userID, w)
	if err != nil {
		return core.Summary{}, fmt.Errorf("expenses by category: %w", err)
	}
	byIncomeCategory, err := s.IncomeByCategory(ctx, userID, w)
	if err != nil {
		return core.Summary{}, fmt.Errorf("income by category: %w", err)
	}

	return core.Summary{
		Income:             income,
		Expenses:           expenses,
		NetBalance:         income.Sub(expenses),
		ExpensesByCategory: byExpenseCategory,
		IncomeByCategory:   byIncomeCategory,
	}, nil
}
