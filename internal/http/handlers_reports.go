package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

type summaryResponse struct {
	Income             string                   `json:"income"`
	Expenses           string                   `json:"expenses"`
	NetBalance         string                   `json:"net_balance"`
	ExpensesByCategory []categoryAmountResponse `json:"expenses_by_category"`
	IncomeByCategory   []categoryAmountResponse `json:"income_by_category"`
}

type categoryAmountResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

func toSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{
		Income:             s.Income.String(),
		Expenses:           s.Expenses.String(),
		NetBalance:         s.NetBalance.String(),
		ExpensesByCategory: toCategoryAmounts(s.ExpensesByCategory),
		IncomeByCategory:   toCategoryAmounts(s.IncomeByCategory),
	}
}

func toCategoryAmounts(in []core.CategoryAmount) []categoryAmountResponse {
	out := make([]categoryAmountResponse, 0, len(in))
	for _, ca := range in {
		out = append(out, categoryAmountResponse{Category: ca.Name, Amount: ca.Amount.String()})
	}
	return out
}

// cachedReport returns the cached body for key, or builds, caches and
// returns it.
func (s *Server) cachedReport(w http.ResponseWriter, r *http.Request, key string, build func() (any, error)) {
	if body, ok := s.reportCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	report, err := build()
	if err != nil {
		respondError(w, r, err)
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.reportCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request, userID int64) {
	date, err := parseDateParam(r, "date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	key := reportCachePrefix(userID) + "daily:" + date.String()
	s.cachedReport(w, r, key, func() (any, error) {
		report, err := s.reports.DailyReport(r.Context(), userID, date)
		if err != nil {
			return nil, err
		}
		return struct {
			Date string `json:"date"`
			summaryResponse
		}{report.Date.String(), toSummaryResponse(report.Summary)}, nil
	})
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request, userID int64) {
	date, err := parseDateParam(r, "date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Key on the normalized week start so any date in the same week hits
	// the same entry.
	key := reportCachePrefix(userID) + "weekly:" + core.WeekWindow(date).Start.Format("2006-01-02")
	s.cachedReport(w, r, key, func() (any, error) {
		report, err := s.reports.WeeklyReport(r.Context(), userID, date)
		if err != nil {
			return nil, err
		}
		return struct {
			WeekStart string `json:"week_start"`
			WeekEnd   string `json:"week_end"`
			summaryResponse
		}{report.WeekStart.String(), report.WeekEnd.String(), toSummaryResponse(report.Summary)}, nil
	})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request, userID int64) {
	year, month := parseYearMonth(r)

	key := reportCachePrefix(userID) + fmt.Sprintf("monthly:%04d-%02d", year, month)
	s.cachedReport(w, r, key, func() (any, error) {
		report, err := s.reports.MonthlyReport(r.Context(), userID, year, month)
		if err != nil {
			return nil, err
		}
		return struct {
			Year  int `json:"year"`
			Month int `json:"month"`
			summaryResponse
		}{report.Year, report.Month, toSummaryResponse(report.Summary)}, nil
	})
}
