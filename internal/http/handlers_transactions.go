package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

type createTransactionRequest struct {
	Type        string `json:"type"`     // "income" or "expense"
	Category    string `json:"category"` // category name
	Description string `json:"description"`
	Amount      string `json:"amount"` // decimal, e.g. "12.34"
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	CreatedOn   string `json:"created_on"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		CategoryID:  t.CategoryID,
		Description: t.Description,
		Amount:      t.Amount.String(),
		CreatedOn:   t.CreatedOn.Format(time.RFC3339),
	}
}

func toTransactionList(ts []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var created core.Transaction
	switch core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))) {
	case core.Income:
		created, err = s.transactions.AddIncome(r.Context(), userID, req.Category, sanitizeInput(req.Description), amount)
	case core.Expense:
		created, err = s.transactions.AddExpense(r.Context(), userID, req.Category, sanitizeInput(req.Description), amount)
	default:
		respondError(w, r, core.ErrInvalidType)
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateReports(userID)
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

// handleListTransactions supports optional type, category_id and start/end
// date filters.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	q := r.URL.Query()

	var (
		list []core.Transaction
		err  error
	)
	switch {
	case q.Get("type") != "":
		list, err = s.transactions.ListByType(r.Context(), userID, core.TransactionType(strings.ToLower(q.Get("type"))))
	case q.Get("category_id") != "":
		var categoryID int64
		if categoryID, err = strconv.ParseInt(q.Get("category_id"), 10, 64); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid category_id"})
			return
		}
		list, err = s.transactions.ListByCategory(r.Context(), userID, categoryID)
	case q.Get("start") != "" || q.Get("end") != "":
		list, err = s.listByDateRange(r.Context(), userID, q.Get("start"), q.Get("end"))
	default:
		list, err = s.transactions.ListAll(r.Context(), userID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionList(list))
}

// listByDateRange maps start/end query values onto a window. A missing
// endpoint leaves that side of the window open.
func (s *Server) listByDateRange(ctx context.Context, userID int64, startParam, endParam string) ([]core.Transaction, error) {
	var window core.Window
	if v := strings.TrimSpace(startParam); v != "" {
		start, err := core.ParseDate(v)
		if err != nil {
			return nil, err
		}
		window.Start = core.DayWindow(start).Start
	}
	if v := strings.TrimSpace(endParam); v != "" {
		end, err := core.ParseDate(v)
		if err != nil {
			return nil, err
		}
		window.End = core.DayWindow(end).End
	}
	return s.transactions.ListByWindow(ctx, userID, window)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	t, err := s.transactions.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if err := s.transactions.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateReports(userID)
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleBulkDeleteTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	deleted, err := s.transactions.DeleteBulk(r.Context(), userID, req.IDs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateReports(userID)
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
