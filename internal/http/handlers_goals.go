package http

import (
	"net/http"

	"fintrack/internal/core"
)

type createGoalRequest struct {
	Description string `json:"description"`
	Target      string `json:"target"`            // decimal, e.g. "1000.00"
	Current     string `json:"current,omitempty"` // optional starting progress
	StartDate   string `json:"start_date"`        // YYYY-MM-DD
	EndDate     string `json:"end_date"`          // YYYY-MM-DD
}

type goalResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Target      string  `json:"target"`
	Current     string  `json:"current"`
	Status      string  `json:"status"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Percentage  float64 `json:"completion_percentage"`
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:          g.ID,
		Description: g.Description,
		Target:      g.Target.String(),
		Current:     g.Current.String(),
		Status:      string(g.Status),
		StartDate:   g.StartDate.String(),
		EndDate:     g.EndDate.String(),
		Percentage:  g.CompletionPercentage(),
	}
}

func toGoalList(goals []core.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	return out
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	target, err := core.ParseAmount(req.Target)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var current core.Money
	if req.Current != "" {
		if current, err = core.ParseAmount(req.Current); err != nil {
			respondError(w, r, err)
			return
		}
	}

	startDate, err := core.ParseDate(req.StartDate)
	if err != nil {
		respondError(w, r, err)
		return
	}
	endDate, err := core.ParseDate(req.EndDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	goal, err := s.goals.Create(r.Context(), core.Goal{
		UserID:      userID,
		Description: sanitizeInput(req.Description),
		Target:      target,
		Current:     current,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toGoalResponse(goal))
}

// handleListGoals filters by ?status=current|completed; without it every
// goal comes back.
func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, userID int64) {
	var (
		goals []core.Goal
		err   error
	)
	switch r.URL.Query().Get("status") {
	case "":
		goals, err = s.goals.ListAll(r.Context(), userID)
	case string(core.GoalCurrent):
		goals, err = s.goals.ListCurrent(r.Context(), userID)
	case string(core.GoalCompleted):
		goals, err = s.goals.ListCompleted(r.Context(), userID)
	default:
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "status must be current or completed"})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toGoalList(goals))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	goal, err := s.goals.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if err := s.goals.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req struct {
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	goal, err := s.goals.UpdateProgress(r.Context(), userID, id, amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleGoalComplete(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	goal, err := s.goals.MarkCompleted(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleGoalReactivate(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	goal, err := s.goals.MarkCurrent(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleGoalPercentage(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	pct, err := s.goals.CompletionPercentage(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{"completion_percentage": pct})
}
