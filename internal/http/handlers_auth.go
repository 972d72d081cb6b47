package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Birthdate string `json:"birthdate,omitempty"` // YYYY-MM-DD, optional
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u core.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if !u.Birthdate.IsEmpty() {
		resp.Birthdate = u.Birthdate.String()
	}
	return resp
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	var birthdate core.Date
	if req.Birthdate != "" {
		var err error
		if birthdate, err = core.ParseDate(req.Birthdate); err != nil {
			respondError(w, r, err)
			return
		}
	}

	user, err := s.auth.Register(r.Context(),
		sanitizeInput(req.Username), sanitizeInput(req.Email), req.Password, birthdate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	user, err := s.auth.Authenticate(r.Context(), sanitizeInput(req.Email), req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.sessions.Login(user)
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Logout()
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, _ int64) {
	categories, err := s.categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	type categoryResponse struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, http.StatusOK, out)
}
