package http

import (
	"net/http"
	"strings"

	applog "github.com/AsheemRahman/Expense-Tracker-Analytics/internal/log"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// handleListCategories returns the global categories plus the caller's own.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Category list failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	category, err := s.store.CreateCategory(r.Context(), userID, req.Name)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Category creation failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Category created",
		applog.FieldCategoryID, category.ID,
		applog.FieldUserID, userID)

	respondJSON(w, http.StatusCreated, category)
}
