package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/auth"
	applog "github.com/AsheemRahman/Expense-Tracker-Analytics/internal/log"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/storage"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "All fields are required"})
		return
	}

	logger := applog.FromContext(r.Context())

	_, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "Email already exists"})
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		logger.ErrorContext(r.Context(), "Signup lookup failed", applog.FieldError, err)
		respondJSON(w, http.StatusInternalServerError, authResponse{Status: false, Message: "Internal server error"})
		return
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		logger.ErrorContext(r.Context(), "Password hashing failed", applog.FieldError, err)
		respondJSON(w, http.StatusInternalServerError, authResponse{Status: false, Message: "Internal server error"})
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Name, req.Email, hash)
	// Two signups can race past the lookup above; the unique index on email
	// decides the winner, so the loser gets the same response as a stale
	// lookup would.
	if errors.Is(err, storage.ErrDuplicate) {
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "Email already exists"})
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "User creation failed", applog.FieldError, err)
		respondJSON(w, http.StatusInternalServerError, authResponse{Status: false, Message: "Internal server error"})
		return
	}

	logger.InfoContext(r.Context(), "User signed up",
		applog.FieldUserID, user.ID,
		applog.FieldEmail, user.Email)

	respondJSON(w, http.StatusCreated, authResponse{
		Status:  true,
		Message: "User created successfully",
		User:    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "Invalid request body"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "All fields are required"})
		return
	}

	logger := applog.FromContext(r.Context())

	// Unknown email and wrong password produce the same response, so a
	// caller cannot tell which addresses are registered.
	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.ErrorContext(r.Context(), "Login lookup failed", applog.FieldError, err)
			respondJSON(w, http.StatusInternalServerError, authResponse{Status: false, Message: "Internal server error"})
			return
		}
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "Invalid email or password"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondJSON(w, http.StatusBadRequest, authResponse{Status: false, Message: "Invalid email or password"})
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Token issue failed", applog.FieldError, err)
		respondJSON(w, http.StatusInternalServerError, authResponse{Status: false, Message: "Internal server error"})
		return
	}

	logger.InfoContext(r.Context(), "User logged in", applog.FieldUserID, user.ID)

	respondJSON(w, http.StatusOK, authResponse{
		Status:  true,
		Message: "Logged in successfully",
		Token:   token,
		User:    user,
	})
}
