package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/amqp"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/export"
	applog "github.com/AsheemRahman/Expense-Tracker-Analytics/internal/log"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/storage"
)

type expenseRequest struct {
	Title      string     `json:"title"`
	Amount     core.Money `json:"amount"`
	CategoryID *int64     `json:"categoryId"`
	Date       core.Date  `json:"date"`
}

// handleListExpenses returns the caller's expenses, optionally restricted to
// one calendar month. month and year must come together; exactly one of
// them is a validation error.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")

	var rng *storage.DateRange
	switch {
	case monthStr == "" && yearStr == "":
		// no filter
	case monthStr == "" || yearStr == "":
		respondError(w, http.StatusBadRequest, "Both month and year are required")
		return
	default:
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			respondError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1 {
			respondError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		mr := storage.MonthRange(year, month)
		rng = &mr
	}

	expenses, err := s.store.ListExpenses(r.Context(), userID, rng)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Expense list failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	expense, err := s.store.CreateExpense(r.Context(), core.Expense{
		Title:      req.Title,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
		CreatedBy:  userID,
		Date:       req.Date,
	})
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Expense creation failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.publishEvent(r.Context(), amqp.ActionCreated, expense.ID, userID)
	respondJSON(w, http.StatusCreated, expense)
}

// handleUpdateExpense applies a partial update. Only fields present in the
// body change; an explicit null categoryId detaches the category.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	var body map[string]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	upd, err := buildExpenseUpdate(body)
	if err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	expense, err := s.store.UpdateExpense(r.Context(), id, userID, upd)
	switch {
	case errors.Is(err, storage.ErrNoFields):
		respondError(w, http.StatusBadRequest, "No fields to update")
		return
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "Expense not found")
		return
	case err != nil:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Expense update failed",
			applog.FieldError, err,
			applog.FieldExpenseID, id)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.publishEvent(r.Context(), amqp.ActionUpdated, id, userID)
	respondJSON(w, http.StatusOK, expense)
}

// buildExpenseUpdate maps the allow-listed body fields onto a storage
// update. Fields absent from the body stay untouched.
func buildExpenseUpdate(body map[string]json.RawMessage) (storage.ExpenseUpdate, error) {
	var upd storage.ExpenseUpdate

	if raw, ok := body["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return upd, err
		}
		upd.Title = &title
	}
	if raw, ok := body["amount"]; ok {
		var amount core.Money
		if err := json.Unmarshal(raw, &amount); err != nil {
			return upd, err
		}
		upd.Amount = &amount
	}
	if raw, ok := body["categoryId"]; ok {
		var categoryID *int64
		if err := json.Unmarshal(raw, &categoryID); err != nil {
			return upd, err
		}
		if categoryID == nil {
			upd.ClearCategory = true
		} else {
			upd.CategoryID = categoryID
		}
	}
	if raw, ok := body["date"]; ok {
		var date core.Date
		if err := json.Unmarshal(raw, &date); err != nil {
			return upd, err
		}
		upd.Date = &date
	}

	return upd, nil
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	err = s.store.DeleteExpense(r.Context(), id, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "Expense not found")
		return
	case err != nil:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Expense deletion failed",
			applog.FieldError, err,
			applog.FieldExpenseID, id)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.publishEvent(r.Context(), amqp.ActionDeleted, id, userID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	expenses, err := s.store.ListExpenses(r.Context(), userID, nil)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export list failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	if err := export.WriteCSV(w, expenses); err != nil {
		// Headers are gone at this point, just log it.
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed", applog.FieldError, err)
	}
}

// publishEvent emits an expense lifecycle event when a broker is configured.
// Failures are logged, never surfaced to the caller. WithoutCancel keeps the
// request-scoped logger and ID reachable after the response is written.
func (s *Server) publishEvent(ctx context.Context, action string, id, userID int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.events.PublishExpenseEvent(ctx, action, id, userID); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Event publish failed",
			applog.FieldError, err,
			"action", action,
			applog.FieldExpenseID, id)
	}
}
