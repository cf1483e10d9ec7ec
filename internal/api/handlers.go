package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	"expensetracker/internal/data"
	applog "expensetracker/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReady reports whether the store answers a read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListUsers(r.Context()); err != nil {
		reqLogger(r).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not_ready", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.GetExpense(r.Context(), core.ParseID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleCreateExpense stores the body and answers 201 with the stored record.
// An id in the body is kept when it is not taken.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeBody(w, r, &e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	saved, err := s.store.CreateExpense(r.Context(), e)
	if err != nil {
		s.writeError(w, r, applog.OpCreate, err)
		return
	}
	reqLogger(r).InfoContext(r.Context(), "Expense created",
		applog.FieldExpenseID, saved.ID.String(),
		applog.FieldCategory, string(saved.Category),
		applog.FieldAmount, saved.Amount.Cents)
	writeJSON(w, http.StatusCreated, saved)
}

// handleUpdateExpense replaces the record named by the path. The path id wins
// over any id in the body.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeBody(w, r, &e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pathID := chi.URLParam(r, "id")
	if e.ID.String() != pathID {
		e.ID = core.ParseID(pathID)
	}
	saved, err := s.store.UpdateExpense(r.Context(), e)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := core.ParseID(chi.URLParam(r, "id"))
	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		s.writeError(w, r, applog.OpDelete, err)
		return
	}
	reqLogger(r).InfoContext(r.Context(), "Expense deleted", applog.FieldExpenseID, id.String())
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.GetBudgets(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

// handleReplaceBudgets overwrites the whole mapping with the body.
func (s *Server) handleReplaceBudgets(w http.ResponseWriter, r *http.Request) {
	var b core.Budgets
	if err := decodeBody(w, r, &b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	saved, err := s.store.ReplaceBudgets(r.Context(), b)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// writeError answers 404 with an empty object for missing records and 500
// for everything else.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, data.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	applog.LogError(r.Context(), "Store operation failed", err, applog.ComponentAPI, op,
		applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func reqLogger(r *http.Request) *applog.Logger {
	return applog.FromContext(r.Context()).WithComponent(applog.ComponentAPI)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
