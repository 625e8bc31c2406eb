package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"github.com/gorilla/mux"
)

type SalaryHandler struct {
	Service *core.PayrollService
}

type GenerateSalaryRequest struct {
	UniqueID string `json:"uniqueId"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

// Generate computes a draft salary record for one (user, month, year).
func (h *SalaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UniqueID == "" || req.Month < 1 || req.Month > 12 || req.Year < 2000 {
		http.Error(w, "uniqueId, month (1-12) and year are required", http.StatusBadRequest)
		return
	}

	record, err := h.Service.GenerateMonthlySalary(r.Context(), req.UniqueID, req.Month, req.Year)
	if err != nil {
		writeSalaryError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

// Get returns the stored salary record for one (user, month, year).
func (h *SalaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	uniqueID := mux.Vars(r)["uniqueId"]
	month, year, ok := monthYearFromQuery(r)
	if !ok {
		http.Error(w, "month and year query parameters are required", http.StatusBadRequest)
		return
	}

	record, err := h.Service.GetSalary(r.Context(), uniqueID, month, year)
	if err != nil {
		writeSalaryError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// Finalize advances a draft record to finalized.
func (h *SalaryHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.Service.FinalizeSalary, "Salary record finalized.")
}

// MarkPaid advances a finalized record to paid.
func (h *SalaryHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.Service.MarkSalaryPaid, "Salary record marked as paid.")
}

func (h *SalaryHandler) advance(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, uniqueID string, month, year int) error, message string) {
	uniqueID := mux.Vars(r)["uniqueId"]
	month, year, ok := monthYearFromQuery(r)
	if !ok {
		http.Error(w, "month and year query parameters are required", http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), uniqueID, month, year); err != nil {
		writeSalaryError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"message": message})
}

func writeSalaryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrStateConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrInvalidWorkingDays):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func monthYearFromQuery(r *http.Request) (int, int, bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 {
		return 0, 0, false
	}
	return month, year, true
}
