package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"github.com/gorilla/mux"
)

type UserHandler struct {
	Service *core.UserService
	Repo    repository.Repository
	DayOf   func(time.Time) time.Time
}

type RegisterUserRequest struct {
	UniqueID        string  `json:"uniqueId"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	MonthlySalary   float64 `json:"monthlySalary"`
	MonthlyOffDays  int     `json:"monthlyOffDays"`
	EnrollBiometric bool    `json:"enrollBiometric"`
}

// Register creates a user and optionally enrolls them on the terminal.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.UniqueID = strings.TrimSpace(req.UniqueID)
	req.Name = strings.TrimSpace(req.Name)
	if req.UniqueID == "" || req.Name == "" {
		http.Error(w, "uniqueId and name are required", http.StatusBadRequest)
		return
	}
	if req.MonthlySalary < 0 {
		http.Error(w, "monthlySalary must be non-negative", http.StatusBadRequest)
		return
	}
	if req.MonthlyOffDays < 0 || req.MonthlyOffDays > 30 {
		http.Error(w, "monthlyOffDays must be between 0 and 30", http.StatusBadRequest)
		return
	}

	user := &model.User{
		UniqueID:       req.UniqueID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		MonthlySalary:  req.MonthlySalary,
		MonthlyOffDays: req.MonthlyOffDays,
	}

	created, err := h.Service.RegisterUser(r.Context(), user, req.EnrollBiometric)
	if err != nil {
		if errors.Is(err, model.ErrUserExists) {
			http.Error(w, "User with this ID already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// List returns all registered users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// Delete removes a user and their terminal enrollment.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uniqueID := mux.Vars(r)["uniqueId"]

	if err := h.Service.RemoveUser(r.Context(), uniqueID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"message": "User deleted."})
}

// Attendance lists one user's ledger entries for a month.
func (h *UserHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	uniqueID := mux.Vars(r)["uniqueId"]
	month, year, ok := monthYearFromQuery(r)
	if !ok {
		http.Error(w, "month and year query parameters are required", http.StatusBadRequest)
		return
	}

	entries, err := h.Repo.ListAttendanceForMonth(r.Context(), uniqueID, month, year)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []model.AttendanceEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Dashboard returns the admin summary counts for today.
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	today := h.DayOf(time.Now())

	stats, err := h.Service.BuildDashboardStats(r.Context(), today)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
