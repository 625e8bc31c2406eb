package api

import (
	"net/http"

	"attendance.service/internal/api/handler"
	"github.com/gorilla/mux"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(syncHandler *handler.SyncHandler, salaryHandler *handler.SalaryHandler, userHandler *handler.UserHandler) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/sync", syncHandler.RunSync).Methods(http.MethodPost)
	api.HandleFunc("/sync/schedule", syncHandler.ScheduleSync).Methods(http.MethodPost)

	api.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/users/{uniqueId}", userHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/users/{uniqueId}/attendance", userHandler.Attendance).Methods(http.MethodGet)

	api.HandleFunc("/salary/generate", salaryHandler.Generate).Methods(http.MethodPost)
	api.HandleFunc("/salary/{uniqueId}", salaryHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/salary/{uniqueId}/finalize", salaryHandler.Finalize).Methods(http.MethodPost)
	api.HandleFunc("/salary/{uniqueId}/pay", salaryHandler.MarkPaid).Methods(http.MethodPost)

	api.HandleFunc("/dashboard", userHandler.Dashboard).Methods(http.MethodGet)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
