package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
)

type SyncHandler struct {
	Service  *core.SyncService
	Producer messaging.EventProducer
	DeviceID string
}

// RunSync executes one reconciliation pass inline and returns its report.
func (h *SyncHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.RunSync(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDeviceUnavailable):
			http.Error(w, "Could not connect to attendance device", http.StatusServiceUnavailable)
		case errors.Is(err, model.ErrSyncInFlight):
			http.Error(w, "A sync for this device is already running", http.StatusConflict)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":       "Attendance sync completed",
		"totalLogs":     report.TotalLogs,
		"processedLogs": report.ProcessedLogs,
		"skippedLogs":   report.SkippedLogs,
		"errors":        report.Errors,
		"timestamp":     report.Timestamp,
	})
}

// ScheduleSync queues a sync request for the background worker instead of
// holding the HTTP request open for the whole device conversation.
func (h *SyncHandler) ScheduleSync(w http.ResponseWriter, r *http.Request) {
	event := messaging.SyncRequestedEvent{
		DeviceID:    h.DeviceID,
		RequestedBy: r.RemoteAddr,
		RequestedAt: time.Now().UTC(),
	}

	if err := h.Producer.PublishSyncRequest(r.Context(), event); err != nil {
		http.Error(w, "Failed to queue sync request", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"message": "Sync request queued for asynchronous processing."})
}
