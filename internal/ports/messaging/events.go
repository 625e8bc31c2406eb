package messaging

import "time"

// SyncRequestedEvent is the JSON payload sent via SQS to ask the sync worker
// to run one reconciliation pass against a device.
type SyncRequestedEvent struct {
	DeviceID    string    `json:"deviceId"`
	RequestedBy string    `json:"requestedBy,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// SyncCompletedEvent is the JSON payload sent via SQS once a sync pass
// finished, carrying the run's summary counts for downstream reporting.
type SyncCompletedEvent struct {
	DeviceID      string    `json:"deviceId"`
	TotalLogs     int       `json:"totalLogs"`
	ProcessedLogs int       `json:"processedLogs"`
	SkippedLogs   int       `json:"skippedLogs"`
	Errors        int       `json:"errors"`
	CompletedAt   time.Time `json:"completedAt"`
}
