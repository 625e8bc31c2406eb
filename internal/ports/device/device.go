package device

import (
	"context"
)

// RawEvent is one attendance log exactly as the gateway reports it. The
// timestamp stays a string until the normalizer parses it, so one bad value
// cannot poison the batch.
type RawEvent struct {
	DeviceUserID   string `json:"deviceUserId"`
	Timestamp      string `json:"timestamp"`
	AttendanceType int    `json:"attendanceType"`
	DeviceID       string `json:"deviceId"`
}

// Client is the contract for the biometric terminal collaborator. The device
// protocol is a stateful single-session conversation: Connect must succeed
// before any other call, and Disconnect releases the session. Every call is
// fallible and bounded by the transport timeout.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	GetEvents(ctx context.Context) ([]RawEvent, error)
	ClearEvents(ctx context.Context) error
	EnrollUser(ctx context.Context, uniqueID, name string) error
	DeleteUser(ctx context.Context, uniqueID string) error
}
