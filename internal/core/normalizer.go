package core

import (
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/device"
	"github.com/rs/zerolog/log"
)

// timestampLayouts are tried in order when parsing a raw device timestamp.
// Older gateway firmware reports local time without a zone offset; those
// values are interpreted in the system time zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalizer converts raw gateway events into typed, deduplicated check
// events. Events referencing users that are not enrolled are skipped;
// unparseable events are counted as errors. A single bad event never aborts
// the batch.
type Normalizer struct {
	location *time.Location
}

func NewNormalizer(location *time.Location) *Normalizer {
	return &Normalizer{location: location}
}

// NormalizeResult carries the typed events plus per-event outcome counts.
type NormalizeResult struct {
	Events  []model.CheckEvent
	Skipped int
	Errors  int
}

// Normalize filters and types a raw event batch. knownUsers is the set of
// enrolled device identifiers; ordering of the output is not significant,
// the reconciler's merge rule is order-independent.
func (n *Normalizer) Normalize(raw []device.RawEvent, knownUsers map[string]struct{}) NormalizeResult {
	result := NormalizeResult{}
	seen := make(map[checkEventKey]struct{}, len(raw))

	for _, event := range raw {
		if _, ok := knownUsers[event.DeviceUserID]; !ok {
			log.Warn().Str("device_user_id", event.DeviceUserID).Msg("User not found for device event. Skipping.")
			result.Skipped++
			continue
		}

		kind, ok := model.KindFromDeviceCode(event.AttendanceType)
		if !ok {
			log.Error().Int("attendance_type", event.AttendanceType).Msg("Unknown attendance type code")
			result.Errors++
			continue
		}

		timestamp, err := n.parseTimestamp(event.Timestamp)
		if err != nil {
			log.Error().Err(err).Str("timestamp", event.Timestamp).Msg("Failed to parse event timestamp")
			result.Errors++
			continue
		}

		key := checkEventKey{userID: event.DeviceUserID, unix: timestamp.Unix(), kind: kind}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		result.Events = append(result.Events, model.CheckEvent{
			UserID:    event.DeviceUserID,
			Timestamp: timestamp,
			Kind:      kind,
			DeviceID:  event.DeviceID,
		})
	}

	return result
}

func (n *Normalizer) parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		timestamp, err := time.ParseInLocation(layout, value, n.location)
		if err == nil {
			return timestamp, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

type checkEventKey struct {
	userID string
	unix   int64
	kind   model.EventKind
}
