package core

import (
	"testing"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/device"
)

func TestNormalizeSkipsUnknownUsers(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)
	known := map[string]struct{}{"EMP-001": {}}

	raw := []device.RawEvent{
		{DeviceUserID: "EMP-001", Timestamp: "2025-06-02T08:00:00Z", AttendanceType: 0, DeviceID: "dev-1"},
		{DeviceUserID: "GHOST", Timestamp: "2025-06-02T08:05:00Z", AttendanceType: 0, DeviceID: "dev-1"},
	}

	result := normalizer.Normalize(raw, known)
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 normalized event, got %d", len(result.Events))
	}
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skipped event, got %d", result.Skipped)
	}
	if result.Errors != 0 {
		t.Fatalf("expected no errors, got %d", result.Errors)
	}
}

func TestNormalizeCountsMalformedEvents(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)
	known := map[string]struct{}{"EMP-001": {}}

	raw := []device.RawEvent{
		{DeviceUserID: "EMP-001", Timestamp: "not-a-timestamp", AttendanceType: 0, DeviceID: "dev-1"},
		{DeviceUserID: "EMP-001", Timestamp: "2025-06-02T08:00:00Z", AttendanceType: 42, DeviceID: "dev-1"},
		{DeviceUserID: "EMP-001", Timestamp: "2025-06-02T08:00:00Z", AttendanceType: 1, DeviceID: "dev-1"},
	}

	result := normalizer.Normalize(raw, known)
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 normalized event, got %d", len(result.Events))
	}
	if result.Errors != 2 {
		t.Fatalf("expected 2 errors, got %d", result.Errors)
	}
}

func TestNormalizeDeduplicates(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)
	known := map[string]struct{}{"EMP-001": {}}

	event := device.RawEvent{DeviceUserID: "EMP-001", Timestamp: "2025-06-02T08:00:00Z", AttendanceType: 0, DeviceID: "dev-1"}
	result := normalizer.Normalize([]device.RawEvent{event, event, event}, known)

	if len(result.Events) != 1 {
		t.Fatalf("expected duplicates collapsed to 1 event, got %d", len(result.Events))
	}
}

func TestNormalizeTypesAllKinds(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)
	known := map[string]struct{}{"EMP-001": {}}

	wantKinds := []model.EventKind{
		model.KindCheckIn, model.KindCheckOut,
		model.KindBreakOut, model.KindBreakIn,
		model.KindOvertimeIn, model.KindOvertimeOut,
	}

	var raw []device.RawEvent
	base := time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)
	for code := 0; code <= 5; code++ {
		raw = append(raw, device.RawEvent{
			DeviceUserID:   "EMP-001",
			Timestamp:      base.Add(time.Duration(code) * time.Minute).Format(time.RFC3339),
			AttendanceType: code,
			DeviceID:       "dev-1",
		})
	}

	result := normalizer.Normalize(raw, known)
	if len(result.Events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(result.Events))
	}
	for i, event := range result.Events {
		if event.Kind != wantKinds[i] {
			t.Fatalf("event %d: expected kind %s, got %s", i, wantKinds[i], event.Kind)
		}
	}
}

func TestNormalizeParsesNaiveTimestampsInSystemZone(t *testing.T) {
	location, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	normalizer := NewNormalizer(location)
	known := map[string]struct{}{"EMP-001": {}}

	raw := []device.RawEvent{
		{DeviceUserID: "EMP-001", Timestamp: "2025-06-02 08:00:00", AttendanceType: 0, DeviceID: "dev-1"},
	}

	result := normalizer.Normalize(raw, known)
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 event, got %d (errors=%d)", len(result.Events), result.Errors)
	}

	want := time.Date(2025, time.June, 2, 8, 0, 0, 0, location)
	if !result.Events[0].Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, result.Events[0].Timestamp)
	}
}
