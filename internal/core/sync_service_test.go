package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/device"
)

func newTestSyncService(dev *stubDevice, repo *stubRepository) *SyncService {
	calc := NewSalaryCalculator()
	return NewSyncService(dev, repo, NewNormalizer(time.UTC), NewReconciler(repo, calc, time.UTC), "dev-1")
}

func enrollTestUsers(repo *stubRepository, ids ...string) {
	for _, id := range ids {
		repo.users[id] = model.User{UniqueID: id, Name: id, IsActive: true}
	}
}

func TestRunSyncCounts(t *testing.T) {
	repo := newStubRepository()
	enrollTestUsers(repo, "EMP-001", "EMP-002")

	dev := &stubDevice{events: []device.RawEvent{
		{DeviceUserID: "EMP-001", Timestamp: "2025-06-02T08:00:00Z", AttendanceType: 0, DeviceID: "dev-1"},
		{DeviceUserID: "EMP-002", Timestamp: "2025-06-02T08:10:00Z", AttendanceType: 0, DeviceID: "dev-1"},
		{DeviceUserID: "GHOST", Timestamp: "2025-06-02T08:20:00Z", AttendanceType: 0, DeviceID: "dev-1"},
	}}

	report, err := newTestSyncService(dev, repo).RunSync(context.Background())
	if err != nil {
		t.Fatalf("RunSync() unexpected error: %v", err)
	}

	if report.TotalLogs != 3 {
		t.Fatalf("expected 3 total logs, got %d", report.TotalLogs)
	}
	if report.ProcessedLogs != 2 {
		t.Fatalf("expected 2 processed logs, got %d", report.ProcessedLogs)
	}
	if report.SkippedLogs != 1 {
		t.Fatalf("expected 1 skipped log, got %d", report.SkippedLogs)
	}
	if report.Errors != 0 {
		t.Fatalf("expected 0 errors, got %d", report.Errors)
	}
	if report.Timestamp.IsZero() {
		t.Fatalf("expected a completion timestamp")
	}
	if dev.clears != 1 {
		t.Fatalf("expected device buffer cleared once, got %d", dev.clears)
	}
	if dev.disconnects != 1 {
		t.Fatalf("expected exactly one disconnect, got %d", dev.disconnects)
	}
}

func TestRunSyncDeviceUnavailable(t *testing.T) {
	repo := newStubRepository()
	dev := &stubDevice{connectErr: errStubDeviceDown}

	_, err := newTestSyncService(dev, repo).RunSync(context.Background())
	if !errors.Is(err, model.ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if len(repo.entries) != 0 {
		t.Fatalf("expected no ledger entries after failed connect")
	}
	if dev.disconnects != 0 {
		t.Fatalf("disconnect must not run when connect failed")
	}
}

func TestRunSyncDisconnectsAfterFetchFailure(t *testing.T) {
	repo := newStubRepository()
	dev := &stubDevice{getEventsErr: errStubDeviceDown}

	_, err := newTestSyncService(dev, repo).RunSync(context.Background())
	if !errors.Is(err, model.ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if dev.disconnects != 1 {
		t.Fatalf("expected the session released on the failure path, got %d disconnects", dev.disconnects)
	}
}

func TestRunSyncClearFailureIsNonFatal(t *testing.T) {
	repo := newStubRepository()
	enrollTestUsers(repo, "EMP-001")

	dev := &stubDevice{
		events: []device.RawEvent{
			{DeviceUserID: "EMP-001", Timestamp: "2025-06-02T08:00:00Z", AttendanceType: 0, DeviceID: "dev-1"},
		},
		clearErr: errStubDeviceDown,
	}

	report, err := newTestSyncService(dev, repo).RunSync(context.Background())
	if err != nil {
		t.Fatalf("RunSync() unexpected error: %v", err)
	}
	if report.ProcessedLogs != 1 {
		t.Fatalf("expected 1 processed log, got %d", report.ProcessedLogs)
	}
}

func TestRunSyncPersistenceFailureIsCounted(t *testing.T) {
	repo := newStubRepository()
	enrollTestUsers(repo, "EMP-001", "EMP-002")
	repo.upsertErr = model.ErrPersistence
	repo.upsertErrs = 1 // only the first save fails

	dev := &stubDevice{events: []device.RawEvent{
		{DeviceUserID: "EMP-001", Timestamp: "2025-06-02T08:00:00Z", AttendanceType: 0, DeviceID: "dev-1"},
		{DeviceUserID: "EMP-002", Timestamp: "2025-06-02T08:10:00Z", AttendanceType: 0, DeviceID: "dev-1"},
	}}

	report, err := newTestSyncService(dev, repo).RunSync(context.Background())
	if err != nil {
		t.Fatalf("RunSync() unexpected error: %v", err)
	}
	if report.ProcessedLogs != 1 {
		t.Fatalf("expected 1 processed log, got %d", report.ProcessedLogs)
	}
	if report.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", report.Errors)
	}
}

func TestRunSyncRejectsConcurrentRun(t *testing.T) {
	repo := newStubRepository()
	dev := &stubDevice{
		blockGet:   make(chan struct{}),
		getEntered: make(chan struct{}),
	}
	entered := dev.getEntered
	service := newTestSyncService(dev, repo)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = service.RunSync(context.Background())
	}()

	<-entered // first run now owns the device session

	_, err := service.RunSync(context.Background())
	if !errors.Is(err, model.ErrSyncInFlight) {
		t.Fatalf("expected ErrSyncInFlight for the second run, got %v", err)
	}

	close(dev.blockGet)
	<-done
}
