package core

import (
	"context"
	"testing"
	"time"

	"attendance.service/internal/core/model"
)

func newTestReconciler(repo *stubRepository) *Reconciler {
	return NewReconciler(repo, NewSalaryCalculator(), time.UTC)
}

func checkEvent(kind model.EventKind, hour, minute int) model.CheckEvent {
	return model.CheckEvent{
		UserID:    "EMP-001",
		Timestamp: time.Date(2025, time.June, 2, hour, minute, 0, 0, time.UTC),
		Kind:      kind,
		DeviceID:  "dev-1",
	}
}

func ledgerEntry(t *testing.T, repo *stubRepository) model.AttendanceEntry {
	t.Helper()
	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	entry, err := repo.GetAttendance(context.Background(), "EMP-001", day)
	if err != nil {
		t.Fatalf("GetAttendance() unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatalf("expected a ledger entry for 2025-06-02")
	}
	return *entry
}

func TestReconcilerStatusPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		events     []model.CheckEvent
		wantStatus model.AttendanceStatus
		wantHours  float64
	}{
		{
			name:       "full day is present",
			events:     []model.CheckEvent{checkEvent(model.KindCheckIn, 8, 0), checkEvent(model.KindCheckOut, 16, 30)},
			wantStatus: model.StatusPresent,
			wantHours:  8.5,
		},
		{
			name:       "short day is partial",
			events:     []model.CheckEvent{checkEvent(model.KindCheckIn, 8, 0), checkEvent(model.KindCheckOut, 10, 0)},
			wantStatus: model.StatusPartial,
			wantHours:  2,
		},
		{
			name:       "check-in only is partial",
			events:     []model.CheckEvent{checkEvent(model.KindCheckIn, 8, 0)},
			wantStatus: model.StatusPartial,
			wantHours:  0,
		},
		{
			name:       "break punch alone leaves the day absent",
			events:     []model.CheckEvent{checkEvent(model.KindBreakOut, 12, 0)},
			wantStatus: model.StatusAbsent,
			wantHours:  0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := newStubRepository()
			reconciler := newTestReconciler(repo)

			for _, event := range testCase.events {
				if err := reconciler.Apply(context.Background(), event); err != nil {
					t.Fatalf("Apply() unexpected error: %v", err)
				}
			}

			entry := ledgerEntry(t, repo)
			if entry.Status != testCase.wantStatus {
				t.Fatalf("expected status %s, got %s", testCase.wantStatus, entry.Status)
			}
			if entry.WorkingHours != testCase.wantHours {
				t.Fatalf("expected %v hours, got %v", testCase.wantHours, entry.WorkingHours)
			}
		})
	}
}

func TestReconcilerMergeIsMonotonic(t *testing.T) {
	repo := newStubRepository()
	reconciler := newTestReconciler(repo)

	// Deliberately out of order: the later check-in arrives first.
	events := []model.CheckEvent{
		checkEvent(model.KindCheckIn, 9, 15),
		checkEvent(model.KindCheckOut, 15, 0),
		checkEvent(model.KindCheckIn, 8, 0),
		checkEvent(model.KindCheckOut, 17, 0),
	}
	for _, event := range events {
		if err := reconciler.Apply(context.Background(), event); err != nil {
			t.Fatalf("Apply() unexpected error: %v", err)
		}
	}

	entry := ledgerEntry(t, repo)
	if entry.CheckIn == nil || entry.CheckIn.Hour() != 8 {
		t.Fatalf("expected earliest check-in 08:00, got %v", entry.CheckIn)
	}
	if entry.CheckOut == nil || entry.CheckOut.Hour() != 17 {
		t.Fatalf("expected latest check-out 17:00, got %v", entry.CheckOut)
	}
	if entry.WorkingHours != 9 {
		t.Fatalf("expected 9 working hours, got %v", entry.WorkingHours)
	}
}

func TestReconcilerIsIdempotent(t *testing.T) {
	events := []model.CheckEvent{
		checkEvent(model.KindCheckIn, 8, 0),
		checkEvent(model.KindCheckOut, 16, 30),
	}

	apply := func(repo *stubRepository, rounds int) model.AttendanceEntry {
		reconciler := newTestReconciler(repo)
		for i := 0; i < rounds; i++ {
			for _, event := range events {
				if err := reconciler.Apply(context.Background(), event); err != nil {
					t.Fatalf("Apply() unexpected error: %v", err)
				}
			}
		}
		return ledgerEntry(t, repo)
	}

	once := apply(newStubRepository(), 1)
	twice := apply(newStubRepository(), 2)

	if once.Status != twice.Status || once.WorkingHours != twice.WorkingHours {
		t.Fatalf("reapplying events changed the entry: %+v vs %+v", once, twice)
	}
	if !once.CheckIn.Equal(*twice.CheckIn) || !once.CheckOut.Equal(*twice.CheckOut) {
		t.Fatalf("reapplying events moved the timestamps")
	}
}

func TestReconcilerInvertedPairKeepsPartial(t *testing.T) {
	repo := newStubRepository()
	reconciler := newTestReconciler(repo)

	// A check-out before the check-in clamps hours to zero; the zero pair
	// must not drop the day back to absent.
	events := []model.CheckEvent{
		checkEvent(model.KindCheckIn, 9, 0),
		checkEvent(model.KindCheckOut, 7, 0),
	}
	for _, event := range events {
		if err := reconciler.Apply(context.Background(), event); err != nil {
			t.Fatalf("Apply() unexpected error: %v", err)
		}
	}

	entry := ledgerEntry(t, repo)
	if entry.WorkingHours != 0 {
		t.Fatalf("expected clamped 0 hours, got %v", entry.WorkingHours)
	}
	if entry.Status != model.StatusPartial {
		t.Fatalf("expected status partial, got %s", entry.Status)
	}
}

func TestReconcilerDayTruncationUsesSystemZone(t *testing.T) {
	location, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	repo := newStubRepository()
	reconciler := NewReconciler(repo, NewSalaryCalculator(), location)

	// 20:30 UTC on June 1st is already June 2nd in Dhaka (+06:00).
	event := model.CheckEvent{
		UserID:    "EMP-001",
		Timestamp: time.Date(2025, time.June, 1, 20, 30, 0, 0, time.UTC),
		Kind:      model.KindCheckIn,
		DeviceID:  "dev-1",
	}
	if err := reconciler.Apply(context.Background(), event); err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, location)
	entry, err := repo.GetAttendance(context.Background(), "EMP-001", day)
	if err != nil {
		t.Fatalf("GetAttendance() unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatalf("expected the entry keyed to June 2nd in the system zone")
	}
}
