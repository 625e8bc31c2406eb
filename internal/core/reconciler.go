package core

import (
	"context"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
)

// Reconciler folds normalized check events into the daily attendance ledger.
// The merge rule is idempotent and order-independent: check-in keeps the
// earliest timestamp seen for the day, check-out keeps the latest, so
// redelivered events converge on the same entry.
type Reconciler struct {
	repo     repository.Repository
	calc     *SalaryCalculator
	location *time.Location
}

func NewReconciler(repo repository.Repository, calc *SalaryCalculator, location *time.Location) *Reconciler {
	return &Reconciler{
		repo:     repo,
		calc:     calc,
		location: location,
	}
}

// Apply merges one event into the ledger entry for its (user, calendar day)
// key, creating the entry if the day has none yet.
func (r *Reconciler) Apply(ctx context.Context, event model.CheckEvent) error {
	day := r.DayOf(event.Timestamp)

	entry, err := r.repo.GetAttendance(ctx, event.UserID, day)
	if err != nil {
		return err
	}
	if entry == nil {
		entry = &model.AttendanceEntry{
			UniqueID: event.UserID,
			Date:     day,
			Status:   model.StatusAbsent,
		}
	}

	r.merge(entry, event)
	entry.DeviceID = event.DeviceID

	return r.repo.UpsertAttendance(ctx, entry)
}

// DayOf truncates a timestamp to day granularity in the system time zone.
func (r *Reconciler) DayOf(timestamp time.Time) time.Time {
	local := timestamp.In(r.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.location)
}

func (r *Reconciler) merge(entry *model.AttendanceEntry, event model.CheckEvent) {
	switch event.Kind {
	case model.KindCheckIn:
		if entry.CheckIn == nil || event.Timestamp.Before(*entry.CheckIn) {
			timestamp := event.Timestamp
			entry.CheckIn = &timestamp
		}
	case model.KindCheckOut:
		if entry.CheckOut == nil || event.Timestamp.After(*entry.CheckOut) {
			timestamp := event.Timestamp
			entry.CheckOut = &timestamp
		}
	default:
		// Break and overtime punches are recorded on the device but do not
		// move check-in/check-out or computed hours.
	}

	r.deriveStatus(entry)
}

// deriveStatus recomputes working hours and status after a merge. A
// zero-duration in/out pair keeps the entry's previous status rather than
// flipping it back to absent.
func (r *Reconciler) deriveStatus(entry *model.AttendanceEntry) {
	switch {
	case entry.CheckIn != nil && entry.CheckOut != nil:
		entry.WorkingHours = r.calc.WorkingHoursBetween(*entry.CheckIn, *entry.CheckOut)
		if entry.WorkingHours >= standardWorkingHours {
			entry.Status = model.StatusPresent
		} else if entry.WorkingHours > 0 {
			entry.Status = model.StatusPartial
		}
	case entry.CheckIn != nil:
		entry.Status = model.StatusPartial
	}
}
