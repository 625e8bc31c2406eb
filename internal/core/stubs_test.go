package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/device"
)

// stubRepository is an in-memory Repository for exercising the pipeline
// without a database.
type stubRepository struct {
	users      map[string]model.User
	entries    map[string]model.AttendanceEntry
	salaries   map[string]model.SalaryRecord
	upsertErr  error
	upsertErrs int
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		users:    make(map[string]model.User),
		entries:  make(map[string]model.AttendanceEntry),
		salaries: make(map[string]model.SalaryRecord),
	}
}

func entryKey(uniqueID string, date time.Time) string {
	return uniqueID + "|" + date.Format("2006-01-02")
}

func salaryKey(uniqueID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", uniqueID, month, year)
}

func (s *stubRepository) CreateUser(_ context.Context, user *model.User) error {
	if _, exists := s.users[user.UniqueID]; exists {
		return model.ErrUserExists
	}
	s.users[user.UniqueID] = *user
	return nil
}

func (s *stubRepository) GetUserByUniqueID(_ context.Context, uniqueID string) (*model.User, error) {
	user, ok := s.users[uniqueID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *stubRepository) ListUsers(_ context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *stubRepository) SetBiometricEnrolled(_ context.Context, uniqueID string, enrolled bool) error {
	user, ok := s.users[uniqueID]
	if !ok {
		return model.ErrNotFound
	}
	user.BiometricEnrolled = enrolled
	s.users[uniqueID] = user
	return nil
}

func (s *stubRepository) DeleteUser(_ context.Context, uniqueID string) error {
	if _, ok := s.users[uniqueID]; !ok {
		return model.ErrNotFound
	}
	delete(s.users, uniqueID)
	return nil
}

func (s *stubRepository) CountUsers(_ context.Context, activeOnly bool) (int64, error) {
	if !activeOnly {
		return int64(len(s.users)), nil
	}
	var count int64
	for _, user := range s.users {
		if user.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *stubRepository) GetAttendance(_ context.Context, uniqueID string, date time.Time) (*model.AttendanceEntry, error) {
	entry, ok := s.entries[entryKey(uniqueID, date)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *stubRepository) UpsertAttendance(_ context.Context, entry *model.AttendanceEntry) error {
	if s.upsertErr != nil && s.upsertErrs > 0 {
		s.upsertErrs--
		return s.upsertErr
	}
	s.entries[entryKey(entry.UniqueID, entry.Date)] = *entry
	return nil
}

func (s *stubRepository) ListAttendanceForMonth(_ context.Context, uniqueID string, month, year int) ([]model.AttendanceEntry, error) {
	var entries []model.AttendanceEntry
	for _, entry := range s.entries {
		if entry.UniqueID == uniqueID && int(entry.Date.Month()) == month && entry.Date.Year() == year {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *stubRepository) CountAttendanceByStatus(_ context.Context, date time.Time, status model.AttendanceStatus) (int64, error) {
	var count int64
	for _, entry := range s.entries {
		if entry.Date.Equal(date) && entry.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *stubRepository) GetSalaryRecord(_ context.Context, uniqueID string, month, year int) (*model.SalaryRecord, error) {
	record, ok := s.salaries[salaryKey(uniqueID, month, year)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *stubRepository) SaveDraftSalary(_ context.Context, record *model.SalaryRecord) error {
	key := salaryKey(record.UniqueID, record.Month, record.Year)
	if existing, ok := s.salaries[key]; ok && existing.Status != model.SalaryDraft {
		return model.ErrStateConflict
	}
	s.salaries[key] = *record
	return nil
}

func (s *stubRepository) UpdateSalaryStatus(_ context.Context, uniqueID string, month, year int, status model.SalaryStatus, at time.Time) error {
	key := salaryKey(uniqueID, month, year)
	record, ok := s.salaries[key]
	if !ok {
		return model.ErrNotFound
	}
	record.Status = status
	switch status {
	case model.SalaryFinalized:
		record.FinalizedAt = &at
	case model.SalaryPaid:
		record.PaidAt = &at
	}
	s.salaries[key] = record
	return nil
}

// stubDevice is an in-memory device.Client recording the call sequence.
type stubDevice struct {
	events        []device.RawEvent
	connectErr    error
	getEventsErr  error
	clearErr      error
	connected     bool
	disconnects   int
	clears        int
	blockGet      chan struct{} // when set, GetEvents waits until closed
	getEntered    chan struct{} // closed once GetEvents is running
}

func (d *stubDevice) Connect(context.Context) error {
	if d.connectErr != nil {
		return d.connectErr
	}
	d.connected = true
	return nil
}

func (d *stubDevice) Disconnect(context.Context) error {
	d.connected = false
	d.disconnects++
	return nil
}

func (d *stubDevice) GetEvents(context.Context) ([]device.RawEvent, error) {
	if d.getEntered != nil {
		close(d.getEntered)
		d.getEntered = nil
	}
	if d.blockGet != nil {
		<-d.blockGet
	}
	if d.getEventsErr != nil {
		return nil, d.getEventsErr
	}
	result := make([]device.RawEvent, len(d.events))
	copy(result, d.events)
	return result, nil
}

func (d *stubDevice) ClearEvents(context.Context) error {
	if d.clearErr != nil {
		return d.clearErr
	}
	d.clears++
	return nil
}

func (d *stubDevice) EnrollUser(context.Context, string, string) error { return nil }
func (d *stubDevice) DeleteUser(context.Context, string) error         { return nil }

var errStubDeviceDown = errors.New("stub device down")
