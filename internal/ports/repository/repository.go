package repository

import (
	"context"
	"time"

	"attendance.service/internal/core/model"
)

// Repository contract
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUniqueID(ctx context.Context, uniqueID string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetBiometricEnrolled(ctx context.Context, uniqueID string, enrolled bool) error
	DeleteUser(ctx context.Context, uniqueID string) error
	CountUsers(ctx context.Context, activeOnly bool) (int64, error)

	// Attendance ledger
	GetAttendance(ctx context.Context, uniqueID string, date time.Time) (*model.AttendanceEntry, error)
	UpsertAttendance(ctx context.Context, entry *model.AttendanceEntry) error
	ListAttendanceForMonth(ctx context.Context, uniqueID string, month, year int) ([]model.AttendanceEntry, error)
	CountAttendanceByStatus(ctx context.Context, date time.Time, status model.AttendanceStatus) (int64, error)

	// Salary records
	GetSalaryRecord(ctx context.Context, uniqueID string, month, year int) (*model.SalaryRecord, error)
	SaveDraftSalary(ctx context.Context, record *model.SalaryRecord) error
	UpdateSalaryStatus(ctx context.Context, uniqueID string, month, year int, status model.SalaryStatus, at time.Time) error
}
