package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AttendanceRepository is the concrete implementation for a PostgreSQL database.
type AttendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository create new instance
func NewAttendanceRepository(db *sql.DB) Repository {
	return &AttendanceRepository{DB: db}
}

// CreateUser inserts a new user with their contract terms.
func (r *AttendanceRepository) CreateUser(ctx context.Context, user *model.User) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.uniqueId", user.UniqueID))

	query := `INSERT INTO users (unique_id, name, email, phone, monthly_salary, monthly_off_days, is_active, biometric_enrolled)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              ON CONFLICT (unique_id) DO NOTHING`

	res, err := r.DB.ExecContext(ctx, query,
		user.UniqueID, user.Name, user.Email, user.Phone,
		user.MonthlySalary, user.MonthlyOffDays, user.IsActive, user.BiometricEnrolled)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrUserExists
	}
	return nil
}

// GetUserByUniqueID fetches a user by the device-facing identifier.
// Returns (nil, nil) when no user matches.
func (r *AttendanceRepository) GetUserByUniqueID(ctx context.Context, uniqueID string) (*model.User, error) {
	query := `SELECT unique_id, name, email, phone, monthly_salary, monthly_off_days, is_active, biometric_enrolled, created_at
              FROM users WHERE unique_id = $1`

	user := &model.User{}
	err := r.DB.QueryRowContext(ctx, query, uniqueID).Scan(
		&user.UniqueID, &user.Name, &user.Email, &user.Phone,
		&user.MonthlySalary, &user.MonthlyOffDays, &user.IsActive, &user.BiometricEnrolled, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users, newest first.
func (r *AttendanceRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT unique_id, name, email, phone, monthly_salary, monthly_off_days, is_active, biometric_enrolled, created_at
              FROM users ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.UniqueID, &user.Name, &user.Email, &user.Phone,
			&user.MonthlySalary, &user.MonthlyOffDays, &user.IsActive, &user.BiometricEnrolled, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetBiometricEnrolled flips the enrollment flag after a device operation.
func (r *AttendanceRepository) SetBiometricEnrolled(ctx context.Context, uniqueID string, enrolled bool) error {
	query := `UPDATE users SET biometric_enrolled = $1 WHERE unique_id = $2`
	_, err := r.DB.ExecContext(ctx, query, enrolled, uniqueID)
	return err
}

// DeleteUser removes a user row. Ledger and salary rows are kept for audit.
func (r *AttendanceRepository) DeleteUser(ctx context.Context, uniqueID string) error {
	query := `DELETE FROM users WHERE unique_id = $1`
	res, err := r.DB.ExecContext(ctx, query, uniqueID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountUsers counts users, optionally only active ones.
func (r *AttendanceRepository) CountUsers(ctx context.Context, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM users`
	if activeOnly {
		query += ` WHERE is_active`
	}

	var count int64
	err := r.DB.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

// GetAttendance fetches the ledger entry for one (user, date) key.
// Returns (nil, nil) when the day has no entry yet.
func (r *AttendanceRepository) GetAttendance(ctx context.Context, uniqueID string, date time.Time) (*model.AttendanceEntry, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.uniqueId", uniqueID))

	query := `SELECT unique_id, date, check_in, check_out, working_hours, status, device_id, notes
              FROM attendance_entries
              WHERE unique_id = $1 AND date = $2`

	entry := &model.AttendanceEntry{}
	var checkIn, checkOut sql.NullTime
	var notes, deviceID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, uniqueID, date).Scan(
		&entry.UniqueID, &entry.Date, &checkIn, &checkOut,
		&entry.WorkingHours, &entry.Status, &deviceID, &notes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if checkIn.Valid {
		entry.CheckIn = &checkIn.Time
	}
	if checkOut.Valid {
		entry.CheckOut = &checkOut.Time
	}
	entry.DeviceID = deviceID.String
	entry.Notes = notes.String
	return entry, nil
}

// UpsertAttendance writes one ledger entry atomically, keyed by
// (unique_id, date). Repeated syncs over the same day converge on the same
// row because the merge itself is idempotent.
func (r *AttendanceRepository) UpsertAttendance(ctx context.Context, entry *model.AttendanceEntry) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.uniqueId", entry.UniqueID))

	query := `INSERT INTO attendance_entries (unique_id, date, check_in, check_out, working_hours, status, device_id, notes)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              ON CONFLICT (unique_id, date) DO UPDATE
              SET check_in      = EXCLUDED.check_in,
                  check_out     = EXCLUDED.check_out,
                  working_hours = EXCLUDED.working_hours,
                  status        = EXCLUDED.status,
                  device_id     = EXCLUDED.device_id`

	_, err := r.DB.ExecContext(ctx, query,
		entry.UniqueID, entry.Date, entry.CheckIn, entry.CheckOut,
		entry.WorkingHours, entry.Status, entry.DeviceID, entry.Notes)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return nil
}

// ListAttendanceForMonth returns every ledger entry for one user in a month.
func (r *AttendanceRepository) ListAttendanceForMonth(ctx context.Context, uniqueID string, month, year int) ([]model.AttendanceEntry, error) {
	query := `SELECT unique_id, date, check_in, check_out, working_hours, status, device_id, notes
              FROM attendance_entries
              WHERE unique_id = $1
                AND EXTRACT(MONTH FROM date) = $2
                AND EXTRACT(YEAR FROM date) = $3
              ORDER BY date`

	rows, err := r.DB.QueryContext(ctx, query, uniqueID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AttendanceEntry
	for rows.Next() {
		var entry model.AttendanceEntry
		var checkIn, checkOut sql.NullTime
		var notes, deviceID sql.NullString
		if err := rows.Scan(
			&entry.UniqueID, &entry.Date, &checkIn, &checkOut,
			&entry.WorkingHours, &entry.Status, &deviceID, &notes,
		); err != nil {
			return nil, err
		}
		if checkIn.Valid {
			entry.CheckIn = &checkIn.Time
		}
		if checkOut.Valid {
			entry.CheckOut = &checkOut.Time
		}
		entry.DeviceID = deviceID.String
		entry.Notes = notes.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountAttendanceByStatus counts ledger entries with a status on one day.
func (r *AttendanceRepository) CountAttendanceByStatus(ctx context.Context, date time.Time, status model.AttendanceStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM attendance_entries WHERE date = $1 AND status = $2`

	var count int64
	err := r.DB.QueryRowContext(ctx, query, date, status).Scan(&count)
	return count, err
}

// GetSalaryRecord fetches the record for one (user, month, year) key.
// Returns (nil, nil) when no record exists.
func (r *AttendanceRepository) GetSalaryRecord(ctx context.Context, uniqueID string, month, year int) (*model.SalaryRecord, error) {
	query := `SELECT unique_id, month, year, base_salary, total_working_days, actual_working_days,
                     total_working_hours, actual_working_hours, hourly_rate, final_salary, attendance_rate,
                     bonus, deductions, status, notes, generated_at, finalized_at, paid_at
              FROM salary_records
              WHERE unique_id = $1 AND month = $2 AND year = $3`

	record := &model.SalaryRecord{}
	var notes sql.NullString
	var finalizedAt, paidAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, uniqueID, month, year).Scan(
		&record.UniqueID, &record.Month, &record.Year, &record.BaseSalary,
		&record.TotalWorkingDays, &record.ActualWorkingDays,
		&record.TotalWorkingHours, &record.ActualWorkingHours,
		&record.HourlyRate, &record.FinalSalary, &record.AttendanceRate,
		&record.Bonus, &record.Deductions, &record.Status, &notes,
		&record.GeneratedAt, &finalizedAt, &paidAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if finalizedAt.Valid {
		record.FinalizedAt = &finalizedAt.Time
	}
	if paidAt.Valid {
		record.PaidAt = &paidAt.Time
	}
	record.Notes = notes.String
	return record, nil
}

// SaveDraftSalary upserts a draft salary record. The conflict clause only
// replaces rows that are still drafts, so a finalized or paid record can
// never be overwritten; that case surfaces as ErrStateConflict.
func (r *AttendanceRepository) SaveDraftSalary(ctx context.Context, record *model.SalaryRecord) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.uniqueId", record.UniqueID))

	query := `INSERT INTO salary_records (unique_id, month, year, base_salary, total_working_days, actual_working_days,
                                          total_working_hours, actual_working_hours, hourly_rate, final_salary, attendance_rate,
                                          bonus, deductions, status, notes, generated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
              ON CONFLICT (unique_id, month, year) DO UPDATE
              SET base_salary = EXCLUDED.base_salary,
                  total_working_days = EXCLUDED.total_working_days,
                  actual_working_days = EXCLUDED.actual_working_days,
                  total_working_hours = EXCLUDED.total_working_hours,
                  actual_working_hours = EXCLUDED.actual_working_hours,
                  hourly_rate = EXCLUDED.hourly_rate,
                  final_salary = EXCLUDED.final_salary,
                  attendance_rate = EXCLUDED.attendance_rate,
                  generated_at = EXCLUDED.generated_at
              WHERE salary_records.status = 'draft'`

	res, err := r.DB.ExecContext(ctx, query,
		record.UniqueID, record.Month, record.Year, record.BaseSalary,
		record.TotalWorkingDays, record.ActualWorkingDays,
		record.TotalWorkingHours, record.ActualWorkingHours,
		record.HourlyRate, record.FinalSalary, record.AttendanceRate,
		record.Bonus, record.Deductions, record.Status, record.Notes, record.GeneratedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrStateConflict
	}
	return nil
}

// UpdateSalaryStatus records a lifecycle transition together with its timestamp.
func (r *AttendanceRepository) UpdateSalaryStatus(ctx context.Context, uniqueID string, month, year int, status model.SalaryStatus, at time.Time) error {
	var query string
	switch status {
	case model.SalaryFinalized:
		query = `UPDATE salary_records SET status = $1, finalized_at = $2 WHERE unique_id = $3 AND month = $4 AND year = $5`
	case model.SalaryPaid:
		query = `UPDATE salary_records SET status = $1, paid_at = $2 WHERE unique_id = $3 AND month = $4 AND year = $5`
	default:
		query = `UPDATE salary_records SET status = $1, generated_at = $2 WHERE unique_id = $3 AND month = $4 AND year = $5`
	}

	_, err := r.DB.ExecContext(ctx, query, status, at, uniqueID, month, year)
	return err
}
