package model

import (
	"time"
)

// EventKind identifies the kind of punch reported by the biometric terminal.
type EventKind string

const (
	KindCheckIn     EventKind = "CHECK_IN"
	KindCheckOut    EventKind = "CHECK_OUT"
	KindBreakOut    EventKind = "BREAK_OUT"
	KindBreakIn     EventKind = "BREAK_IN"
	KindOvertimeIn  EventKind = "OVERTIME_IN"
	KindOvertimeOut EventKind = "OVERTIME_OUT"
)

// deviceKindCodes maps the numeric attendance type reported on the wire by
// ZKTeco terminals to a typed kind. Only 0 and 1 affect computed state; the
// break and overtime kinds are captured but not used for hour computation.
var deviceKindCodes = map[int]EventKind{
	0: KindCheckIn,
	1: KindCheckOut,
	2: KindBreakOut,
	3: KindBreakIn,
	4: KindOvertimeIn,
	5: KindOvertimeOut,
}

// KindFromDeviceCode resolves a device attendance-type code to an EventKind.
func KindFromDeviceCode(code int) (EventKind, bool) {
	kind, ok := deviceKindCodes[code]
	return kind, ok
}

// CheckEvent is one normalized punch from the terminal. Events are ephemeral:
// they are folded into the attendance ledger and then discarded.
type CheckEvent struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"kind"`
	DeviceID  string    `json:"deviceId"`
}

// AttendanceStatus is the derived state of one ledger day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusPartial AttendanceStatus = "partial"
	StatusOff     AttendanceStatus = "off"
)

// SalaryStatus is the lifecycle stage of a salary record. Transitions are
// strictly forward: draft -> finalized -> paid.
type SalaryStatus string

const (
	SalaryDraft     SalaryStatus = "draft"
	SalaryFinalized SalaryStatus = "finalized"
	SalaryPaid      SalaryStatus = "paid"
)

// User carries the contract terms payroll needs: a stable device-facing
// identifier, a monthly base salary and the number of off days per month.
type User struct {
	UniqueID          string    `json:"uniqueId"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	MonthlySalary     float64   `json:"monthlySalary"`
	MonthlyOffDays    int       `json:"monthlyOffDays"`
	IsActive          bool      `json:"isActive"`
	BiometricEnrolled bool      `json:"biometricEnrolled"`
	CreatedAt         time.Time `json:"createdAt"`
}

// AttendanceEntry is one row of the ledger: at most one per (user, date).
// Date is truncated to day granularity in the system time zone.
type AttendanceEntry struct {
	UniqueID     string           `json:"uniqueId"`
	Date         time.Time        `json:"date"`
	CheckIn      *time.Time       `json:"checkIn,omitempty"`
	CheckOut     *time.Time       `json:"checkOut,omitempty"`
	WorkingHours float64          `json:"workingHours"`
	Status       AttendanceStatus `json:"status"`
	DeviceID     string           `json:"deviceId,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// SalaryRecord is the persisted payroll result for one (user, month, year).
type SalaryRecord struct {
	UniqueID           string       `json:"uniqueId"`
	Month              int          `json:"month"`
	Year               int          `json:"year"`
	BaseSalary         float64      `json:"baseSalary"`
	TotalWorkingDays   int          `json:"totalWorkingDays"`
	ActualWorkingDays  int          `json:"actualWorkingDays"`
	TotalWorkingHours  float64      `json:"totalWorkingHours"`
	ActualWorkingHours float64      `json:"actualWorkingHours"`
	HourlyRate         float64      `json:"hourlyRate"`
	FinalSalary        float64      `json:"finalSalary"`
	AttendanceRate     float64      `json:"attendanceRate"`
	Bonus              float64      `json:"bonus"`
	Deductions         float64      `json:"deductions"`
	Status             SalaryStatus `json:"status"`
	Notes              string       `json:"notes,omitempty"`
	GeneratedAt        time.Time    `json:"generatedAt"`
	FinalizedAt        *time.Time   `json:"finalizedAt,omitempty"`
	PaidAt             *time.Time   `json:"paidAt,omitempty"`
}

// SyncReport summarizes one reconciliation pass over the device buffer.
type SyncReport struct {
	DeviceID      string    `json:"deviceId"`
	TotalLogs     int       `json:"totalLogs"`
	ProcessedLogs int       `json:"processedLogs"`
	SkippedLogs   int       `json:"skippedLogs"`
	Errors        int       `json:"errors"`
	Timestamp     time.Time `json:"timestamp"`
}
