package core

import (
	"fmt"
	"math"
	"time"

	"attendance.service/internal/core/model"
)

// standardWorkingHours is the contracted length of one working day.
const standardWorkingHours = 8.0

// SalaryCalculation is the complete payroll result for one (user, month).
type SalaryCalculation struct {
	BaseSalary         float64 `json:"baseSalary"`
	TotalWorkingDays   int     `json:"totalWorkingDays"`
	ActualWorkingDays  int     `json:"actualWorkingDays"`
	TotalWorkingHours  float64 `json:"totalWorkingHours"`
	ActualWorkingHours float64 `json:"actualWorkingHours"`
	HourlyRate         float64 `json:"hourlyRate"`
	FinalSalary        float64 `json:"finalSalary"`
	AttendanceRate     float64 `json:"attendanceRate"`
}

// SalaryCalculator derives monthly payroll figures from a user's contract
// terms and their attendance ledger. It is pure and stateless; it may run
// concurrently for any number of (user, month) pairs.
type SalaryCalculator struct{}

func NewSalaryCalculator() *SalaryCalculator {
	return &SalaryCalculator{}
}

// CalculateMonthlySalary computes the payroll figures for one month of
// ledger entries. Days with no entry contribute nothing. It either returns
// a complete result or a single domain error, never a partial record.
func (c *SalaryCalculator) CalculateMonthlySalary(user *model.User, entries []model.AttendanceEntry, month, year int) (*SalaryCalculation, error) {
	daysInMonth := c.DaysInMonth(month, year)
	totalWorkingDays := daysInMonth - user.MonthlyOffDays
	totalWorkingHours := float64(totalWorkingDays) * standardWorkingHours

	if totalWorkingHours <= 0 {
		return nil, fmt.Errorf("%w: %d off days in a %d day month",
			model.ErrInvalidWorkingDays, user.MonthlyOffDays, daysInMonth)
	}

	hourlyRate := user.MonthlySalary / totalWorkingHours

	var actualWorkingHours float64
	var actualWorkingDays int
	for _, entry := range entries {
		if entry.Status != model.StatusPresent && entry.Status != model.StatusPartial {
			continue
		}
		actualWorkingHours += entry.WorkingHours
		if entry.WorkingHours > 0 {
			actualWorkingDays++
		}
	}

	// Final salary rounds half-up to a whole currency unit; the rate is
	// rounded for display only, the unrounded value feeds the salary.
	finalSalary := math.Round(actualWorkingHours * hourlyRate)

	attendanceRate := 0.0
	if totalWorkingDays > 0 {
		attendanceRate = float64(actualWorkingDays) / float64(totalWorkingDays) * 100
	}

	return &SalaryCalculation{
		BaseSalary:         user.MonthlySalary,
		TotalWorkingDays:   totalWorkingDays,
		ActualWorkingDays:  actualWorkingDays,
		TotalWorkingHours:  totalWorkingHours,
		ActualWorkingHours: roundTo2(actualWorkingHours),
		HourlyRate:         roundTo2(hourlyRate),
		FinalSalary:        finalSalary,
		AttendanceRate:     roundTo2(attendanceRate),
	}, nil
}

// WorkingHoursBetween returns the hours between a check-in and a check-out,
// clamped to [0, 24] so an inverted pair can never yield negative hours.
func (c *SalaryCalculator) WorkingHoursBetween(checkIn, checkOut time.Time) float64 {
	hours := checkOut.Sub(checkIn).Hours()
	return math.Max(0, math.Min(24, hours))
}

// DaysInMonth returns the calendar day count for (month, year), leap years
// included.
func (c *SalaryCalculator) DaysInMonth(month, year int) int {
	// Day 0 of the following month normalizes to this month's last day.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WorkingDaysInMonth returns the contracted working days for the month,
// floored at zero.
func (c *SalaryCalculator) WorkingDaysInMonth(month, year, offDays int) int {
	workingDays := c.DaysInMonth(month, year) - offDays
	if workingDays < 0 {
		return 0
	}
	return workingDays
}

// OvertimeHours returns the hours worked beyond the standard day.
func (c *SalaryCalculator) OvertimeHours(workingHours, standardHours float64) float64 {
	return math.Max(0, workingHours-standardHours)
}

// OvertimePay prices overtime hours at the given multiplier of the rate.
func (c *SalaryCalculator) OvertimePay(overtimeHours, hourlyRate, multiplier float64) float64 {
	return overtimeHours * hourlyRate * multiplier
}

func roundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}
