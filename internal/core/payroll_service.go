package core

import (
	"context"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"github.com/rs/zerolog/log"
)

// PayrollService generates and advances persisted salary records. The
// calculation itself is delegated to the pure SalaryCalculator; this service
// adds the (user, month, year) keyed persistence and the forward-only
// draft -> finalized -> paid lifecycle.
type PayrollService struct {
	repo repository.Repository
	calc *SalaryCalculator
}

func NewPayrollService(repo repository.Repository, calc *SalaryCalculator) *PayrollService {
	return &PayrollService{repo: repo, calc: calc}
}

// GenerateMonthlySalary computes a draft salary record for one user and
// month from the committed ledger. Regenerating over an existing draft
// replaces it; a finalized or paid record is never touched.
func (s *PayrollService) GenerateMonthlySalary(ctx context.Context, uniqueID string, month, year int) (*model.SalaryRecord, error) {
	user, err := s.repo.GetUserByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, fmt.Errorf("looking up user %s: %w", uniqueID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", uniqueID, model.ErrNotFound)
	}

	existing, err := s.repo.GetSalaryRecord(ctx, uniqueID, month, year)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != model.SalaryDraft {
		return nil, fmt.Errorf("%w: %s %d/%d is %s", model.ErrStateConflict, uniqueID, month, year, existing.Status)
	}

	entries, err := s.repo.ListAttendanceForMonth(ctx, uniqueID, month, year)
	if err != nil {
		return nil, fmt.Errorf("loading ledger for %s: %w", uniqueID, err)
	}

	calculation, err := s.calc.CalculateMonthlySalary(user, entries, month, year)
	if err != nil {
		return nil, err
	}

	record := &model.SalaryRecord{
		UniqueID:           uniqueID,
		Month:              month,
		Year:               year,
		BaseSalary:         calculation.BaseSalary,
		TotalWorkingDays:   calculation.TotalWorkingDays,
		ActualWorkingDays:  calculation.ActualWorkingDays,
		TotalWorkingHours:  calculation.TotalWorkingHours,
		ActualWorkingHours: calculation.ActualWorkingHours,
		HourlyRate:         calculation.HourlyRate,
		FinalSalary:        calculation.FinalSalary,
		AttendanceRate:     calculation.AttendanceRate,
		Status:             model.SalaryDraft,
		GeneratedAt:        time.Now().UTC(),
	}

	if err := s.repo.SaveDraftSalary(ctx, record); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("unique_id", uniqueID).
		Int("month", month).
		Int("year", year).
		Float64("final_salary", record.FinalSalary).
		Msg("Generated draft salary record")
	return record, nil
}

// GetSalary fetches one salary record.
func (s *PayrollService) GetSalary(ctx context.Context, uniqueID string, month, year int) (*model.SalaryRecord, error) {
	record, err := s.repo.GetSalaryRecord(ctx, uniqueID, month, year)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("salary %s %d/%d: %w", uniqueID, month, year, model.ErrNotFound)
	}
	return record, nil
}

// FinalizeSalary advances a draft record to finalized.
func (s *PayrollService) FinalizeSalary(ctx context.Context, uniqueID string, month, year int) error {
	return s.transition(ctx, uniqueID, month, year, model.SalaryDraft, model.SalaryFinalized)
}

// MarkSalaryPaid advances a finalized record to paid.
func (s *PayrollService) MarkSalaryPaid(ctx context.Context, uniqueID string, month, year int) error {
	return s.transition(ctx, uniqueID, month, year, model.SalaryFinalized, model.SalaryPaid)
}

// transition enforces the single forward direction of the lifecycle: each
// stage is only reachable from the one before it.
func (s *PayrollService) transition(ctx context.Context, uniqueID string, month, year int, from, to model.SalaryStatus) error {
	record, err := s.repo.GetSalaryRecord(ctx, uniqueID, month, year)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("salary %s %d/%d: %w", uniqueID, month, year, model.ErrNotFound)
	}
	if record.Status != from {
		return fmt.Errorf("%w: cannot move %s record to %s", model.ErrStateConflict, record.Status, to)
	}

	return s.repo.UpdateSalaryStatus(ctx, uniqueID, month, year, to, time.Now().UTC())
}
