package core

import (
	"context"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/device"
	"attendance.service/internal/ports/repository"
	"github.com/rs/zerolog/log"
)

// UserService manages user registration and the matching enrollment on the
// biometric terminal. Device enrollment is best-effort: a registration never
// fails because the terminal was unreachable.
type UserService struct {
	repo   repository.Repository
	device device.Client
}

func NewUserService(repo repository.Repository, deviceClient device.Client) *UserService {
	return &UserService{repo: repo, device: deviceClient}
}

// RegisterUser stores a new user and, when asked, pushes their enrollment to
// the terminal.
func (s *UserService) RegisterUser(ctx context.Context, user *model.User, enrollBiometric bool) (*model.User, error) {
	user.IsActive = true
	user.BiometricEnrolled = false
	user.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if enrollBiometric {
		if err := s.enrollOnDevice(ctx, user.UniqueID, user.Name); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("unique_id", user.UniqueID).Msg("Biometric enrollment failed")
		} else {
			user.BiometricEnrolled = true
			if err := s.repo.SetBiometricEnrolled(ctx, user.UniqueID, true); err != nil {
				log.Ctx(ctx).Error().Err(err).Msg("Failed to persist enrollment flag")
			}
		}
	}

	return user, nil
}

// RemoveUser deletes a user and, best-effort, their terminal enrollment.
func (s *UserService) RemoveUser(ctx context.Context, uniqueID string) error {
	user, err := s.repo.GetUserByUniqueID(ctx, uniqueID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", uniqueID, model.ErrNotFound)
	}

	if user.BiometricEnrolled {
		if err := s.deleteFromDevice(ctx, uniqueID); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("unique_id", uniqueID).Msg("Could not delete user from device")
		}
	}

	return s.repo.DeleteUser(ctx, uniqueID)
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// DashboardStats is the summary shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	ActiveUsers  int64 `json:"activeUsers"`
	PresentToday int64 `json:"presentToday"`
	PartialToday int64 `json:"partialToday"`
	AbsentToday  int64 `json:"absentToday"`
}

// BuildDashboardStats aggregates user and ledger counts for one day.
func (s *UserService) BuildDashboardStats(ctx context.Context, day time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.repo.CountUsers(ctx, false); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.repo.CountUsers(ctx, true); err != nil {
		return nil, err
	}
	if stats.PresentToday, err = s.repo.CountAttendanceByStatus(ctx, day, model.StatusPresent); err != nil {
		return nil, err
	}
	if stats.PartialToday, err = s.repo.CountAttendanceByStatus(ctx, day, model.StatusPartial); err != nil {
		return nil, err
	}
	if stats.AbsentToday, err = s.repo.CountAttendanceByStatus(ctx, day, model.StatusAbsent); err != nil {
		return nil, err
	}

	return stats, nil
}

// enrollOnDevice opens a short device session for one enrollment call.
func (s *UserService) enrollOnDevice(ctx context.Context, uniqueID, name string) error {
	if err := s.device.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDeviceUnavailable, err)
	}
	defer s.device.Disconnect(ctx)

	return s.device.EnrollUser(ctx, uniqueID, name)
}

func (s *UserService) deleteFromDevice(ctx context.Context, uniqueID string) error {
	if err := s.device.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDeviceUnavailable, err)
	}
	defer s.device.Disconnect(ctx)

	return s.device.DeleteUser(ctx, uniqueID)
}
