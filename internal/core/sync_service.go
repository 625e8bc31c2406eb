package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/device"
	"attendance.service/internal/ports/repository"
	"github.com/rs/zerolog/log"
)

// SyncService drives one reconciliation pass: pull the buffered events from
// the terminal, normalize them, fold them into the ledger and report counts.
type SyncService struct {
	device     device.Client
	repo       repository.Repository
	normalizer *Normalizer
	reconciler *Reconciler
	deviceID   string

	// The device protocol is a single-session conversation, so at most one
	// sync run may be in flight per service instance. A second caller is
	// rejected, never interleaved.
	mu sync.Mutex
}

// NewSyncService creates the orchestrator, wiring up the device client, the
// ledger repository and the two pipeline stages.
func NewSyncService(deviceClient device.Client, repo repository.Repository, normalizer *Normalizer, reconciler *Reconciler, deviceID string) *SyncService {
	return &SyncService{
		device:     deviceClient,
		repo:       repo,
		normalizer: normalizer,
		reconciler: reconciler,
		deviceID:   deviceID,
	}
}

// RunSync executes one full pass. Per-event failures are absorbed into the
// report counts; only a failed device connection or an unreachable store
// aborts the run. The device session is released on every exit path.
func (s *SyncService) RunSync(ctx context.Context) (*model.SyncReport, error) {
	if !s.mu.TryLock() {
		return nil, fmt.Errorf("%w: %s", model.ErrSyncInFlight, s.deviceID)
	}
	defer s.mu.Unlock()

	if err := s.device.Connect(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeviceUnavailable, err)
	}
	defer func() {
		if err := s.device.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Device disconnect failed")
		}
	}()

	rawEvents, err := s.device.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching attendance logs: %v", model.ErrDeviceUnavailable, err)
	}
	log.Ctx(ctx).Info().Int("count", len(rawEvents)).Msg("Fetched attendance logs from device")

	knownUsers, err := s.loadKnownUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading enrolled users: %w", err)
	}

	normalized := s.normalizer.Normalize(rawEvents, knownUsers)

	report := &model.SyncReport{
		DeviceID:    s.deviceID,
		TotalLogs:   len(rawEvents),
		SkippedLogs: normalized.Skipped,
		Errors:      normalized.Errors,
	}

	for _, event := range normalized.Events {
		if err := s.reconciler.Apply(ctx, event); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("user_id", event.UserID).
				Time("timestamp", event.Timestamp).
				Msg("Error reconciling event")
			report.Errors++
			continue
		}
		report.ProcessedLogs++
	}

	// Clearing the device buffer is best-effort cleanup: the ledger is
	// already durable, so a failure here does not fail the sync.
	if err := s.device.ClearEvents(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Could not clear device logs")
	}

	report.Timestamp = time.Now().UTC()
	return report, nil
}

func (s *SyncService) loadKnownUsers(ctx context.Context) (map[string]struct{}, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(users))
	for _, user := range users {
		known[user.UniqueID] = struct{}{}
	}
	return known, nil
}
