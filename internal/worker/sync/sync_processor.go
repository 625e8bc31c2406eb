package sync

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// SyncProcessor handles jobs from the sync queue by running one full
// reconciliation pass against the terminal. A circuit breaker keeps the
// worker from hammering an unreachable device.
type SyncProcessor struct {
	service  *core.SyncService
	producer messaging.EventProducer
	cb       *gobreaker.CircuitBreaker
}

// NewProcessor creates a new processor for the sync queue. It sets up a
// circuit breaker to protect the device gateway from being overwhelmed.
func NewProcessor(service *core.SyncService, producer messaging.EventProducer) *SyncProcessor {
	settings := gobreaker.Settings{
		Name:        "Device-Gateway",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger then 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &SyncProcessor{
		service:  service,
		producer: producer,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

// Process runs the sync for one queued request. Device-unavailable outcomes
// retry with exponential backoff; a run already in flight retries shortly;
// malformed messages are dropped.
func (p *SyncProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.SyncRequestedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal sync request")
		return false, 0, err // Do not retry on malformed message
	}

	log.Ctx(ctx).Info().Str("device_id", event.DeviceID).Msg("Processing sync request")

	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.service.RunSync(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit Breaker is OPEN; skipping device sync")
			return true, 60, err
		}
		if errors.Is(err, model.ErrSyncInFlight) {
			// Another run owns the device session; try again shortly.
			return true, 15, err
		}

		retryCount := receiveCount(msg)
		return true, calculateBackoff(retryCount), err
	}

	report := result.(*model.SyncReport)
	completed := messaging.SyncCompletedEvent{
		DeviceID:      report.DeviceID,
		TotalLogs:     report.TotalLogs,
		ProcessedLogs: report.ProcessedLogs,
		SkippedLogs:   report.SkippedLogs,
		Errors:        report.Errors,
		CompletedAt:   report.Timestamp,
	}
	if err := p.producer.PublishSyncReport(ctx, completed); err != nil {
		// The ledger is already durable; losing the report event is logged
		// but does not fail the job.
		log.Ctx(ctx).Error().Err(err).Msg("Failed to publish sync report")
	}

	return false, 0, nil
}

// receiveCount reads the approximate delivery attempt from the message
// system attributes so the backoff grows across redeliveries.
func receiveCount(msg types.Message) int {
	value, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	count := 0
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return 1
		}
		count = count*10 + int(ch-'0')
	}
	if count < 1 {
		return 1
	}
	return count
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600 // max at 1 hour
	}
	return backoff
}
