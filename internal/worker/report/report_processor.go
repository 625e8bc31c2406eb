package report

import (
	"context"
	"encoding/json"
	"math"

	"attendance.service/internal/core"
	"attendance.service/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
)

// ReportProcessor handles jobs from the report queue: each message is one
// completed sync run whose summary is mailed to the admin.
type ReportProcessor struct {
	emailService core.EmailService
	adminEmail   string
}

// NewProcessor sets up a new processor for handling report jobs.
func NewProcessor(emailService core.EmailService, adminEmail string) *ReportProcessor {
	return &ReportProcessor{
		emailService: emailService,
		adminEmail:   adminEmail,
	}
}

// Process mails one sync summary and tells the worker to retry on failure.
func (p *ReportProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.SyncCompletedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal sync report event")
		return false, 0, err // Do not retry on malformed message
	}

	if err := p.emailService.SendSyncReport(ctx, p.adminEmail, event); err != nil {
		return true, calculateBackoff(receiveCount(msg)), err
	}

	log.Ctx(ctx).Info().Str("device_id", event.DeviceID).Msg("Sync report mailed")
	return false, 0, nil
}

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
// It increases the delay exponentially with each retry to avoid overwhelming
// a struggling mail service.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 { // Cap at 1 hour
		return 3600
	}
	return backoff
}
