package core

import (
	"context"
	"fmt"

	"attendance.service/internal/ports/messaging"
	"attendance.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type EmailService interface {
	SendSyncReport(ctx context.Context, to string, report messaging.SyncCompletedEvent) error
}

type SESEmailService struct {
	client *ses.Client
	sender string
}

func NewSESEmailService(client *ses.Client, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

// SendSyncReport mails the admin a summary of one reconciliation pass.
func (s *SESEmailService) SendSyncReport(ctx context.Context, to string, report messaging.SyncCompletedEvent) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if deviceID := telemetry.GetDeviceIDFromContext(ctx); deviceID != "" {
		span.SetAttributes(attribute.String("app.deviceId", deviceID))
	}

	body := fmt.Sprintf(
		"Hello,\n\nAttendance sync for device %s completed at %s.\n\nTotal logs: %d\nProcessed: %d\nSkipped (unknown users): %d\nErrors: %d\n",
		report.DeviceID, report.CompletedAt.Format("2006-01-02 15:04:05 MST"),
		report.TotalLogs, report.ProcessedLogs, report.SkippedLogs, report.Errors)

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Attendance Sync Report"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}
