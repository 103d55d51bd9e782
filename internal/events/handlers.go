package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/clinicdesk/receptionist/internal/notify"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// sqsAPI is the slice of the SQS client the publisher needs.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher forwards outbox entries to an SQS queue for downstream
// consumers (reminder workers, reporting pipelines).
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
}

func NewSQSPublisher(client *sqs.Client, queueURL string) *SQSPublisher {
	if client == nil {
		panic("events: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("events: SQS queueURL cannot be empty")
	}
	return &SQSPublisher{client: client, queueURL: queueURL}
}

// NewSQSPublisherWithAPI allows injecting a fake client for testing.
func NewSQSPublisherWithAPI(client sqsAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL}
}

func (p *SQSPublisher) Handle(ctx context.Context, entry OutboxEntry) error {
	_, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(entry.Payload)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(entry.Type),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("events: publish to SQS: %w", err)
	}
	return nil
}

// EmailNotifier turns appointment events into patient emails. Unknown event
// types are skipped, not failed, so new types never wedge the outbox.
type EmailNotifier struct {
	sender notify.EmailSender
	logger *logging.Logger
}

func NewEmailNotifier(sender notify.EmailSender, logger *logging.Logger) *EmailNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailNotifier{sender: sender, logger: logger}
}

func (n *EmailNotifier) Handle(ctx context.Context, entry OutboxEntry) error {
	if n.sender == nil {
		return nil
	}
	switch entry.Type {
	case TypeAppointmentBooked:
		var evt AppointmentBookedV1
		if err := json.Unmarshal(entry.Payload, &evt); err != nil {
			return fmt.Errorf("events: decode booked event: %w", err)
		}
		return n.sender.Send(ctx, notify.ConfirmationEmail(notify.AppointmentDetails{
			UserEmail:  evt.UserEmail,
			DoctorName: evt.DoctorName,
			Disease:    evt.Disease,
			Time:       evt.Time,
		}))
	case TypeAppointmentCancelled:
		var evt AppointmentCancelledV1
		if err := json.Unmarshal(entry.Payload, &evt); err != nil {
			return fmt.Errorf("events: decode cancelled event: %w", err)
		}
		return n.sender.Send(ctx, notify.CancellationEmail(notify.AppointmentDetails{
			UserEmail:  evt.UserEmail,
			DoctorName: evt.DoctorName,
			Time:       evt.Time,
		}))
	default:
		n.logger.Debug("skipping event type without email template", "type", entry.Type)
		return nil
	}
}

// Fanout runs every handler for each entry and joins their failures, so one
// slow transport does not hide another's error.
type Fanout []DeliveryHandler

func (f Fanout) Handle(ctx context.Context, entry OutboxEntry) error {
	var errs []error
	for _, h := range f {
		if err := h.Handle(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogHandler records events and nothing else; the delivery path of last
// resort when no queue or email transport is configured.
type LogHandler struct {
	logger *logging.Logger
}

func NewLogHandler(logger *logging.Logger) *LogHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogHandler{logger: logger}
}

func (h *LogHandler) Handle(ctx context.Context, entry OutboxEntry) error {
	h.logger.Info("event", "event_id", entry.ID, "type", entry.Type, "payload", string(entry.Payload))
	return nil
}
