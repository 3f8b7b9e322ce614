package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/model"
)

const (
	subjectSubmissionCreated = "submission.created"
	subjectSubmissionUpdated = "submission.updated"
	subjectSubmissionAll     = "submission.*"
)

// Client-facing event names, kept compatible with the dashboard consumers.
const (
	EventNewSubmission     = "new-submission"
	EventSubmissionUpdated = "submission-updated"
)

// SubmissionEvent is the payload published on the submission subjects. The
// channel is best-effort: consumers treat events as refresh hints, not as the
// authoritative record.
type SubmissionEvent struct {
	Event      string            `json:"event"`
	Submission *model.Submission `json:"submission"`
}

type NATSClient interface {
	PublishSubmissionCreated(ctx context.Context, submission *model.Submission) error
	PublishSubmissionUpdated(ctx context.Context, submission *model.Submission) error
	SubscribeToSubmissionEvents(ctx context.Context, handler func(*SubmissionEvent)) error
	Close()
}

type natsClient struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSClient(url string, logger *zap.Logger) (NATSClient, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("connected to NATS", zap.String("url", url))
	return &natsClient{
		conn:   conn,
		logger: logger,
	}, nil
}

func (c *natsClient) PublishSubmissionCreated(ctx context.Context, submission *model.Submission) error {
	return c.publish(subjectSubmissionCreated, EventNewSubmission, submission)
}

func (c *natsClient) PublishSubmissionUpdated(ctx context.Context, submission *model.Submission) error {
	return c.publish(subjectSubmissionUpdated, EventSubmissionUpdated, submission)
}

func (c *natsClient) publish(subject, event string, submission *model.Submission) error {
	data, err := json.Marshal(SubmissionEvent{Event: event, Submission: submission})
	if err != nil {
		c.logger.Error("failed to marshal submission event", zap.Error(err))
		return fmt.Errorf("failed to marshal submission event: %w", err)
	}

	if err := c.conn.Publish(subject, data); err != nil {
		c.logger.Error("failed to publish submission event",
			zap.Error(err), zap.String("subject", subject), zap.String("submission_id", submission.ID))
		return fmt.Errorf("failed to publish submission event: %w", err)
	}

	c.logger.Info("submission event published",
		zap.String("subject", subject), zap.String("submission_id", submission.ID))
	return nil
}

func (c *natsClient) SubscribeToSubmissionEvents(ctx context.Context, handler func(*SubmissionEvent)) error {
	_, err := c.conn.Subscribe(subjectSubmissionAll, func(msg *nats.Msg) {
		var event SubmissionEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			c.logger.Error("failed to unmarshal submission event", zap.Error(err))
			return
		}
		if event.Submission == nil {
			c.logger.Error("discarding submission event without a payload",
				zap.String("subject", msg.Subject), zap.String("event", event.Event))
			return
		}

		handler(&event)
		c.logger.Debug("submission event processed",
			zap.String("event", event.Event), zap.String("submission_id", event.Submission.ID))
	})

	if err != nil {
		c.logger.Error("failed to subscribe to submission events", zap.Error(err))
		return fmt.Errorf("failed to subscribe to submission events: %w", err)
	}

	c.logger.Info("subscribed to submission events")
	return nil
}

func (c *natsClient) Close() {
	if c.conn != nil {
		c.conn.Close()
		c.logger.Info("NATS connection closed")
	}
}
