package events

import (
	"context"

	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MembershipApplier applies identity-subsystem membership changes.
// *application.MembershipService satisfies it.
type MembershipApplier interface {
	Grant(ctx context.Context, g application.MembershipGrant) error
	Revoke(ctx context.Context, userID, organisationID uint) error
}

// MembershipEventConsumer listens to membership events and mirrors them
// into the catalogue.
type MembershipEventConsumer struct {
	consumer *messaging.Consumer
	service  MembershipApplier
	metrics  *metrics.Recorder
	logger   *zap.Logger
}

// NewMembershipEventConsumer creates a new MembershipEventConsumer.
func NewMembershipEventConsumer(
	brokers []string,
	groupID string,
	service MembershipApplier,
	rec *metrics.Recorder,
	logger *zap.Logger,
) *MembershipEventConsumer {
	consumer := messaging.NewConsumer(brokers, groupID, messaging.TopicMembershipEvents, logger)
	return newMembershipEventConsumer(consumer, service, rec, logger)
}

func newMembershipEventConsumer(
	consumer *messaging.Consumer,
	service MembershipApplier,
	rec *metrics.Recorder,
	logger *zap.Logger,
) *MembershipEventConsumer {
	return &MembershipEventConsumer{
		consumer: consumer,
		service:  service,
		metrics:  rec,
		logger:   logger,
	}
}

// Start begins consuming membership events. This blocks until the context
// is cancelled.
func (c *MembershipEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *MembershipEventConsumer) Close() error {
	return c.consumer.Close()
}

// handleMessage returns an error only for failures worth redelivering.
// Malformed messages and business rejections are logged and skipped.
func (c *MembershipEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := messaging.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from membership topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		c.metrics.Event("consume", "unknown", "malformed")
		return nil
	}

	switch ce.Type {
	case messaging.MembershipGranted, messaging.MembershipRevoked:
	default:
		c.logger.Debug("ignoring unhandled membership event type",
			zap.String("type", ce.Type),
		)
		c.metrics.Event("consume", ce.Type, "ignored")
		return nil
	}

	var evt messaging.MembershipEvent
	if err := ce.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse MembershipEvent data",
			zap.String("event_id", ce.ID),
			zap.Error(err),
		)
		c.metrics.Event("consume", ce.Type, "malformed")
		return nil
	}

	if ce.Type == messaging.MembershipGranted {
		err = c.service.Grant(ctx, application.MembershipGrant{
			UserID:         evt.UserID,
			OrganisationID: evt.OrganisationID,
			Username:       evt.Username,
			FirstName:      evt.FirstName,
			LastName:       evt.LastName,
		})
	} else {
		err = c.service.Revoke(ctx, evt.UserID, evt.OrganisationID)
	}

	if err != nil {
		if isPermanent(err) {
			c.logger.Warn("membership event rejected",
				zap.String("type", ce.Type),
				zap.String("event_id", ce.ID),
				zap.Uint("user_id", evt.UserID),
				zap.Uint("organisation_id", evt.OrganisationID),
				zap.Error(err),
			)
			c.metrics.Event("consume", ce.Type, "rejected")
			return nil
		}
		c.metrics.Event("consume", ce.Type, "error")
		return err
	}

	c.logger.Info("membership event applied",
		zap.String("type", ce.Type),
		zap.Uint("user_id", evt.UserID),
		zap.Uint("organisation_id", evt.OrganisationID),
	)
	c.metrics.Event("consume", ce.Type, "ok")
	return nil
}

// isPermanent reports errors that redelivery cannot fix.
func isPermanent(err error) bool {
	return domain.IsValidation(err) ||
		domain.IsConstraintViolation(err) ||
		domain.IsNotFound(err)
}
