package application

import (
	"context"

	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"go.uber.org/zap"
)

// EventPublisher publishes lifecycle events. *messaging.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, ce messaging.CloudEvent) error
}

// NopPublisher discards every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, messaging.CloudEvent) error {
	return nil
}

// emitter publishes after a successful write. Publishing is best effort: a
// failure is logged and counted but never fails the operation that caused it.
type emitter struct {
	publisher EventPublisher
	logger    *zap.Logger
	metrics   *metrics.Recorder
}

func (e emitter) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if e.publisher == nil {
		return
	}
	ce, err := messaging.NewCloudEvent(messaging.Source, eventType, key, data)
	if err != nil {
		e.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		e.metrics.Event("publish", eventType, "error")
		return
	}

	if err := e.publisher.PublishEvent(ctx, messaging.TopicCatalogueEvents, key, ce); err != nil {
		e.logger.Error("failed to publish event",
			zap.String("topic", messaging.TopicCatalogueEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		e.metrics.Event("publish", eventType, "error")
		return
	}
	e.metrics.Event("publish", eventType, "ok")
}
