package kafkamiddleware

import (
	"context"

	"carrental/pkg/kafka"
	"carrental/pkg/metrics"
)

// MetricsProducerMiddleware counts publishes per event type.
func MetricsProducerMiddleware(m *metrics.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		err := next(ctx, msg)
		m.EventPublished(msg.GetEventType(), err)
		return err
	}
}

// MetricsConsumerMiddleware counts handler invocations per event type,
// retries included.
func MetricsConsumerMiddleware(m *metrics.Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		err := next(ctx, msg)
		m.EventConsumed(msg.GetEventType(), err)
		return err
	}
}
