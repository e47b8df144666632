package kafkamiddleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"carrental/pkg/kafka"
	"carrental/pkg/logger"
	"carrental/pkg/metrics"

	"github.com/stretchr/testify/assert"
)

func TestLoggingConsumerMiddleware_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})

	mw := LoggingConsumerMiddleware(log)
	msg := kafka.Message{Topic: "bookings", Headers: map[string]string{kafka.HeaderEventType: "booking.created"}}
	err := mw(context.Background(), msg, func(context.Context, kafka.Message) error {
		return errors.New("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.Contains(t, buf.String(), "Failed to process message")
	assert.Contains(t, buf.String(), "booking.created")
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	m := metrics.New()
	msg := kafka.Message{Headers: map[string]string{kafka.HeaderEventType: "booking.deleted"}}

	called := false
	err := MetricsProducerMiddleware(m)(context.Background(), msg, func(context.Context, kafka.Message) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	err = MetricsConsumerMiddleware(nil)(context.Background(), msg, func(context.Context, kafka.Message) error {
		return errors.New("x")
	})
	assert.Error(t, err)
}
