package events

import (
	"context"
	"fmt"

	"carrental/pkg/kafka"
)

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher writes events keyed by vehicle id so every event for one
// vehicle lands on the same partition in order.
type KafkaPublisher struct {
	producer messagePublisher
	source   string
}

func NewKafkaPublisher(producer messagePublisher, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	key := event.VehicleID
	if key == "" {
		key = event.BookingID
	}
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(string(event.Type)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// Decode turns a consumed message back into a BookingEvent. Malformed or
// unknown events are permanent failures.
func Decode(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return BookingEvent{}, kafka.NewPermanentError("decode booking event", err)
	}
	if !event.Type.IsValid() {
		return BookingEvent{}, kafka.NewPermanentError(fmt.Sprintf("unknown event type %q", event.Type), nil)
	}
	return event, nil
}

// KafkaHandler adapts h to a kafka.MessageHandler.
func KafkaHandler(h Handler) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		event, err := Decode(msg)
		if err != nil {
			return err
		}
		return h(ctx, event)
	}
}
