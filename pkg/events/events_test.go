package events

import (
	"context"
	"errors"
	"testing"

	"carrental/pkg/kafka"
	"carrental/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	msgs []kafka.Message
	err  error
}

func (c *capturePublisher) Publish(_ context.Context, msg kafka.Message) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:            "b1",
		UserID:        "u1",
		VehicleID:     "v1",
		Status:        model.BookingPending,
		PaymentStatus: model.PaymentPending,
	}
}

func TestKafkaPublisher_RoundTrip(t *testing.T) {
	producer := &capturePublisher{}
	pub := NewKafkaPublisher(producer, "car-rental-api")

	event := NewBookingEvent(BookingCreated, sampleBooking())
	require.NoError(t, pub.Publish(context.Background(), event))
	require.Len(t, producer.msgs, 1)

	msg := producer.msgs[0]
	assert.Equal(t, "v1", msg.Key)
	assert.Equal(t, string(BookingCreated), msg.GetEventType())
	assert.Equal(t, event.ID, msg.GetEventID())

	var got BookingEvent
	var handled bool
	err := KafkaHandler(func(_ context.Context, e BookingEvent) error {
		got = e
		handled = true
		return nil
	})(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "b1", got.BookingID)
	assert.Equal(t, model.BookingPending, got.Status)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(kafka.Message{Value: []byte("{")})
	require.Error(t, err)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	_, err = Decode(kafka.Message{Value: []byte(`{"type":"vehicle.created"}`)})
	require.Error(t, err)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
}

func TestInProcessPublisher_JoinsErrors(t *testing.T) {
	var calls int
	pub := NewInProcessPublisher(func(context.Context, BookingEvent) error {
		calls++
		return errors.New("first")
	})
	pub.Subscribe(func(context.Context, BookingEvent) error {
		calls++
		return nil
	})

	err := pub.Publish(context.Background(), NewBookingEvent(BookingDeleted, sampleBooking()))
	assert.EqualError(t, err, "first")
	assert.Equal(t, 2, calls)
}

func TestByAdmin(t *testing.T) {
	e := NewBookingEvent(BookingStatusChanged, sampleBooking())
	assert.False(t, e.ByAdmin())
	e.ActorRole = model.RoleAdmin
	assert.True(t, e.ByAdmin())
}
