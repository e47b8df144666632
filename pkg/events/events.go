// Package events defines the booking lifecycle events emitted after a store
// write succeeds and the publishers that carry them.
package events

import (
	"context"
	"time"

	"carrental/pkg/model"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingStatusChanged Type = "booking.status_changed"
	BookingCancelled     Type = "booking.cancelled"
	BookingDeleted       Type = "booking.deleted"
)

const SchemaVersion = "1"

func (t Type) IsValid() bool {
	switch t {
	case BookingCreated, BookingStatusChanged, BookingCancelled, BookingDeleted:
		return true
	}
	return false
}

type BookingEvent struct {
	ID             string              `json:"id"`
	Type           Type                `json:"type"`
	BookingID      string              `json:"bookingId"`
	UserID         string              `json:"userId"`
	VehicleID      string              `json:"vehicleId"`
	Status         model.BookingStatus `json:"status"`
	PreviousStatus model.BookingStatus `json:"previousStatus,omitempty"`
	PaymentStatus  model.PaymentStatus `json:"paymentStatus,omitempty"`
	ActorID        string              `json:"actorId,omitempty"`
	ActorRole      model.Role          `json:"actorRole,omitempty"`
	Reason         string              `json:"reason,omitempty"`
	OccurredAt     time.Time           `json:"occurredAt"`
}

// NewBookingEvent snapshots b for the given event type.
func NewBookingEvent(t Type, b *model.Booking) BookingEvent {
	return BookingEvent{
		ID:            uuid.New().String(),
		Type:          t,
		BookingID:     b.ID,
		UserID:        b.UserID,
		VehicleID:     b.VehicleID,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Reason:        b.CancellationReason,
		OccurredAt:    time.Now().UTC(),
	}
}

// ByAdmin reports whether an administrator triggered the event.
func (e BookingEvent) ByAdmin() bool {
	return e.ActorRole == model.RoleAdmin
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

type Handler func(ctx context.Context, event BookingEvent) error

type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }
