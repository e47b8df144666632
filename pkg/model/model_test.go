package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCompleted, BookingCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, BookingConfirmed, s)

	_, err = ParseBookingStatus("approved")
	assert.Error(t, err)
	assert.Len(t, AllBookingStatuses(), 4)
}

func TestPaymentEnums(t *testing.T) {
	assert.True(t, PaymentPaid.IsValid())
	assert.False(t, PaymentStatus("refunded").IsValid())
	assert.True(t, PaymentUPI.IsValid())
	assert.False(t, PaymentMethod("upi").IsValid())
}

func TestRole_Capabilities(t *testing.T) {
	assert.True(t, RoleUser.Can(CapBookVehicle))
	assert.False(t, RoleUser.Can(CapManageVehicles))
	assert.False(t, RoleUser.Can(CapViewDashboard))
	assert.True(t, RoleAdmin.Can(CapManageBookings))
	assert.True(t, RoleAdmin.Can(CapManageUsers))
	assert.False(t, Role("superuser").Can(CapBookVehicle))

	_, err := ParseRole("owner")
	assert.Error(t, err)
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)
}

func TestBookingView_Details(t *testing.T) {
	view := &BookingView{
		Booking: Booking{ID: "b1", Phone: "+15550001111", TotalAmount: 100, Status: BookingPending, UserID: "u1"},
		Vehicle: &VehicleSummary{ID: "v1", Name: "Civic"},
	}

	d := view.Details()
	assert.Equal(t, "b1", d.ID)
	assert.Equal(t, 100.0, d.TotalAmount)
	assert.Nil(t, d.User)
	assert.Equal(t, "Civic", d.Vehicle.Name)
}
