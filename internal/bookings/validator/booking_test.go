package validator

import (
	"testing"
	"time"

	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-10", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-10T08:30:00Z", time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC), true},
		{"2024-01-10T08:30:00+05:30", time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC), true},
		{"10/01/2024", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestValidateCreate(t *testing.T) {
	v := NewBookingValidator()
	req := &model.CreateBookingRequest{
		UserID:        "65a000000000000000000001",
		VehicleID:     "65b000000000000000000001",
		StartDate:     "2024-01-10",
		EndDate:       "2024-01-12",
		TotalAmount:   100,
		PaymentMethod: "UPI",
		Phone:         "+919876543210",
	}

	start, end, err := v.ValidateCreate(req, req.Phone)
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, end.Sub(start))

	req.EndDate = req.StartDate
	_, _, err = v.ValidateCreate(req, req.Phone)
	var verrs validation.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "endDate", verrs[0].Field)
}

func TestValidateStatusUpdate(t *testing.T) {
	v := NewBookingValidator()

	assert.NoError(t, v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: "confirmed"}))
	assert.NoError(t, v.ValidateStatusUpdate(&model.BookingStatusUpdate{PaymentStatus: "failed"}))
	assert.Error(t, v.ValidateStatusUpdate(&model.BookingStatusUpdate{}))
	assert.Error(t, v.ValidateStatusUpdate(&model.BookingStatusUpdate{PaymentStatus: "refunded"}))
}
