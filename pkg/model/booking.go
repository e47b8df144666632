package model

import (
	"time"
)

type Booking struct {
	ID                 string        `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             string        `json:"userId" bson:"user_id"`
	VehicleID          string        `json:"vehicleId" bson:"vehicle_id"`
	Phone              string        `json:"phone" bson:"phone"`
	StartDate          time.Time     `json:"startDate" bson:"start_date"`
	EndDate            time.Time     `json:"endDate" bson:"end_date"`
	TotalAmount        float64       `json:"totalAmount" bson:"total_amount"`
	PaymentMethod      PaymentMethod `json:"paymentMethod" bson:"payment_method"`
	Status             BookingStatus `json:"status" bson:"status"`
	PaymentStatus      PaymentStatus `json:"paymentStatus" bson:"payment_status"`
	BookingDate        time.Time     `json:"bookingDate" bson:"booking_date"`
	ApprovedBy         string        `json:"approvedBy,omitempty" bson:"approved_by,omitempty"`
	RejectedBy         string        `json:"rejectedBy,omitempty" bson:"rejected_by,omitempty"`
	CancellationReason string        `json:"cancellationReason,omitempty" bson:"cancellation_reason,omitempty"`
	CreatedAt          time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time     `json:"updatedAt" bson:"updated_at"`
}

// CreateBookingRequest is the wire body of POST /bookings. Dates stay strings
// until the service parses them so that both date-only and RFC3339 are accepted.
type CreateBookingRequest struct {
	UserID        string  `json:"userId" validate:"required,mongodb"`
	VehicleID     string  `json:"vehicleId" validate:"required,mongodb"`
	StartDate     string  `json:"startDate" validate:"required"`
	EndDate       string  `json:"endDate" validate:"required"`
	TotalAmount   float64 `json:"totalAmount" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"omitempty,oneof=cash card UPI"`
	Phone         string  `json:"phone" validate:"required"`
}

// BookingStatusUpdate carries the partial admin update. At least one field is required.
type BookingStatusUpdate struct {
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending paid failed"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone"`
}

type VehicleSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	PricePerDay float64 `json:"pricePerDay"`
}

// BookingView is a booking joined with its user and vehicle. Either summary
// is nil when the referenced record has been deleted.
type BookingView struct {
	Booking
	User    *UserSummary    `json:"user"`
	Vehicle *VehicleSummary `json:"vehicle"`
}

// BookingDetails is the restricted projection returned for a single booking.
type BookingDetails struct {
	ID            string          `json:"id"`
	Phone         string          `json:"phone"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	TotalAmount   float64         `json:"totalAmount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        BookingStatus   `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	BookingDate   time.Time       `json:"bookingDate"`
	User          *UserSummary    `json:"user"`
	Vehicle       *VehicleSummary `json:"vehicle"`
}

func (v *BookingView) Details() *BookingDetails {
	return &BookingDetails{
		ID:            v.ID,
		Phone:         v.Phone,
		StartDate:     v.StartDate,
		EndDate:       v.EndDate,
		TotalAmount:   v.TotalAmount,
		PaymentMethod: v.PaymentMethod,
		Status:        v.Status,
		PaymentStatus: v.PaymentStatus,
		BookingDate:   v.BookingDate,
		User:          v.User,
		Vehicle:       v.Vehicle,
	}
}
