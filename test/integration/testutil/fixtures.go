package testutil

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"carrental/pkg/client"
	"carrental/pkg/model"
)

var seq atomic.Int64

func unique() int64 {
	return time.Now().UnixNano()%1_000_000 + seq.Add(1)
}

// NewRegisterRequest returns a request with an email and phone no other
// fixture shares.
func NewRegisterRequest() model.RegisterRequest {
	n := unique()
	return model.RegisterRequest{
		Username: fmt.Sprintf("driver%d", n),
		Email:    fmt.Sprintf("driver%d@rental.io", n),
		Phone:    fmt.Sprintf("+9198%08d", n%100_000_000),
		Password: "secret1",
	}
}

// RegisterAndLogin creates a fresh user and returns a client acting as them.
func RegisterAndLogin(t *testing.T, anon *client.RentalClient) (*client.RentalClient, *model.LoginResponse) {
	t.Helper()

	req := NewRegisterRequest()
	resp, err := anon.Register(req)
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	c, login, err := anon.LoginAs(req.Email, req.Password)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return c, login
}

// PNG is a 1x1 transparent image used as the vehicle upload.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func CreateVehicle(t *testing.T, admin *client.RentalClient, name string, pricePerDay float64) *model.Vehicle {
	t.Helper()

	resp, err := admin.CreateVehicle(map[string]string{
		"name":        name,
		"brand":       "Maruti",
		"pricePerDay": fmt.Sprintf("%.2f", pricePerDay),
		"description": "integration fixture",
	}, "car.png", PNG)
	if err != nil {
		t.Fatalf("create vehicle request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create vehicle returned %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}
	v, err := client.DecodeMessageData[model.Vehicle](resp)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// BookingRequest spans [start, start+days) far enough in the future that
// separate test runs against one database do not collide.
func BookingRequest(userID, vehicleID string, start time.Time, days int) model.CreateBookingRequest {
	return model.CreateBookingRequest{
		UserID:        userID,
		VehicleID:     vehicleID,
		StartDate:     start.Format(time.DateOnly),
		EndDate:       start.AddDate(0, 0, days).Format(time.DateOnly),
		TotalAmount:   float64(days) * 1500,
		PaymentMethod: string(model.PaymentCash),
		Phone:         "9876543210",
	}
}
