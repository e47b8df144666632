package client

import (
	"fmt"
	"net/http"
	"net/url"

	"carrental/pkg/model"
)

// RentalClient wraps the car rental API for integration tests and tooling.
type RentalClient struct {
	httpClient *HttpClient
}

func NewRentalClient(baseURL string) *RentalClient {
	return &RentalClient{httpClient: NewHttpClient(baseURL)}
}

// As returns a client authenticated with token.
func (c *RentalClient) As(token string) *RentalClient {
	return &RentalClient{httpClient: c.httpClient.WithToken(token)}
}

func (c *RentalClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *RentalClient) Register(req model.RegisterRequest) (*Response, error) {
	return c.httpClient.POST("/api/auth/register", req)
}

func (c *RentalClient) Login(email, password string) (*Response, error) {
	return c.httpClient.POST("/api/auth/login", model.LoginRequest{Email: email, Password: password})
}

// LoginAs logs in and returns a client carrying the issued token.
func (c *RentalClient) LoginAs(email, password string) (*RentalClient, *model.LoginResponse, error) {
	resp, err := c.Login(email, password)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("login failed with %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
	var login model.LoginResponse
	if err := resp.DecodeJSON(&login); err != nil {
		return nil, nil, fmt.Errorf("could not decode login response: %w", err)
	}
	return c.As(login.Token), &login, nil
}

func (c *RentalClient) ListVehicles() (*Response, error) {
	return c.httpClient.GET("/api/vehicles")
}

func (c *RentalClient) GetVehicle(id string) (*Response, error) {
	return c.httpClient.GET("/api/vehicles/" + url.PathEscape(id))
}

// CreateVehicle uploads fields as a multipart form with image as the file part.
func (c *RentalClient) CreateVehicle(fields map[string]string, imageName string, image []byte) (*Response, error) {
	return c.httpClient.POSTMultipart("/api/vehicles", fields, "image", imageName, image)
}

func (c *RentalClient) UpdateVehicle(id string, update model.VehicleUpdate) (*Response, error) {
	return c.httpClient.PUT("/api/vehicles/"+url.PathEscape(id), update)
}

func (c *RentalClient) DeleteVehicle(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/vehicles/" + url.PathEscape(id))
}

func (c *RentalClient) CreateBooking(req model.CreateBookingRequest) (*Response, error) {
	return c.httpClient.POST("/api/bookings", req)
}

func (c *RentalClient) ListBookings(limit int, offset int64) (*Response, error) {
	return c.httpClient.GET(fmt.Sprintf("/api/bookings?limit=%d&offset=%d", limit, offset))
}

func (c *RentalClient) GetBooking(id string) (*Response, error) {
	return c.httpClient.GET("/api/bookings/" + url.PathEscape(id))
}

func (c *RentalClient) UserBookings(userID string) (*Response, error) {
	return c.httpClient.GET("/api/bookings/user/" + url.PathEscape(userID))
}

func (c *RentalClient) UpdateBookingStatus(id string, update model.BookingStatusUpdate) (*Response, error) {
	return c.httpClient.PUT("/api/bookings/"+url.PathEscape(id), update)
}

func (c *RentalClient) CancelBooking(id, reason string) (*Response, error) {
	return c.httpClient.PUT("/api/bookings/"+url.PathEscape(id)+"/cancel", model.CancelBookingRequest{Reason: reason})
}

func (c *RentalClient) DeleteBooking(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/bookings/" + url.PathEscape(id))
}

func (c *RentalClient) AdminStats() (*Response, error) {
	return c.httpClient.GET("/api/admin/stats")
}

func (c *RentalClient) PromoteUser(id string) (*Response, error) {
	return c.httpClient.PUT("/api/admin/users/"+url.PathEscape(id)+"/promote", nil)
}

func (c *RentalClient) Notifications(status string) (*Response, error) {
	path := "/api/admin/notifications"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	return c.httpClient.GET(path)
}

func (c *RentalClient) MarkNotificationRead(id string) (*Response, error) {
	return c.httpClient.PUT("/api/admin/notifications/"+url.PathEscape(id)+"/read", nil)
}

// DecodeMessageData unwraps {"message": ..., "data": ...} responses.
func DecodeMessageData[T any](resp *Response) (*T, error) {
	var envelope struct {
		Message string `json:"message"`
		Data    *T     `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("could not decode response:\n%s\n%w", string(resp.Body), err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("response has no data: %s", string(resp.Body))
	}
	return envelope.Data, nil
}
