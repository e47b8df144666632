package model

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

func (s NotificationStatus) IsValid() bool {
	return s == NotificationUnread || s == NotificationRead
}

// AdminNotification is raised for administrators from booking events.
// EventID makes redelivered events idempotent.
type AdminNotification struct {
	ID        string             `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      NotificationType   `json:"type" bson:"type"`
	Status    NotificationStatus `json:"status" bson:"status"`
	BookingID string             `json:"bookingId,omitempty" bson:"booking_id,omitempty"`
	UserID    string             `json:"userId,omitempty" bson:"user_id,omitempty"`
	EventID   string             `json:"-" bson:"event_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

type AdminStats struct {
	TotalUsers       int64            `json:"totalUsers"`
	TotalAdmins      int64            `json:"totalAdmins"`
	TotalCars        int64            `json:"totalCars"`
	TotalBookings    int64            `json:"totalBookings"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
}
