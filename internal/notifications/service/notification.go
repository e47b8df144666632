package service

import (
	"context"
	"errors"
	"fmt"

	notificationserrors "carrental/internal/notifications/errors"
	"carrental/internal/notifications/repository"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/events"
	"carrental/pkg/model"
)

type NotificationService interface {
	HandleEvent(ctx context.Context, event events.BookingEvent) error
	List(ctx context.Context, status string, limit int, offset int64) ([]*model.AdminNotification, int64, error)
	MarkRead(ctx context.Context, id string) (*model.AdminNotification, error)
}

type notificationService struct {
	repo repository.NotificationRepository
	cfg  *config.Config
}

func NewNotificationService(repo repository.NotificationRepository, cfg *config.Config) NotificationService {
	return &notificationService{
		repo: repo,
		cfg:  cfg,
	}
}

// HandleEvent records an admin notification for the events admins care
// about and ignores the rest. A redelivered event is acknowledged without
// creating a second notification.
func (s *notificationService) HandleEvent(ctx context.Context, event events.BookingEvent) error {
	n := FromEvent(event)
	if n == nil {
		s.cfg.Log.Debug("Booking event needs no notification", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}

	if err := s.repo.Create(ctx, n); err != nil {
		if errors.Is(err, notificationserrors.ErrDuplicateEvent) {
			s.cfg.Log.Info("Duplicate booking event ignored", "event_id", event.ID, "type", event.Type)
			return nil
		}
		s.cfg.Log.Error("Failed to store notification", "event_id", event.ID, "type", event.Type, "error", err)
		return err
	}

	s.cfg.Log.Info("Admin notification created", "id", n.ID, "type", n.Type, "booking_id", n.BookingID)
	return nil
}

// FromEvent maps a booking event to a notification, or nil when the event
// does not concern administrators.
func FromEvent(event events.BookingEvent) *model.AdminNotification {
	n := &model.AdminNotification{
		Status:    model.NotificationUnread,
		BookingID: event.BookingID,
		UserID:    event.UserID,
		EventID:   event.ID,
	}

	switch event.Type {
	case events.BookingCreated:
		n.Type = model.NotificationInfo
		n.Title = "New booking"
		n.Message = fmt.Sprintf("Booking %s was created for vehicle %s.", event.BookingID, event.VehicleID)
	case events.BookingCancelled:
		n.Type = model.NotificationWarning
		n.Title = "Booking cancelled"
		by := "its owner"
		if event.ByAdmin() {
			by = "an administrator"
		}
		n.Message = fmt.Sprintf("Booking %s was cancelled by %s.", event.BookingID, by)
		if event.Reason != "" {
			n.Message += " Reason: " + event.Reason
		}
	case events.BookingStatusChanged:
		if event.Status != model.BookingCancelled || !event.ByAdmin() {
			return nil
		}
		n.Type = model.NotificationWarning
		n.Title = "Booking rejected"
		n.Message = fmt.Sprintf("Booking %s was cancelled by an administrator (was %s).", event.BookingID, event.PreviousStatus)
	case events.BookingDeleted:
		n.Type = model.NotificationInfo
		n.Title = "Booking deleted"
		n.Message = fmt.Sprintf("Booking %s was deleted.", event.BookingID)
	default:
		return nil
	}
	return n
}

func (s *notificationService) List(ctx context.Context, status string, limit int, offset int64) ([]*model.AdminNotification, int64, error) {
	filter := model.NotificationStatus(status)
	if filter != "" && !filter.IsValid() {
		return nil, 0, apperrors.InvalidInput("status must be one of: unread read")
	}

	notifications, err := s.repo.FindAll(ctx, filter, config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset))
	if err != nil {
		s.cfg.Log.Error("Failed to list notifications", "status", status, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve notifications", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count notifications", "status", status, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve notifications", err)
	}
	return notifications, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) (*model.AdminNotification, error) {
	n, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, notificationserrors.ErrNotFound), errors.Is(err, notificationserrors.ErrInvalidID):
			return nil, apperrors.NotFoundWithID("Notification", id)
		}
		s.cfg.Log.Error("Failed to mark notification read", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update notification", err)
	}
	return n, nil
}
