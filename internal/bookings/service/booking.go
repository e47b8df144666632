package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/internal/bookings/locker"
	"carrental/internal/bookings/repository"
	"carrental/internal/bookings/validator"
	userserrors "carrental/internal/users/errors"
	vehicleserrors "carrental/internal/vehicles/errors"
	"carrental/pkg/auth"
	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/events"
	"carrental/pkg/metrics"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const (
	msgAlreadyBooked   = "Vehicle is already booked for selected dates"
	msgOnlyPending     = "Only pending bookings can be cancelled"
	msgVehicleBusy     = "This vehicle is currently being booked by another request. Please try again."
	msgNoUserBookings  = "No bookings found for this user"
	msgConcurrentWrite = "Booking was modified by another request"
)

type UserReader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
}

type VehicleReader interface {
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Vehicle, error)
}

type BookingService interface {
	Create(ctx context.Context, actor *auth.Identity, req *model.CreateBookingRequest) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error)
	GetByID(ctx context.Context, actor *auth.Identity, id string) (*model.BookingDetails, error)
	GetByUser(ctx context.Context, actor *auth.Identity, userID string) ([]*model.BookingView, error)
	UpdateStatus(ctx context.Context, actor *auth.Identity, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, actor *auth.Identity, id string, req *model.CancelBookingRequest) (*model.Booking, error)
	Delete(ctx context.Context, actor *auth.Identity, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	users     UserReader
	vehicles  VehicleReader
	locker    locker.Locker
	validator *validator.BookingValidator
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	users UserReader,
	vehicles VehicleReader,
	locker locker.Locker,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	m *metrics.Metrics,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &bookingService{
		repo:      repo,
		users:     users,
		vehicles:  vehicles,
		locker:    locker,
		validator: validator,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// Create books a vehicle for [startDate, endDate). The overlap check and the
// insert run while the vehicle's lock is held, so concurrent requests for the
// same vehicle cannot both pass the check.
func (s *bookingService) Create(ctx context.Context, actor *auth.Identity, req *model.CreateBookingRequest) (*model.Booking, error) {
	rawPhone := req.Phone
	s.sanitize(req)

	start, end, err := s.validator.ValidateCreate(req, rawPhone)
	if err != nil {
		s.metrics.BookingOutcome(metrics.OutcomeRejected)
		s.cfg.Log.Warn("Booking validation failed", "user_id", req.UserID, "vehicle_id", req.VehicleID, "error", err)
		return nil, validation.ToAppError(err, "Booking validation failed")
	}

	if !canAccess(actor, req.UserID) {
		s.metrics.BookingOutcome(metrics.OutcomeRejected)
		return nil, apperrors.Forbidden("You can only create bookings for yourself")
	}

	if err := s.verifyReferences(ctx, req.UserID, req.VehicleID); err != nil {
		s.metrics.BookingOutcome(metrics.OutcomeRejected)
		return nil, err
	}

	booking := &model.Booking{
		UserID:        req.UserID,
		VehicleID:     req.VehicleID,
		Phone:         req.Phone,
		StartDate:     start,
		EndDate:       end,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Status:        model.BookingPending,
		PaymentStatus: model.PaymentPending,
		BookingDate:   mongotx.Now(),
	}

	waitStart := time.Now()
	unlock, err := s.locker.Lock(ctx, booking.VehicleID)
	s.metrics.LockWaited(time.Since(waitStart).Seconds())
	if err != nil {
		if errors.Is(err, bookingserrors.ErrLockTimeout) {
			s.metrics.BookingOutcome(metrics.OutcomeConflict)
			s.cfg.Log.Warn("Timed out waiting for vehicle lock", "vehicle_id", booking.VehicleID, "error", err)
			return nil, apperrors.BookingConflict(msgVehicleBusy)
		}
		s.metrics.BookingOutcome(metrics.OutcomeFailed)
		s.cfg.Log.Error("Failed to acquire vehicle lock", "vehicle_id", booking.VehicleID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}
	defer unlock()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			s.metrics.BookingOutcome(metrics.OutcomeConflict)
			s.cfg.Log.Warn("Booking rejected, dates overlap", "vehicle_id", booking.VehicleID, "start_date", start, "end_date", end)
			return nil, err
		}
		s.metrics.BookingOutcome(metrics.OutcomeFailed)
		s.cfg.Log.Error("Failed to create booking", "vehicle_id", booking.VehicleID, "error", err)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.metrics.BookingOutcome(metrics.OutcomeCreated)
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"vehicle_id", booking.VehicleID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
	)
	s.publish(ctx, actor, events.NewBookingEvent(events.BookingCreated, booking))
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		bookings []*model.Booking
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repo.FindAll(gctx, limit, offset)
		return err
	})
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to get all bookings", "limit", limit, "offset", offset, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	views, err := s.enrich(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor *auth.Identity, id string) (*model.BookingDetails, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, booking.UserID) {
		return nil, apperrors.Forbidden("You can only view your own bookings")
	}

	views, err := s.enrich(ctx, []*model.Booking{booking})
	if err != nil {
		return nil, err
	}
	return views[0].Details(), nil
}

func (s *bookingService) GetByUser(ctx context.Context, actor *auth.Identity, userID string) ([]*model.BookingView, error) {
	if !canAccess(actor, userID) {
		return nil, apperrors.Forbidden("You can only view your own bookings")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to get bookings by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	if len(bookings) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, msgNoUserBookings, http.StatusNotFound)
	}
	return s.enrich(ctx, bookings)
}

// UpdateStatus applies an admin update. Status changes follow the lifecycle
// state machine unless enforcement is disabled; an update that changes
// nothing returns the booking unchanged.
func (s *bookingService) UpdateStatus(ctx context.Context, actor *auth.Identity, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking status update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError(err, "Booking validation failed")
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := booking.Status
	changed := false

	if target := model.BookingStatus(update.Status); target != "" && target != previous {
		if s.cfg.EnforceStatusTransitions && !previous.CanTransitionTo(target) {
			return nil, apperrors.InvalidState(fmt.Sprintf("Cannot change booking status from %s to %s", previous, target))
		}
		booking.Status = target
		switch target {
		case model.BookingConfirmed:
			booking.ApprovedBy = actor.UserID
		case model.BookingCancelled:
			booking.RejectedBy = actor.UserID
		}
		changed = true
	}
	if payment := model.PaymentStatus(update.PaymentStatus); payment != "" && payment != booking.PaymentStatus {
		booking.PaymentStatus = payment
		changed = true
	}
	if !changed {
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, previous, booking); err != nil {
		return nil, s.mapWriteError(err, id, msgConcurrentWrite)
	}

	if booking.Status != previous {
		s.metrics.BookingStatusChanged(booking.Status.String())
	}
	s.cfg.Log.Info("Booking updated successfully",
		"id", id,
		"previous_status", previous,
		"status", booking.Status,
		"payment_status", booking.PaymentStatus,
		"by", actor.UserID,
	)

	event := events.NewBookingEvent(events.BookingStatusChanged, booking)
	event.PreviousStatus = previous
	s.publish(ctx, actor, event)
	return booking, nil
}

// Cancel moves a pending booking to cancelled. Payment status is untouched.
func (s *bookingService) Cancel(ctx context.Context, actor *auth.Identity, id string, req *model.CancelBookingRequest) (*model.Booking, error) {
	if req == nil {
		req = &model.CancelBookingRequest{}
	}
	req.Reason = sanitizer.NormalizeText(req.Reason)
	if err := s.validator.ValidateCancel(req); err != nil {
		return nil, validation.ToAppError(err, "Booking validation failed")
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, booking.UserID) {
		return nil, apperrors.Forbidden("You can only cancel your own bookings")
	}
	if booking.Status != model.BookingPending {
		s.cfg.Log.Warn("Cancel rejected, booking not pending", "id", id, "status", booking.Status)
		return nil, apperrors.InvalidState(msgOnlyPending)
	}

	booking.Status = model.BookingCancelled
	booking.CancellationReason = req.Reason
	if actor.UserID != booking.UserID {
		booking.RejectedBy = actor.UserID
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingPending, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			return nil, apperrors.InvalidState(msgOnlyPending)
		}
		return nil, s.mapWriteError(err, id, msgConcurrentWrite)
	}

	s.metrics.BookingStatusChanged(model.BookingCancelled.String())
	s.cfg.Log.Info("Booking cancelled", "id", id, "by", actor.UserID)
	s.publish(ctx, actor, events.NewBookingEvent(events.BookingCancelled, booking))
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, actor *auth.Identity, id string) error {
	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapWriteError(err, id, msgConcurrentWrite)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "by", actor.UserID)
	s.publish(ctx, actor, events.NewBookingEvent(events.BookingDeleted, booking))
	return nil
}

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound), errors.Is(err, bookingserrors.ErrInvalidID):
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to get booking by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) mapWriteError(err error, id, conflictMsg string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound), errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrStatusChanged):
		return apperrors.BookingConflict(conflictMsg)
	}
	s.cfg.Log.Error("Failed to write booking", "id", id, "error", err)
	return apperrors.Internal("Failed to update booking", err)
}

func (s *bookingService) verifyReferences(ctx context.Context, userID, vehicleID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("User", userID)
		}
		s.cfg.Log.Error("Failed to look up booking user", "user_id", userID, "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) || errors.Is(err, vehicleserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Vehicle", vehicleID)
		}
		s.cfg.Log.Error("Failed to look up booking vehicle", "vehicle_id", vehicleID, "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}
	return nil
}

// verifyAvailability is re-evaluated against the store on every creation.
func (s *bookingService) verifyAvailability(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.VehicleID, booking.StartDate, booking.EndDate, s.cfg.OverlapIgnoresCancelled)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	for _, b := range existing {
		if overlaps(b.StartDate, b.EndDate, booking.StartDate, booking.EndDate) {
			return apperrors.BookingConflict(msgAlreadyBooked)
		}
	}
	return nil
}

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// enrich joins bookings with user and vehicle summaries. References to
// deleted records leave the summary nil.
func (s *bookingService) enrich(ctx context.Context, bookings []*model.Booking) ([]*model.BookingView, error) {
	userIDs := make([]string, 0, len(bookings))
	vehicleIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		userIDs = append(userIDs, b.UserID)
		vehicleIDs = append(vehicleIDs, b.VehicleID)
	}

	var (
		users    []*model.User
		vehicles []*model.Vehicle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.FindByIDs(gctx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		vehicles, err = s.vehicles.FindByIDs(gctx, vehicleIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to load booking references", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	userByID := make(map[string]*model.UserSummary, len(users))
	for _, u := range users {
		userByID[u.ID] = u.Summary()
	}
	vehicleByID := make(map[string]*model.VehicleSummary, len(vehicles))
	for _, v := range vehicles {
		vehicleByID[v.ID] = v.WithImageURL(s.cfg.PublicBaseURL).Summary()
	}

	views := make([]*model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, &model.BookingView{
			Booking: *b,
			User:    userByID[b.UserID],
			Vehicle: vehicleByID[b.VehicleID],
		})
	}
	return views, nil
}

func (s *bookingService) publish(ctx context.Context, actor *auth.Identity, event events.BookingEvent) {
	if actor != nil {
		event.ActorID = actor.UserID
		event.ActorRole = actor.Role
	}
	err := s.publisher.Publish(context.WithoutCancel(ctx), event)
	s.metrics.EventPublished(string(event.Type), err)
	if err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "type", event.Type, "booking_id", event.BookingID, "error", err)
	}
}

func (s *bookingService) sanitize(req *model.CreateBookingRequest) {
	req.UserID = sanitizer.TrimAndNormalize(req.UserID)
	req.VehicleID = sanitizer.TrimAndNormalize(req.VehicleID)
	req.Phone = sanitizer.NormalizePhone(req.Phone)
	if req.PaymentMethod == "" {
		req.PaymentMethod = string(model.PaymentCash)
	}
}

// canAccess reports whether actor may act on bookings owned by userID.
func canAccess(actor *auth.Identity, userID string) bool {
	return actor != nil && (actor.UserID == userID || actor.Role.Can(model.CapManageBookings))
}
