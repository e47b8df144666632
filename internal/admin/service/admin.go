package service

import (
	"context"

	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"

	"golang.org/x/sync/errgroup"
)

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
}

type VehicleCounter interface {
	Count(ctx context.Context) (int64, error)
}

type BookingCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type AdminService interface {
	Stats(ctx context.Context) (*model.AdminStats, error)
}

type adminService struct {
	users    UserCounter
	vehicles VehicleCounter
	bookings BookingCounter
	cfg      *config.Config
}

func NewAdminService(users UserCounter, vehicles VehicleCounter, bookings BookingCounter, cfg *config.Config) AdminService {
	return &adminService{
		users:    users,
		vehicles: vehicles,
		bookings: bookings,
		cfg:      cfg,
	}
}

// Stats runs every count concurrently. The first failure cancels the rest.
func (s *adminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	stats := &model.AdminStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.Count(gctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByRole(gctx, model.RoleAdmin)
		stats.TotalAdmins = n
		return err
	})
	g.Go(func() error {
		n, err := s.vehicles.Count(gctx)
		stats.TotalCars = n
		return err
	})
	g.Go(func() error {
		n, err := s.bookings.Count(gctx)
		stats.TotalBookings = n
		return err
	})
	g.Go(func() error {
		byStatus, err := s.bookings.CountByStatus(gctx)
		stats.BookingsByStatus = byStatus
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to compute admin stats", "error", err)
		return nil, apperrors.Internal("Failed to retrieve statistics", err)
	}
	return stats, nil
}
