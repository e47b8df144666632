package service

import (
	"context"
	"errors"
	"io"

	vehicleserrors "carrental/internal/vehicles/errors"
	"carrental/internal/vehicles/repository"
	"carrental/internal/vehicles/storage"
	"carrental/internal/vehicles/validator"
	"carrental/pkg/cache"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/metrics"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"
)

const cacheName = "vehicle"

// Upload is an image file received with a create request.
type Upload struct {
	Filename string
	Body     io.Reader
}

type VehicleService interface {
	GetAll(ctx context.Context) ([]*model.Vehicle, error)
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	Create(ctx context.Context, vehicle *model.Vehicle, image *Upload) (*model.Vehicle, error)
	Update(ctx context.Context, id string, update *model.VehicleUpdate) (*model.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	repo      repository.VehicleRepository
	validator *validator.VehicleValidator
	images    storage.ImageStore
	cache     cache.Cache
	metrics   *metrics.Metrics
	cfg       *config.Config
}

func NewVehicleService(
	repo repository.VehicleRepository,
	validator *validator.VehicleValidator,
	images storage.ImageStore,
	c cache.Cache,
	m *metrics.Metrics,
	cfg *config.Config,
) VehicleService {
	if c == nil {
		c = cache.Noop{}
	}
	return &vehicleService{
		repo:      repo,
		validator: validator,
		images:    images,
		cache:     c,
		metrics:   m,
		cfg:       cfg,
	}
}

func (s *vehicleService) GetAll(ctx context.Context) ([]*model.Vehicle, error) {
	vehicles, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to get all vehicles", "error", err)
		return nil, apperrors.Internal("Failed to retrieve vehicles", err)
	}
	for _, v := range vehicles {
		v.WithImageURL(s.cfg.PublicBaseURL)
	}
	return vehicles, nil
}

// GetByID reads through the cache. Cache failures degrade to a store read.
func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	var cached model.Vehicle
	hit, err := s.cache.Get(ctx, id, &cached)
	if err != nil {
		s.cfg.Log.Warn("Vehicle cache read failed", "id", id, "error", err)
	}
	s.metrics.CacheLookup(cacheName, hit)
	if hit {
		return cached.WithImageURL(s.cfg.PublicBaseURL), nil
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if appErr := mapRepoError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to get vehicle by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve vehicle", err)
	}

	if err := s.cache.Set(ctx, id, vehicle, s.cfg.VehicleCacheTTL); err != nil {
		s.cfg.Log.Warn("Vehicle cache write failed", "id", id, "error", err)
	}
	return vehicle.WithImageURL(s.cfg.PublicBaseURL), nil
}

func (s *vehicleService) Create(ctx context.Context, vehicle *model.Vehicle, image *Upload) (*model.Vehicle, error) {
	vehicle.Name = sanitizer.NormalizeText(vehicle.Name)
	vehicle.Brand = sanitizer.NormalizeText(vehicle.Brand)
	vehicle.Description = sanitizer.NormalizeText(vehicle.Description)

	if err := s.validator.ValidateCreate(vehicle, image != nil); err != nil {
		s.cfg.Log.Warn("Vehicle validation failed", "name", vehicle.Name, "error", err)
		return nil, validation.ToAppError(err, "Vehicle validation failed")
	}

	ref, err := s.images.Save(image.Filename, image.Body)
	if err != nil {
		s.cfg.Log.Error("Failed to store vehicle image", "filename", image.Filename, "error", err)
		return nil, apperrors.Internal("Failed to store vehicle image", err)
	}
	vehicle.Image = ref

	if err := s.repo.Create(ctx, vehicle); err != nil {
		if rmErr := s.images.Remove(ref); rmErr != nil {
			s.cfg.Log.Warn("Failed to remove orphaned image", "image", ref, "error", rmErr)
		}
		s.cfg.Log.Error("Failed to create vehicle", "name", vehicle.Name, "error", err)
		return nil, apperrors.Internal("Failed to create vehicle", err)
	}

	s.cfg.Log.Info("Vehicle created successfully", "id", vehicle.ID, "name", vehicle.Name)
	return vehicle.WithImageURL(s.cfg.PublicBaseURL), nil
}

func (s *vehicleService) Update(ctx context.Context, id string, update *model.VehicleUpdate) (*model.Vehicle, error) {
	if update.Name != nil {
		v := sanitizer.NormalizeText(*update.Name)
		update.Name = &v
	}
	if update.Brand != nil {
		v := sanitizer.NormalizeText(*update.Brand)
		update.Brand = &v
	}
	if update.Description != nil {
		v := sanitizer.NormalizeText(*update.Description)
		update.Description = &v
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Vehicle update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError(err, "Vehicle validation failed")
	}

	vehicle, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if appErr := mapRepoError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to update vehicle", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update vehicle", err)
	}
	s.invalidate(ctx, id)

	s.cfg.Log.Info("Vehicle updated successfully", "id", id)
	return vehicle.WithImageURL(s.cfg.PublicBaseURL), nil
}

// Delete removes the vehicle only. Bookings that reference it are kept.
func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if appErr := mapRepoError(err, id); appErr != nil {
			return appErr
		}
		s.cfg.Log.Error("Failed to delete vehicle", "id", id, "error", err)
		return apperrors.Internal("Failed to delete vehicle", err)
	}
	s.invalidate(ctx, id)

	s.cfg.Log.Info("Vehicle deleted successfully", "id", id)
	return nil
}

func (s *vehicleService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.cfg.Log.Warn("Vehicle cache invalidation failed", "id", id, "error", err)
	}
}

func mapRepoError(err error, id string) *apperrors.AppError {
	switch {
	case errors.Is(err, vehicleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Vehicle", id)
	case errors.Is(err, vehicleserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid vehicle ID format")
	}
	return nil
}
