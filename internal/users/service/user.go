package service

import (
	"context"
	"errors"

	userserrors "carrental/internal/users/errors"
	"carrental/internal/users/repository"
	"carrental/internal/users/validator"
	"carrental/pkg/auth"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"
)

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	CreateAdmin(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, actor *auth.Identity, id string, update *model.UserUpdate) (*model.User, error)
	Promote(ctx context.Context, id string) (*model.User, error)
	Delete(ctx context.Context, actor *auth.Identity, id string) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	hasher    auth.PasswordHasher
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	hasher auth.PasswordHasher,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		cfg:       cfg,
	}
}

// Register always creates a plain user. Admins come from bootstrap or promotion.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	return s.create(ctx, req, model.RoleUser)
}

func (s *userService) CreateAdmin(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	return s.create(ctx, req, model.RoleAdmin)
}

func (s *userService) create(ctx context.Context, req *model.RegisterRequest, role model.Role) (*model.User, error) {
	rawPhone := req.Phone
	req.Username = sanitizer.NormalizeName(req.Username)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.NormalizePhone(req.Phone)

	if err := s.validator.ValidateRegister(req, rawPhone); err != nil {
		s.cfg.Log.Warn("User registration validation failed", "email", req.Email, "error", err)
		return nil, validation.ToAppError(err, "User validation failed")
	}

	if err := s.ensureUnique(ctx, req.Email, req.Phone, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if appErr := s.mapRepoError(err, ""); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered successfully", "id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if appErr := s.mapRepoError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to get user by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to get all users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}
	return users, nil
}

// Update applies a partial edit. Callers may edit themselves; editing another
// account or any role requires user management rights.
func (s *userService) Update(ctx context.Context, actor *auth.Identity, id string, update *model.UserUpdate) (*model.User, error) {
	if !actor.CanActOn(id) {
		return nil, apperrors.Forbidden("You can only update your own profile")
	}
	if update.Role != nil && !actor.Role.Can(model.CapManageUsers) {
		return nil, apperrors.Forbidden("Only admins can change roles")
	}

	s.sanitizeUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("User update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError(err, "User validation failed")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email, phone := "", ""
	if update.Email != nil && *update.Email != existing.Email {
		email = *update.Email
	}
	if update.Phone != nil && *update.Phone != existing.Phone {
		phone = *update.Phone
	}
	if err := s.ensureUnique(ctx, email, phone, id); err != nil {
		return nil, err
	}

	if err := s.merge(existing, update); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, existing); err != nil {
		if appErr := s.mapRepoError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to update user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update user", err)
	}

	s.cfg.Log.Info("User updated successfully", "id", id, "by", actor.UserID)
	return existing, nil
}

func (s *userService) Promote(ctx context.Context, id string) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == model.RoleAdmin {
		return user, nil
	}

	user.Role = model.RoleAdmin
	if err := s.repo.Update(ctx, id, user); err != nil {
		if appErr := s.mapRepoError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to promote user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to promote user", err)
	}

	s.cfg.Log.Info("User promoted to admin", "id", id)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *auth.Identity, id string) error {
	if actor.UserID == id {
		return apperrors.Forbidden("Admin cannot delete their own account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if appErr := s.mapRepoError(err, id); appErr != nil {
			return appErr
		}
		s.cfg.Log.Error("Failed to delete user", "id", id, "error", err)
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted successfully", "id", id, "by", actor.UserID)
	return nil
}

func (s *userService) ensureUnique(ctx context.Context, email, phone, excludeID string) error {
	if email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			s.cfg.Log.Error("Failed to check email uniqueness", "email", email, "error", err)
			return apperrors.Internal("Failed to check email uniqueness", err)
		}
		if taken {
			return apperrors.Conflict("User with this email already exists")
		}
	}
	if phone != "" {
		taken, err := s.repo.ExistsByPhone(ctx, phone, excludeID)
		if err != nil {
			s.cfg.Log.Error("Failed to check phone uniqueness", "phone", phone, "error", err)
			return apperrors.Internal("Failed to check phone uniqueness", err)
		}
		if taken {
			return apperrors.Conflict("User with this phone already exists")
		}
	}
	return nil
}

func (s *userService) merge(user *model.User, update *model.UserUpdate) error {
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		user.Role = model.Role(*update.Role)
	}
	if update.Password != nil {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			s.cfg.Log.Error("Failed to hash password", "id", user.ID, "error", err)
			return apperrors.Internal("Failed to update password", err)
		}
		user.PasswordHash = hash
	}
	return nil
}

func (s *userService) sanitizeUpdate(update *model.UserUpdate) {
	if update.Username != nil {
		v := sanitizer.NormalizeName(*update.Username)
		update.Username = &v
	}
	if update.Email != nil {
		v := sanitizer.NormalizeEmail(*update.Email)
		update.Email = &v
	}
	if update.Phone != nil {
		v := sanitizer.NormalizePhone(*update.Phone)
		update.Phone = &v
	}
}

// mapRepoError translates repository sentinels; it returns nil for errors
// that should surface as Internal.
func (s *userService) mapRepoError(err error, id string) *apperrors.AppError {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	case errors.Is(err, userserrors.ErrDuplicateEmail):
		return apperrors.Conflict("User with this email already exists")
	case errors.Is(err, userserrors.ErrDuplicatePhone):
		return apperrors.Conflict("User with this phone already exists")
	}
	return nil
}
