package service

import (
	"context"
	"errors"

	userserrors "carrental/internal/users/errors"
	"carrental/internal/users/repository"
	usersvc "carrental/internal/users/service"
	"carrental/internal/users/validator"
	"carrental/pkg/auth"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"
)

const invalidCredentials = "Invalid email or password"

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	BootstrapAdmin(ctx context.Context) error
}

type authService struct {
	users     usersvc.UserService
	repo      repository.UserRepository
	validator *validator.UserValidator
	hasher    auth.PasswordHasher
	tokens    auth.TokenMaker
	cfg       *config.Config
}

func NewAuthService(
	users usersvc.UserService,
	repo repository.UserRepository,
	validator *validator.UserValidator,
	hasher auth.PasswordHasher,
	tokens auth.TokenMaker,
	cfg *config.Config,
) AuthService {
	return &authService{
		users:     users,
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		tokens:    tokens,
		cfg:       cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	return s.users.Register(ctx, req)
}

// Login never reveals whether the email or the password was wrong.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		s.cfg.Log.Warn("Login validation failed", "email", req.Email, "error", err)
		return nil, validation.ToAppError(err, "Login validation failed")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			s.cfg.Log.Warn("Login for unknown email", "email", req.Email)
			return nil, apperrors.Unauthorized(invalidCredentials)
		}
		s.cfg.Log.Error("Failed to look up user for login", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.cfg.Log.Warn("Login with wrong password", "id", user.ID)
		return nil, apperrors.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "role", user.Role)
	return &model.LoginResponse{
		Message:  "Login successful",
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     user.Role,
	}, nil
}

// BootstrapAdmin creates the configured admin account once. It is a no-op
// when no admin credentials are configured or the email is already taken.
func (s *authService) BootstrapAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.cfg.Log.Info("Admin bootstrap skipped, no credentials configured")
		return nil
	}

	email := sanitizer.NormalizeEmail(s.cfg.AdminEmail)
	exists, err := s.repo.ExistsByEmail(ctx, email, "")
	if err != nil {
		return err
	}
	if exists {
		s.cfg.Log.Info("Admin bootstrap skipped, user exists", "email", email)
		return nil
	}

	admin, err := s.users.CreateAdmin(ctx, &model.RegisterRequest{
		Username: s.cfg.AdminUsername,
		Email:    email,
		Phone:    s.cfg.AdminPhone,
		Password: s.cfg.AdminPassword,
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Bootstrap admin created", "id", admin.ID, "email", admin.Email)
	return nil
}
