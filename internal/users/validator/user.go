package validator

import (
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type UserValidator struct {
	validate *validator.Validate
}

func NewUserValidator() *UserValidator {
	return &UserValidator{validate: validation.New()}
}

// ValidateRegister expects a sanitized request; a phone that failed to
// normalize arrives empty and is reported as invalid.
func (v *UserValidator) ValidateRegister(req *model.RegisterRequest, rawPhone string) error {
	if err := validation.Struct(v.validate, req); err != nil {
		return err
	}
	if req.Phone == "" && rawPhone != "" {
		return validation.Field("phone", "phone must be a valid phone number")
	}
	return nil
}

func (v *UserValidator) ValidateLogin(req *model.LoginRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *UserValidator) ValidateUpdate(update *model.UserUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}
	if update.Username == nil && update.Email == nil && update.Phone == nil && update.Password == nil && update.Role == nil {
		return validation.Field("body", "at least one field must be provided")
	}
	if update.Phone != nil && *update.Phone == "" {
		return validation.Field("phone", "phone must be a valid phone number")
	}
	return nil
}
