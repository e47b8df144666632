package validator

import (
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type VehicleValidator struct {
	validate *validator.Validate
}

func NewVehicleValidator() *VehicleValidator {
	return &VehicleValidator{validate: validation.New()}
}

// ValidateCreate checks a vehicle before its image is stored, so the image
// reference is checked only for presence of an upload.
func (v *VehicleValidator) ValidateCreate(vehicle *model.Vehicle, hasImage bool) error {
	var errs validation.ValidationErrors
	if err := validation.StructExcept(v.validate, vehicle, "Image"); err != nil {
		verrs, ok := err.(validation.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if !hasImage {
		errs = append(errs, validation.ValidationError{Field: "image", Message: "image is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *VehicleValidator) ValidateUpdate(update *model.VehicleUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}
	if update.Name == nil && update.Brand == nil && update.PricePerDay == nil && update.Available == nil && update.Description == nil {
		return validation.Field("body", "at least one field must be provided")
	}
	return nil
}
