package validator

import (
	"time"

	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// DateLayouts are the accepted forms of startDate and endDate.
var DateLayouts = []string{time.DateOnly, time.RFC3339}

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{validate: validation.New()}
}

// ValidateCreate checks a sanitized request and returns its parsed range.
// rawPhone is the phone before normalization; a non-empty raw phone that
// normalized to "" is reported as invalid rather than missing.
func (v *BookingValidator) ValidateCreate(req *model.CreateBookingRequest, rawPhone string) (time.Time, time.Time, error) {
	if err := validation.Struct(v.validate, req); err != nil {
		if req.Phone == "" && rawPhone != "" {
			if verrs, ok := err.(validation.ValidationErrors); ok {
				return time.Time{}, time.Time{}, replacePhone(verrs)
			}
		}
		return time.Time{}, time.Time{}, err
	}

	var errs validation.ValidationErrors
	start, err := ParseDate(req.StartDate)
	if err != nil {
		errs = append(errs, validation.ValidationError{Field: "startDate", Message: "startDate must be YYYY-MM-DD or RFC3339"})
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		errs = append(errs, validation.ValidationError{Field: "endDate", Message: "endDate must be YYYY-MM-DD or RFC3339"})
	}
	if len(errs) == 0 && !end.After(start) {
		errs = append(errs, validation.ValidationError{Field: "endDate", Message: "endDate must be after startDate"})
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

func (v *BookingValidator) ValidateStatusUpdate(update *model.BookingStatusUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}
	if update.Status == "" && update.PaymentStatus == "" {
		return validation.Field("body", "status or paymentStatus must be provided")
	}
	return nil
}

func (v *BookingValidator) ValidateCancel(req *model.CancelBookingRequest) error {
	return validation.Struct(v.validate, req)
}

// ParseDate accepts a calendar date, read as UTC midnight, or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

func replacePhone(errs validation.ValidationErrors) validation.ValidationErrors {
	for i := range errs {
		if errs[i].Field == "phone" {
			errs[i].Message = "phone must be a valid phone number"
		}
	}
	return errs
}
