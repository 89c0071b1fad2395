package validator

import (
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"
	"doctorsportal/pkg/validation"
)

type BookingValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.validate.Struct(booking)
}

func (v *BookingValidator) ValidatePayment(payment *model.BookingPayment) error {
	return v.validate.Struct(payment)
}
