package validator

import (
	"fmt"

	"railbook/pkg/logger"
	"railbook/pkg/model"
	"railbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	maxSeats int
}

func NewBookingValidator(log *logger.Logger, maxSeats int) *BookingValidator {
	return &BookingValidator{
		validate: validation.New(log),
		maxSeats: maxSeats,
	}
}

// Validate checks the request shape only. Whether the train exists and has
// room is decided by the booking flow.
func (v *BookingValidator) Validate(req *model.BookingRequest) error {
	if err := validation.Struct(v.validate, req); err != nil {
		return err
	}

	if v.maxSeats > 0 && req.SeatCount > v.maxSeats {
		return validation.ValidationErrors{{
			Field:   "seat_count",
			Message: fmt.Sprintf("seat_count must be at most %d", v.maxSeats),
		}}
	}

	return nil
}
