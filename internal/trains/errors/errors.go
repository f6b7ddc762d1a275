package errors

import "errors"

var (
	ErrNotFound = errors.New("train not found")

	ErrInsufficientSeats = errors.New("insufficient seats")

	ErrDuplicateTrain = errors.New("train number already exists")
)
