package entity

import "errors"

// Domain errors. Services wrap these with context; the adaptor layer maps them
// to HTTP status codes with errors.Is.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrPackageNotFound = errors.New("package not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrBookingCanceled    = errors.New("booking is canceled")
	ErrInvalidBookingType = errors.New("invalid booking type")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidInput       = errors.New("invalid input")
)
