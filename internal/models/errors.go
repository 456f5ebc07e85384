package models

import "errors"

var (
	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is authenticated but not entitled to
	// the operation (ownership or identity mismatch).
	ErrForbidden = errors.New("forbidden")

	// Booking rule violations.
	ErrSelfBooking   = errors.New("cannot book own service")
	ErrAlreadyBooked = errors.New("already booked")

	// Review rule violations.
	ErrReviewNotAllowed = errors.New("must book before reviewing")
	ErrAlreadyReviewed  = errors.New("already reviewed")

	// ErrValidation wraps field-level validation failures.
	ErrValidation = errors.New("validation error")
)
