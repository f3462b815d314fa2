// Package repository defines the sentinel errors shared across the data
// access layer and the services built on top of it.  Handlers compare
// against these values with errors.Is and translate them into HTTP
// responses: ErrForbidden becomes 403, the *NotFound values become 404,
// ErrSeatUnavailable and ErrInvalidTransition become 409.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own and lack the role to override.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because
// of dependent state, such as removing a showtime that still has live
// bookings.
var ErrConflict = errors.New("conflict")

// ErrSeatUnavailable is returned when a requested seat is already
// claimed by a live booking for the same showtime.  The unique key on
// booking_seats raises it even when two requests race past the
// availability pre-check.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrInvalidTransition is returned when a payment status change is
// attempted out of lifecycle order, or a booking is cancelled twice.
var ErrInvalidTransition = errors.New("invalid status transition")

// Not-found sentinels, one per entity.
var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrScreenNotFound   = errors.New("screen not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPaymentNotFound  = errors.New("payment not found")
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062).  The driver does not export a typed error for this, so
// the code is matched in the message.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
