package model

import "time"

// Booking status values.  CONFIRMED is written at creation because
// payment is captured in the same transaction; PENDING exists for
// flows that defer capture.  CANCELLED is terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking is a customer's claim on a set of seats for one showtime.
// Movie title, duration, screen name and the showtime date/time are
// denormalized at creation so the booking stays readable even if the
// catalog changes later.  Seat membership is only ever written by the
// booking service; individual seats are never patched.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – customer who owns the booking.
//  MovieID     – movie reference at creation time.
//  MovieTitle  – denormalized movie title.
//  DurationMin – denormalized movie duration in minutes.
//  ScreenID    – screen reference, keys the seat claims.
//  ScreenName  – denormalized screen name.
//  ShowDate    – denormalized showtime date ("YYYY-MM-DD").
//  ShowTime    – denormalized showtime start ("HH:MM").
//  Seats       – seat labels, non-empty, unique within the booking.
//  TotalCents  – total price in cents, always > 0.
//  Status      – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	UserID      uint64    // bookings.user_id
	MovieID     uint64    // bookings.movie_id
	MovieTitle  string    // bookings.movie_title
	DurationMin uint32    // bookings.duration_min
	ScreenID    uint64    // bookings.screen_id
	ScreenName  string    // bookings.screen_name
	ShowDate    string    // bookings.show_date
	ShowTime    string    // bookings.show_time
	Seats       []string  // booking_seats.seat_label, one row per seat
	TotalCents  uint32    // bookings.total_cents
	Status      string    // bookings.status
	CreatedAt   time.Time // bookings.created_at
	UpdatedAt   time.Time // bookings.updated_at
}

// Live reports whether the booking still holds its seats.
func (b *Booking) Live() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
