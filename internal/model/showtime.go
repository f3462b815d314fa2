package model

import "time"

// ConflictWindowMin is the scheduling window, in minutes, reserved on a
// screen around every showtime.  Two showtimes on the same screen may
// not have intersecting windows.  The window is a fixed 150 minutes
// rather than the movie's actual duration plus cleanup time.
const ConflictWindowMin = 150

// Showtime schedules a movie on a screen at a date and time with a
// ticket price.  Date and time are kept as separate DB-friendly strings
// because bookings denormalize them verbatim.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  ScreenID   – screen hosting the screening.
//  ShowDate   – calendar date, "2006-01-02".
//  ShowTime   – wall-clock start, "15:04" (24h).
//  PriceCents – ticket price per seat in cents, always > 0.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Showtime struct {
	ID         uint64    // showtimes.id
	MovieID    uint64    // showtimes.movie_id
	ScreenID   uint64    // showtimes.screen_id
	ShowDate   string    // showtimes.show_date ("YYYY-MM-DD")
	ShowTime   string    // showtimes.show_time ("HH:MM")
	PriceCents uint32    // showtimes.price_cents
	CreatedAt  time.Time // showtimes.created_at
	UpdatedAt  time.Time // showtimes.updated_at
}

// StartsAt combines ShowDate and ShowTime into a UTC instant.
func (s *Showtime) StartsAt() (time.Time, error) {
	return time.Parse("2006-01-02 15:04", s.ShowDate+" "+s.ShowTime)
}

// WindowsOverlap reports whether two showtime starts fall inside each
// other's fixed conflict windows.
func WindowsOverlap(a, b time.Time) bool {
	win := ConflictWindowMin * time.Minute
	return a.Before(b.Add(win)) && b.Before(a.Add(win))
}
