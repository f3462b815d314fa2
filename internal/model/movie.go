package model

import "time"

// Movie status values.  A movie is either currently screening or
// announced for a future release.
const (
	MovieNowShowing = "NOW_SHOWING"
	MovieComingSoon = "COMING_SOON"
)

// Movie represents a title in the catalog.  Movies are created and
// edited by admins.  Title and duration are denormalized into bookings
// at creation time, so editing a movie never rewrites history.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title, unique per catalog.
//  DurationMin – running time in minutes, always > 0.
//  Genres      – ordered list of genre names.
//  Rating      – certification rating (e.g. "PG-13").
//  Synopsis    – short plot description.
//  Director    – director name.
//  Cast        – ordered list of cast member names.
//  PosterURL   – poster image location (nil when not uploaded).
//  TrailerURL  – trailer video location (nil when not uploaded).
//  Status      – NOW_SHOWING or COMING_SOON.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	DurationMin uint32    // movies.duration_min
	Genres      []string  // movies.genres (CSV column)
	Rating      string    // movies.rating
	Synopsis    string    // movies.synopsis
	Director    string    // movies.director
	Cast        []string  // movies.cast_list (CSV column, order preserved)
	PosterURL   *string   // movies.poster_url (nullable)
	TrailerURL  *string   // movies.trailer_url (nullable)
	Status      string    // movies.status
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
