package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// ShowtimeRepo manages persistence for showtimes.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

const showtimeCols = `id, movie_id, screen_id, DATE_FORMAT(show_date, '%Y-%m-%d'), TIME_FORMAT(show_time, '%H:%i'), price_cents, created_at, updated_at`

// Create inserts a new showtime.  Overlap checking is the caller's
// responsibility (see FindOverlapping); the insert itself only enforces
// referential integrity.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, screen_id, show_date, show_time, price_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, st.MovieID, st.ScreenID, st.ShowDate, st.ShowTime, st.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	fresh, err := r.GetByID(ctx, st.ID)
	if err != nil {
		return err
	}
	*st = *fresh
	return nil
}

// GetByID retrieves a showtime by its ID.  It returns
// ErrShowtimeNotFound when no matching row exists.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+showtimeCols+` FROM showtimes WHERE id = ?`, id)
	st, err := scanShowtime(row)
	if err == sql.ErrNoRows {
		return nil, ErrShowtimeNotFound
	}
	return st, err
}

// ListByMovie returns showtimes for a movie, optionally restricted to a
// single date ("YYYY-MM-DD"), ordered chronologically.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64, date string) ([]model.Showtime, error) {
	q := `SELECT ` + showtimeCols + ` FROM showtimes WHERE movie_id = ?`
	args := []interface{}{movieID}
	if date != "" {
		q += ` AND show_date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY show_date, show_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Showtime, 0)
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

// FindOverlapping returns showtimes on the given screen whose fixed
// conflict windows intersect a window starting at start.  excludeID
// skips one showtime (used when updating in place); pass 0 to check all.
// Two windows [a, a+150m) and [b, b+150m) intersect iff each start is
// inside the other's window.
func (r *ShowtimeRepo) FindOverlapping(ctx context.Context, screenID uint64, start time.Time, excludeID uint64) ([]model.Showtime, error) {
	startStr := start.UTC().Format("2006-01-02 15:04:05")
	const q = `SELECT ` + showtimeCols + `
	           FROM showtimes
	           WHERE screen_id = ?
	             AND id <> ?
	             AND TIMESTAMP(show_date, show_time) < TIMESTAMPADD(MINUTE, ?, ?)
	             AND TIMESTAMPADD(MINUTE, ?, TIMESTAMP(show_date, show_time)) > ?`
	rows, err := r.db.QueryContext(ctx, q, screenID, excludeID,
		model.ConflictWindowMin, startStr, model.ConflictWindowMin, startStr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Showtime, 0)
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

// Update rewrites a showtime's schedule and price.  Overlap checking is
// again the caller's responsibility.
func (r *ShowtimeRepo) Update(ctx context.Context, st *model.Showtime) error {
	const q = `UPDATE showtimes SET movie_id = ?, screen_id = ?, show_date = ?, show_time = ?, price_cents = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, st.MovieID, st.ScreenID, st.ShowDate, st.ShowTime, st.PriceCents, st.ID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		if _, err := r.GetByID(ctx, st.ID); err != nil {
			return err
		}
	}
	fresh, err := r.GetByID(ctx, st.ID)
	if err != nil {
		return err
	}
	*st = *fresh
	return nil
}

// Delete removes a showtime.  It returns ErrConflict when live bookings
// still reference its slot and ErrShowtimeNotFound when absent.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	st, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking_seats WHERE screen_id = ? AND show_date = ? AND show_time = ?`,
		st.ScreenID, st.ShowDate, st.ShowTime).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	return err
}

func scanShowtime(row rowScanner) (*model.Showtime, error) {
	var st model.Showtime
	err := row.Scan(&st.ID, &st.MovieID, &st.ScreenID, &st.ShowDate, &st.ShowTime,
		&st.PriceCents, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
