// Package repository contains the database/sql data access layer.  Each
// repository holds a *sql.DB and exposes context-aware methods; methods
// suffixed Tx participate in a caller-owned transaction.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// MovieRepo manages persistence for the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = `id, title, duration_min, genres, rating, synopsis, director, cast_list, poster_url, trailer_url, status, created_at, updated_at`

// Create inserts a new movie and populates the generated ID and
// timestamps on the provided struct.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, duration_min, genres, rating, synopsis, director, cast_list, poster_url, trailer_url, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		m.Title, m.DurationMin, joinCSV(m.Genres), m.Rating, m.Synopsis,
		m.Director, joinCSV(m.Cast), m.PosterURL, m.TrailerURL, m.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	fresh, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *fresh
	return nil
}

// GetByID retrieves a movie by its ID.  It returns ErrMovieNotFound when
// no matching row exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieCols+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	return m, err
}

// ListByStatus returns catalog movies, optionally filtered by status
// (NOW_SHOWING / COMING_SOON).  An empty status returns everything.
// Results are ordered newest first.
func (r *MovieRepo) ListByStatus(ctx context.Context, status string) ([]model.Movie, error) {
	q := `SELECT ` + movieCols + ` FROM movies`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a movie.  It returns
// ErrMovieNotFound when the row does not exist.  Bookings keep their own
// denormalized title/duration, so editing here never rewrites history.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies SET title = ?, duration_min = ?, genres = ?, rating = ?, synopsis = ?,
	           director = ?, cast_list = ?, poster_url = ?, trailer_url = ?, status = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		m.Title, m.DurationMin, joinCSV(m.Genres), m.Rating, m.Synopsis,
		m.Director, joinCSV(m.Cast), m.PosterURL, m.TrailerURL, m.Status, m.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "no change": check existence.
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	fresh, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *fresh
	return nil
}

// Delete removes a movie.  It returns ErrConflict when showtimes still
// reference it and ErrMovieNotFound when the row does not exist.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM showtimes WHERE movie_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var m model.Movie
	var genres, cast string
	var poster, trailer sql.NullString
	err := row.Scan(&m.ID, &m.Title, &m.DurationMin, &genres, &m.Rating, &m.Synopsis,
		&m.Director, &cast, &poster, &trailer, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Genres = splitCSV(genres)
	m.Cast = splitCSV(cast)
	if poster.Valid {
		v := poster.String
		m.PosterURL = &v
	}
	if trailer.Valid {
		v := trailer.String
		m.TrailerURL = &v
	}
	return &m, nil
}

// joinCSV and splitCSV serialize ordered string lists into a single
// comma-separated column.  Values never contain commas (genre names,
// cast names are sanitized at the handler boundary).
func joinCSV(vals []string) string { return strings.Join(vals, ",") }

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
