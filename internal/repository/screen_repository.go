package repository

import (
	"context"
	"database/sql"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// ScreenRepo manages persistence for screens (auditoriums).
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo { return &ScreenRepo{db: db} }

const screenCols = `id, name, seat_rows, seats_per_row, vip_rows, capacity, created_at, updated_at`

// Create inserts a new screen.  The caller must have validated the
// layout via model.Screen.ValidLayout; capacity is stored explicitly so
// the product invariant is visible in the data.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
	const q = `INSERT INTO screens (name, seat_rows, seats_per_row, vip_rows, capacity) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.SeatRows, s.SeatsPerRow, joinCSV(s.VIPRows), s.Capacity)
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
	s.ID = uint64(id)
	fresh, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// GetByID retrieves a screen by its ID.  It returns ErrScreenNotFound
// when no matching row exists.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+screenCols+` FROM screens WHERE id = ?`, id)
	s, err := scanScreen(row)
	if err == sql.ErrNoRows {
		return nil, ErrScreenNotFound
	}
	return s, err
}

// List returns all screens ordered by name.
func (r *ScreenRepo) List(ctx context.Context) ([]model.Screen, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+screenCols+` FROM screens ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Screen, 0)
	for rows.Next() {
		s, err := scanScreen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Update rewrites a screen's layout.  It returns ErrConflict when
// showtimes already use the screen, because shrinking the grid could
// orphan sold seats.
func (r *ScreenRepo) Update(ctx context.Context, s *model.Screen) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM showtimes WHERE screen_id = ?`, s.ID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	const q = `UPDATE screens SET name = ?, seat_rows = ?, seats_per_row = ?, vip_rows = ?, capacity = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.SeatRows, s.SeatsPerRow, joinCSV(s.VIPRows), s.Capacity, s.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	fresh, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// Delete removes a screen.  It returns ErrConflict when showtimes still
// reference it.
func (r *ScreenRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM showtimes WHERE screen_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM screens WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrScreenNotFound
	}
	return nil
}

func scanScreen(row rowScanner) (*model.Screen, error) {
	var s model.Screen
	var vip string
	err := row.Scan(&s.ID, &s.Name, &s.SeatRows, &s.SeatsPerRow, &vip, &s.Capacity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.VIPRows = splitCSV(vip)
	return &s, nil
}
