package repository

import (
	"context"
	"database/sql"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// BookingRepo manages bookings, their seat claims and the payment row
// captured alongside them.  Seat claims live in booking_seats with a
// UNIQUE (screen_id, show_date, show_time, seat_label) key: a claim row
// exists exactly while a booking is live, so the key turns a lost
// availability race into ErrSeatUnavailable instead of a double sale.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, user_id, movie_id, movie_title, duration_min, screen_id, screen_name,
	DATE_FORMAT(show_date, '%Y-%m-%d'), TIME_FORMAT(show_time, '%H:%i'), seat_labels, total_cents, status, created_at, updated_at`

// CreateConfirmed atomically persists a confirmed booking, one seat
// claim per label and the captured payment.  If any claim collides with
// an existing live booking the whole transaction rolls back and
// ErrSeatUnavailable is returned.  On success the generated IDs and
// timestamps are populated on both structs.
func (r *BookingRepo) CreateConfirmed(ctx context.Context, b *model.Booking, p *model.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO bookings (user_id, movie_id, movie_title, duration_min, screen_id, screen_name,
	             show_date, show_time, seat_labels, total_cents, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, b.UserID, b.MovieID, b.MovieTitle, b.DurationMin,
		b.ScreenID, b.ScreenName, b.ShowDate, b.ShowTime, joinCSV(b.Seats), b.TotalCents, model.BookingConfirmed)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if err := r.insertClaimsTx(ctx, tx, b); err != nil {
		return err
	}

	p.BookingID = b.ID
	if err := insertPaymentTx(ctx, tx, p); err != nil {
		return err
	}

	// Query back defaults (status, timestamps) before committing.
	const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	if err := scanBookingInto(tx.QueryRowContext(ctx, sel, b.ID), b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertClaimsTx bulk-inserts one booking_seats row per seat label.
// A duplicate-key failure means another live booking already claims one
// of the seats for the same slot.
func (r *BookingRepo) insertClaimsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if len(b.Seats) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, screen_id, show_date, show_time, seat_label) VALUES `
	args := make([]interface{}, 0, len(b.Seats)*5)
	for i, label := range b.Seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, b.ID, b.ScreenID, b.ShowDate, b.ShowTime, label)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrSeatUnavailable
		}
		return err
	}
	return nil
}

// GetByID loads a booking and its seat labels.  It returns
// ErrBookingNotFound when no matching row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBookingInto(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByUser returns all bookings for the given user, newest first,
// with their seat labels populated.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

// ListBySlot returns all bookings (any status) for a showtime slot,
// newest first.  Used by the admin back-office.
func (r *BookingRepo) ListBySlot(ctx context.Context, screenID uint64, showDate, showTime string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings
	           WHERE screen_id = ? AND show_date = ? AND show_time = ?
	           ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, screenID, showDate, showTime)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBookingInto(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MarkCancelled transitions a confirmed booking to CANCELLED and
// deletes its seat claims so the seats become available again.  It
// returns ErrBookingNotFound when the booking does not exist and
// ErrInvalidTransition when it is not currently CONFIRMED.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		model.BookingCancelled, id, model.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Either missing or already cancelled; look to tell them apart.
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_seats WHERE booking_id = ?`, id); err != nil {
		return nil, err
	}
	var b model.Booking
	const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	if err := scanBookingInto(tx.QueryRowContext(ctx, sel, id), &b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &b, nil
}

// ClaimedSeats returns the seat labels currently claimed by live
// bookings for a showtime slot.  Claim rows are removed on
// cancellation, so no status filter is needed.
func (r *BookingRepo) ClaimedSeats(ctx context.Context, screenID uint64, showDate, showTime string) ([]string, error) {
	const q = `SELECT seat_label FROM booking_seats
	           WHERE screen_id = ? AND show_date = ? AND show_time = ?
	           ORDER BY seat_label`
	rows, err := r.db.QueryContext(ctx, q, screenID, showDate, showTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, rows.Err()
}

// Revenue sums confirmed-booking totals inside [from, to] (inclusive
// dates, "YYYY-MM-DD").  It returns the total in cents and the number
// of contributing bookings.
func (r *BookingRepo) Revenue(ctx context.Context, from, to string) (uint64, uint64, error) {
	const q = `SELECT COALESCE(SUM(total_cents), 0), COUNT(*) FROM bookings
	           WHERE status = ? AND DATE(created_at) BETWEEN ? AND ?`
	var total, count uint64
	err := r.db.QueryRowContext(ctx, q, model.BookingConfirmed, from, to).Scan(&total, &count)
	return total, count, err
}

func scanBookingInto(row rowScanner, b *model.Booking) error {
	var seats string
	err := row.Scan(&b.ID, &b.UserID, &b.MovieID, &b.MovieTitle, &b.DurationMin,
		&b.ScreenID, &b.ScreenName, &b.ShowDate, &b.ShowTime, &seats, &b.TotalCents,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	b.Seats = splitCSV(seats)
	return nil
}
