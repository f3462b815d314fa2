package repository

import (
	"context"
	"database/sql"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// PaymentRepo manages payments and their forward-only refund lifecycle.
// Every status transition is written together with its audit row in one
// transaction, so the history can never disagree with the payment.
type PaymentRepo struct {
	db      *sql.DB
	history *RefundHistoryRepo
}

// NewPaymentRepo constructs a PaymentRepo.  The history repo must share
// the same database handle.
func NewPaymentRepo(db *sql.DB, history *RefundHistoryRepo) *PaymentRepo {
	return &PaymentRepo{db: db, history: history}
}

const paymentCols = `id, booking_id, user_id, amount_cents, payment_method, card_last_four, transaction_id, status, created_at, updated_at`

// insertPaymentTx writes a payment row inside an existing transaction.
// Used by BookingRepo.CreateConfirmed so that booking, claims and
// payment land atomically.  The payment starts in COMPLETED.
func insertPaymentTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, user_id, amount_cents, payment_method, card_last_four, transaction_id, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.BookingID, p.UserID, p.AmountCents,
		p.Method, p.CardLastFour, p.TransactionID, model.PaymentCompleted)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict // a payment already exists for this booking
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + paymentCols + ` FROM payments WHERE id = ?`
	return scanPaymentInto(tx.QueryRowContext(ctx, sel, p.ID), p)
}

// GetByID retrieves a payment by its ID.  It returns ErrPaymentNotFound
// when no matching row exists.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE id = ?`
	var p model.Payment
	if err := scanPaymentInto(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByBooking retrieves the single payment tied to a booking.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE booking_id = ?`
	var p model.Payment
	if err := scanPaymentInto(r.db.QueryRowContext(ctx, q, bookingID), &p); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByStatus returns payments in the given refund lifecycle state,
// oldest first, for the admin refund queue.
func (r *PaymentRepo) ListByStatus(ctx context.Context, status string) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE status = ? ORDER BY updated_at, id`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := scanPaymentInto(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Transition moves a payment from oldStatus to newStatus and appends
// the matching refund_status_history row in the same transaction.  The
// UPDATE is guarded on the current status: when the guard misses the
// transition is out of order (ErrInvalidTransition) or the payment does
// not exist (ErrPaymentNotFound).
func (r *PaymentRepo) Transition(ctx context.Context, id uint64, oldStatus, newStatus string, changedBy *uint64, notes *string) (*model.Payment, error) {
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
		`UPDATE payments SET status = ? WHERE id = ? AND status = ?`,
		newStatus, id, oldStatus)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		var cur string
		err := tx.QueryRowContext(ctx, `SELECT status FROM payments WHERE id = ?`, id).Scan(&cur)
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	old := oldStatus
	change := &model.RefundStatusChange{
		PaymentID: id,
		OldStatus: &old,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Notes:     notes,
	}
	if err := r.history.AppendTx(ctx, tx, change); err != nil {
		return nil, err
	}

	var p model.Payment
	const sel = `SELECT ` + paymentCols + ` FROM payments WHERE id = ?`
	if err := scanPaymentInto(tx.QueryRowContext(ctx, sel, id), &p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &p, nil
}

func scanPaymentInto(row rowScanner, p *model.Payment) error {
	var last4 sql.NullString
	err := row.Scan(&p.ID, &p.BookingID, &p.UserID, &p.AmountCents, &p.Method,
		&last4, &p.TransactionID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	if last4.Valid {
		v := last4.String
		p.CardLastFour = &v
	}
	return nil
}
