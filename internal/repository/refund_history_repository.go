package repository

import (
	"context"
	"database/sql"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// RefundHistoryRepo is the append-only audit log of payment status
// transitions.  Rows are only ever inserted; the timeline endpoint
// reads them back in chronological order.
type RefundHistoryRepo struct {
	db *sql.DB
}

// NewRefundHistoryRepo constructs a RefundHistoryRepo with the given DB
// handle.
func NewRefundHistoryRepo(db *sql.DB) *RefundHistoryRepo { return &RefundHistoryRepo{db: db} }

// AppendTx inserts one history row inside the caller's transaction and
// populates the generated ID and timestamp.  PaymentRepo.Transition is
// the only writer, which keeps the log in lock-step with the payments
// table.
func (r *RefundHistoryRepo) AppendTx(ctx context.Context, tx *sql.Tx, c *model.RefundStatusChange) error {
	const q = `INSERT INTO refund_status_history (payment_id, old_status, new_status, changed_by, notes)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, c.PaymentID, c.OldStatus, c.NewStatus, c.ChangedBy, c.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT created_at FROM refund_status_history WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt)
}

// ListByPayment returns every recorded transition for a payment in
// chronological order (created_at, then id to break same-second ties).
func (r *RefundHistoryRepo) ListByPayment(ctx context.Context, paymentID uint64) ([]model.RefundStatusChange, error) {
	const q = `SELECT id, payment_id, old_status, new_status, changed_by, notes, created_at
	           FROM refund_status_history
	           WHERE payment_id = ?
	           ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RefundStatusChange, 0)
	for rows.Next() {
		var c model.RefundStatusChange
		var oldStatus, notes sql.NullString
		var changedBy sql.NullInt64
		if err := rows.Scan(&c.ID, &c.PaymentID, &oldStatus, &c.NewStatus, &changedBy, &notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		if oldStatus.Valid {
			v := oldStatus.String
			c.OldStatus = &v
		}
		if changedBy.Valid {
			v := uint64(changedBy.Int64)
			c.ChangedBy = &v
		}
		if notes.Valid {
			v := notes.String
			c.Notes = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
