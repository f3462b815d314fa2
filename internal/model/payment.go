package model

import "time"

// Payment / refund status values.  The lifecycle is strictly forward:
// COMPLETED -> REFUND_PENDING -> REFUND_PROCESSING -> REFUNDED.
// No backward transition is ever permitted and no state may be skipped.
const (
	PaymentCompleted        = "COMPLETED"
	PaymentRefundPending    = "REFUND_PENDING"
	PaymentRefundProcessing = "REFUND_PROCESSING"
	PaymentRefunded         = "REFUNDED"
)

// refundOrder fixes the only legal progression of payment statuses.
var refundOrder = []string{
	PaymentCompleted,
	PaymentRefundPending,
	PaymentRefundProcessing,
	PaymentRefunded,
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	for _, v := range refundOrder {
		if v == s {
			return true
		}
	}
	return false
}

// NextRefundStatus returns the status immediately following cur in the
// refund lifecycle.  ok is false when cur is terminal or unknown.
func NextRefundStatus(cur string) (next string, ok bool) {
	for i, v := range refundOrder[:len(refundOrder)-1] {
		if v == cur {
			return refundOrder[i+1], true
		}
	}
	return "", false
}

// PrevRefundStatus returns the status a payment must currently hold for
// a transition into target to be legal.  ok is false when target is the
// initial state or unknown.
func PrevRefundStatus(target string) (prev string, ok bool) {
	for i, v := range refundOrder[1:] {
		if v == target {
			return refundOrder[i], true
		}
	}
	return "", false
}

// Payment records the money captured for exactly one booking and
// carries the refund state machine.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking this payment belongs to (1:1).
//  UserID        – paying customer.
//  AmountCents   – captured amount in cents.
//  Method        – payment method (e.g. "card", "wallet").
//  CardLastFour  – last four card digits (nil for non-card methods).
//  TransactionID – external gateway reference.
//  Status        – refund lifecycle state, see constants above.
//  CreatedAt     – capture timestamp.
//  UpdatedAt     – last status change timestamp.
type Payment struct {
	ID            uint64    // payments.id
	BookingID     uint64    // payments.booking_id (unique)
	UserID        uint64    // payments.user_id
	AmountCents   uint32    // payments.amount_cents
	Method        string    // payments.payment_method
	CardLastFour  *string   // payments.card_last_four (nullable)
	TransactionID string    // payments.transaction_id
	Status        string    // payments.status
	CreatedAt     time.Time // payments.created_at
	UpdatedAt     time.Time // payments.updated_at
}

// RefundStatusChange is one append-only audit row recording an observed
// payment status transition.  OldStatus is nil only for synthetic
// initial events; ChangedBy is nil when the system (not a person)
// performed the transition.
type RefundStatusChange struct {
	ID        uint64    // refund_status_history.id
	PaymentID uint64    // refund_status_history.payment_id
	OldStatus *string   // refund_status_history.old_status (nullable)
	NewStatus string    // refund_status_history.new_status
	ChangedBy *uint64   // refund_status_history.changed_by (nullable)
	Notes     *string   // refund_status_history.notes (nullable)
	CreatedAt time.Time // refund_status_history.created_at
}
