package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/queue"
)

// ErrUnknownStatus is returned by BulkTransition when the target is not
// a reachable refund lifecycle state.
var ErrUnknownStatus = errors.New("unknown target status")

// PaymentStore is the persistence surface of the refund state machine.
// *repository.PaymentRepo satisfies it.
type PaymentStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error)
	ListByStatus(ctx context.Context, status string) ([]model.Payment, error)
	Transition(ctx context.Context, id uint64, oldStatus, newStatus string, changedBy *uint64, notes *string) (*model.Payment, error)
}

// RefundHistoryStore reads back the append-only transition log.
type RefundHistoryStore interface {
	ListByPayment(ctx context.Context, paymentID uint64) ([]model.RefundStatusChange, error)
}

// PaymentService owns the forward-only refund state machine
// COMPLETED -> REFUND_PENDING -> REFUND_PROCESSING -> REFUNDED.  Every
// transition lands atomically with its history row; the notification
// that follows is best-effort and never reverts the transition.
type PaymentService struct {
	payments PaymentStore
	history  RefundHistoryStore
	users    UserGetter
	notifier Notifier
}

// NewPaymentService wires a PaymentService.  notifier may be a
// NopNotifier.
func NewPaymentService(payments PaymentStore, history RefundHistoryStore, users UserGetter, notifier Notifier) *PaymentService {
	if payments == nil || history == nil {
		panic("nil dependency passed to NewPaymentService")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &PaymentService{payments: payments, history: history, users: users, notifier: notifier}
}

// GetByID returns a payment by id.
func (s *PaymentService) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// GetByBooking returns the payment tied to a booking.
func (s *PaymentService) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	return s.payments.GetByBooking(ctx, bookingID)
}

// ListByStatus returns the refund work queue for one lifecycle state.
func (s *PaymentService) ListByStatus(ctx context.Context, status string) ([]model.Payment, error) {
	return s.payments.ListByStatus(ctx, status)
}

// RequestRefund moves COMPLETED -> REFUND_PENDING.  Booking
// cancellation is the caller; the notification uses the
// booking_cancelled template.
func (s *PaymentService) RequestRefund(ctx context.Context, paymentID uint64, changedBy *uint64, notes *string) (*model.Payment, error) {
	return s.transition(ctx, paymentID, model.PaymentCompleted, model.PaymentRefundPending,
		changedBy, notes, queue.KindBookingCancelled)
}

// StartProcessing moves REFUND_PENDING -> REFUND_PROCESSING
// (admin/staff action).
func (s *PaymentService) StartProcessing(ctx context.Context, paymentID uint64, changedBy *uint64, notes *string) (*model.Payment, error) {
	return s.transition(ctx, paymentID, model.PaymentRefundPending, model.PaymentRefundProcessing,
		changedBy, notes, queue.KindRefundProcessing)
}

// CompleteRefund moves REFUND_PROCESSING -> REFUNDED (admin/staff
// action).
func (s *PaymentService) CompleteRefund(ctx context.Context, paymentID uint64, changedBy *uint64, notes *string) (*model.Payment, error) {
	return s.transition(ctx, paymentID, model.PaymentRefundProcessing, model.PaymentRefunded,
		changedBy, notes, queue.KindRefundCompleted)
}

func (s *PaymentService) transition(ctx context.Context, paymentID uint64, oldStatus, newStatus string, changedBy *uint64, notes *string, kind string) (*model.Payment, error) {
	p, err := s.payments.Transition(ctx, paymentID, oldStatus, newStatus, changedBy, notes)
	if err != nil {
		return nil, err
	}
	ev := queue.NotificationEvent{
		Kind:        kind,
		PaymentID:   p.ID,
		BookingID:   p.BookingID,
		UserID:      p.UserID,
		AmountCents: p.AmountCents,
		Notes:       notes,
	}
	if s.users != nil {
		if u, lookupErr := s.users.GetByID(ctx, p.UserID); lookupErr == nil {
			ev.Email = u.Email
		}
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		log.Printf("payment: %s notification failed for payment %d: %v", kind, p.ID, err)
	}
	return p, nil
}

// BulkResult reports a continue-on-error batch outcome.
type BulkResult struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// BulkTransition applies the single-payment transition into target to
// each id independently.  One failure never aborts the batch; the
// result counts how many ids actually moved.  target must be a
// non-initial lifecycle state.
func (s *PaymentService) BulkTransition(ctx context.Context, paymentIDs []uint64, target string, changedBy *uint64, notes *string) (BulkResult, error) {
	res := BulkResult{Total: len(paymentIDs)}
	if _, ok := model.PrevRefundStatus(target); !ok {
		return res, ErrUnknownStatus
	}
	for _, id := range paymentIDs {
		var err error
		switch target {
		case model.PaymentRefundPending:
			_, err = s.RequestRefund(ctx, id, changedBy, notes)
		case model.PaymentRefundProcessing:
			_, err = s.StartProcessing(ctx, id, changedBy, notes)
		case model.PaymentRefunded:
			_, err = s.CompleteRefund(ctx, id, changedBy, notes)
		}
		if err != nil {
			log.Printf("payment: bulk transition of %d to %s skipped: %v", id, target, err)
			continue
		}
		res.Processed++
	}
	return res, nil
}

// TimelineEvent is one entry in a payment's human-readable status
// history.  Synthetic marks the leading "payment completed" event that
// is derived from the payment row rather than a history record.
type TimelineEvent struct {
	Status    string    `json:"status"`
	OldStatus *string   `json:"old_status,omitempty"`
	ChangedBy *uint64   `json:"changed_by,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Synthetic bool      `json:"synthetic,omitempty"`
	At        time.Time `json:"at"`
}

// Timeline reconstructs the ordered status history of a payment.  A
// synthetic "completed" event anchored at the payment's creation time
// leads the list unless a recorded row already predates it, so even a
// payment with no transitions yields a one-event timeline.  The call is
// read-only and idempotent.
func (s *PaymentService) Timeline(ctx context.Context, paymentID uint64) ([]TimelineEvent, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	changes, err := s.history.ListByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	events := make([]TimelineEvent, 0, len(changes)+1)
	if len(changes) == 0 || !changes[0].CreatedAt.Before(p.CreatedAt) {
		events = append(events, TimelineEvent{
			Status:    model.PaymentCompleted,
			Synthetic: true,
			At:        p.CreatedAt,
		})
	}
	for _, c := range changes {
		events = append(events, TimelineEvent{
			Status:    c.NewStatus,
			OldStatus: c.OldStatus,
			ChangedBy: c.ChangedBy,
			Notes:     c.Notes,
			At:        c.CreatedAt,
		})
	}
	return events, nil
}
