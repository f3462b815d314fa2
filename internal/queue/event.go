// Package queue defines the notification payloads exchanged over the
// message broker and the background consumer that dispatches them.
package queue

// NotificationQueueName is the durable queue all notification events
// flow through.
const NotificationQueueName = "booking.notifications"

// Notification kinds.  Each maps to a template on the dispatching side:
// booking_confirmed is in-app only, the rest are emails.
const (
	KindBookingConfirmed = "booking_confirmed"
	KindBookingCancelled = "booking_cancelled"
	KindRefundProcessing = "refund_processing"
	KindRefundCompleted  = "refund_completed"
)

// NotificationEvent is published after a booking or payment state
// change commits.  It carries enough information for downstream
// consumers to render a message without querying the primary database.
// Email may be empty when the recipient lookup failed; consumers still
// record the event.
type NotificationEvent struct {
	Kind        string   `json:"kind"`
	BookingID   uint64   `json:"booking_id,omitempty"`
	PaymentID   uint64   `json:"payment_id,omitempty"`
	UserID      uint64   `json:"user_id"`
	Email       string   `json:"email,omitempty"`
	MovieTitle  string   `json:"movie_title,omitempty"`
	ScreenName  string   `json:"screen_name,omitempty"`
	ShowDate    string   `json:"show_date,omitempty"`
	ShowTime    string   `json:"show_time,omitempty"`
	Seats       []string `json:"seats,omitempty"`
	AmountCents uint32   `json:"amount_cents"`
	Notes       *string  `json:"notes,omitempty"`
	OccurredAt  string   `json:"occurred_at"`
}
