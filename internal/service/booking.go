package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/queue"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

// Domain-rule errors raised before anything touches the store.
var (
	// ErrInvalidSeatCount is returned when a booking requests zero
	// seats or more than model.MaxSeatsPerOrder.
	ErrInvalidSeatCount = errors.New("invalid seat count")
	// ErrInvalidSeatLabel is returned when a requested label does not
	// exist in the screen's grid.
	ErrInvalidSeatLabel = errors.New("invalid seat label")
	// ErrRefundMarkFailed is returned by Cancel when the booking was
	// cancelled (seats released) but the payment could not be flagged
	// for refund.  The cancellation is not rolled back; the caller
	// should retry the refund flag.
	ErrRefundMarkFailed = errors.New("booking cancelled but refund request failed")
)

// MovieGetter, ScreenGetter and ShowtimeGetter are the read-only
// catalog lookups the booking flow needs.  The repository types satisfy
// them; tests plug in fixtures.
type MovieGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

type ScreenGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Screen, error)
}

type ShowtimeGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
}

// Catalog bundles the three lookups.
type Catalog struct {
	Movies    MovieGetter
	Screens   ScreenGetter
	Showtimes ShowtimeGetter
}

// BookingStore is the persistence surface of the booking lifecycle.
// *repository.BookingRepo satisfies it.
type BookingStore interface {
	CreateConfirmed(ctx context.Context, b *model.Booking, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	MarkCancelled(ctx context.Context, id uint64) (*model.Booking, error)
	ClaimedSeats(ctx context.Context, screenID uint64, showDate, showTime string) ([]string, error)
}

// UserGetter resolves user records for notification recipients.
type UserGetter interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// BookingService validates seat requests, creates bookings with their
// captured payment, and drives cancellation.  It is the only writer of
// seat-claim membership.
type BookingService struct {
	catalog      Catalog
	bookings     BookingStore
	payments     *PaymentService
	users        UserGetter
	availability *AvailabilityIndex
	notifier     Notifier
}

// NewBookingService wires a BookingService.  notifier may be a
// NopNotifier; everything else must be non-nil.
func NewBookingService(catalog Catalog, bookings BookingStore, payments *PaymentService, users UserGetter, availability *AvailabilityIndex, notifier Notifier) *BookingService {
	if bookings == nil || payments == nil || availability == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &BookingService{
		catalog:      catalog,
		bookings:     bookings,
		payments:     payments,
		users:        users,
		availability: availability,
		notifier:     notifier,
	}
}

// CreateBookingInput carries everything needed to book seats for a
// showtime.  Method and CardLastFour describe how payment was captured.
type CreateBookingInput struct {
	UserID       uint64
	ShowtimeID   uint64
	Seats        []string
	Method       string
	CardLastFour *string
}

// Create books the requested seats for a showtime and captures the
// payment in the same transaction.  The booking is written directly as
// CONFIRMED because capture happens in-line.  Seat conflicts surface as
// repository.ErrSeatUnavailable both from the pre-check and, when two
// requests race past it, from the claim unique key.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, *model.Payment, error) {
	seats := model.NormalizeSeatLabels(in.Seats)
	if len(seats) == 0 || len(seats) > model.MaxSeatsPerOrder {
		return nil, nil, ErrInvalidSeatCount
	}

	st, err := s.catalog.Showtimes.GetByID(ctx, in.ShowtimeID)
	if err != nil {
		return nil, nil, err
	}
	movie, err := s.catalog.Movies.GetByID(ctx, st.MovieID)
	if err != nil {
		return nil, nil, err
	}
	screen, err := s.catalog.Screens.GetByID(ctx, st.ScreenID)
	if err != nil {
		return nil, nil, err
	}
	for _, label := range seats {
		if !screen.ContainsSeat(label) {
			return nil, nil, ErrInvalidSeatLabel
		}
	}

	ok, _, err := s.availability.IsAvailable(ctx, st.ScreenID, st.ShowDate, st.ShowTime, seats)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, repository.ErrSeatUnavailable
	}

	total := st.PriceCents * uint32(len(seats))
	booking := &model.Booking{
		UserID:      in.UserID,
		MovieID:     movie.ID,
		MovieTitle:  movie.Title,
		DurationMin: movie.DurationMin,
		ScreenID:    screen.ID,
		ScreenName:  screen.Name,
		ShowDate:    st.ShowDate,
		ShowTime:    st.ShowTime,
		Seats:       seats,
		TotalCents:  total,
	}
	txnRef, err := newTransactionRef()
	if err != nil {
		return nil, nil, err
	}
	payment := &model.Payment{
		UserID:        in.UserID,
		AmountCents:   total,
		Method:        in.Method,
		CardLastFour:  in.CardLastFour,
		TransactionID: txnRef,
	}
	if err := s.bookings.CreateConfirmed(ctx, booking, payment); err != nil {
		return nil, nil, err
	}

	// Best-effort in-app confirmation; never fails the booking.
	ev := s.eventFor(ctx, queue.KindBookingConfirmed, booking, payment, nil)
	if err := s.notifier.Notify(ctx, ev); err != nil {
		log.Printf("booking: confirm notification failed for booking %d: %v", booking.ID, err)
	}
	return booking, payment, nil
}

// Cancel transitions a confirmed booking to CANCELLED, releasing its
// seats, then flags the payment for refund.  Ownership is required
// unless adminOverride is set.  The seat release is persisted before
// the payment is touched: when the refund flag fails the booking stays
// cancelled and ErrRefundMarkFailed is returned alongside it.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID uint64, adminOverride bool) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !adminOverride && b.UserID != actorID {
		return nil, repository.ErrForbidden
	}
	b, err = s.bookings.MarkCancelled(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	p, err := s.payments.GetByBooking(ctx, b.ID)
	if err != nil {
		log.Printf("booking: payment lookup failed after cancelling booking %d: %v", b.ID, err)
		return b, ErrRefundMarkFailed
	}
	actor := actorID
	if _, err := s.payments.RequestRefund(ctx, p.ID, &actor, nil); err != nil {
		log.Printf("booking: refund flag failed after cancelling booking %d: %v", b.ID, err)
		return b, ErrRefundMarkFailed
	}
	return b, nil
}

// GetForUser returns a booking when it belongs to the actor or the
// actor has an admin override.
func (s *BookingService) GetForUser(ctx context.Context, bookingID, actorID uint64, adminOverride bool) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !adminOverride && b.UserID != actorID {
		return nil, repository.ErrForbidden
	}
	return b, nil
}

// ListByUser returns the actor's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// eventFor assembles a notification payload for a booking.  Recipient
// lookup failures leave the email empty; the consumer logs the event
// regardless.
func (s *BookingService) eventFor(ctx context.Context, kind string, b *model.Booking, p *model.Payment, notes *string) queue.NotificationEvent {
	email := ""
	if s.users != nil {
		if u, err := s.users.GetByID(ctx, b.UserID); err == nil {
			email = u.Email
		}
	}
	ev := queue.NotificationEvent{
		Kind:        kind,
		BookingID:   b.ID,
		UserID:      b.UserID,
		Email:       email,
		MovieTitle:  b.MovieTitle,
		ScreenName:  b.ScreenName,
		ShowDate:    b.ShowDate,
		ShowTime:    b.ShowTime,
		Seats:       b.Seats,
		AmountCents: b.TotalCents,
		Notes:       notes,
	}
	if p != nil {
		ev.PaymentID = p.ID
	}
	return ev
}

// newTransactionRef generates an opaque gateway-style reference for a
// captured payment.
func newTransactionRef() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "txn_" + hex.EncodeToString(buf), nil
}
