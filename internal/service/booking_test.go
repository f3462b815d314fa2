package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/queue"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

type testEnv struct {
	bookings   *fakeBookingStore
	payments   *fakePaymentStore
	notifier   *recordingNotifier
	bookingSvc *BookingService
	paymentSvc *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ps := newFakePaymentStore()
	bs := newFakeBookingStore(ps)
	users := &fakeUsers{m: map[uint64]model.User{
		1: {ID: 1, Email: "alice@example.com", Role: model.RoleCustomer},
		2: {ID: 2, Email: "bob@example.com", Role: model.RoleCustomer},
		9: {ID: 9, Email: "ops@example.com", Role: model.RoleAdmin},
	}}
	notifier := &recordingNotifier{}
	paymentSvc := NewPaymentService(ps, ps, users, notifier)
	catalog := Catalog{
		Movies: &fakeMovies{m: map[uint64]*model.Movie{
			1: {ID: 1, Title: "Interstellar", DurationMin: 169, Status: model.MovieNowShowing},
		}},
		Screens: &fakeScreens{m: map[uint64]*model.Screen{
			1: {ID: 1, Name: "Screen 1", SeatRows: 10, SeatsPerRow: 10, Capacity: 100},
		}},
		Showtimes: &fakeShowtimes{m: map[uint64]*model.Showtime{
			1: {ID: 1, MovieID: 1, ScreenID: 1, ShowDate: "2026-09-05", ShowTime: "19:30", PriceCents: 1250},
		}},
	}
	bookingSvc := NewBookingService(catalog, bs, paymentSvc, users, NewAvailabilityIndex(bs), notifier)
	return &testEnv{
		bookings:   bs,
		payments:   ps,
		notifier:   notifier,
		bookingSvc: bookingSvc,
		paymentSvc: paymentSvc,
	}
}

func mustBook(t *testing.T, env *testEnv, userID uint64, seats ...string) (*model.Booking, *model.Payment) {
	t.Helper()
	b, p, err := env.bookingSvc.Create(context.Background(), CreateBookingInput{
		UserID: userID, ShowtimeID: 1, Seats: seats, Method: "card",
	})
	if err != nil {
		t.Fatalf("Create(%v) failed: %v", seats, err)
	}
	return b, p
}

func TestCreateBookingConfirmsAndCapturesPayment(t *testing.T) {
	env := newTestEnv(t)

	b, p := mustBook(t, env, 1, "a1", " A2 ")

	if b.Status != model.BookingConfirmed {
		t.Errorf("booking status = %q, want %q", b.Status, model.BookingConfirmed)
	}
	if got, want := b.Seats, []string{"A1", "A2"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("seats = %v, want %v", got, want)
	}
	if b.TotalCents != 2500 {
		t.Errorf("total = %d cents, want 2500", b.TotalCents)
	}
	if b.MovieTitle != "Interstellar" || b.ScreenName != "Screen 1" {
		t.Errorf("denormalized fields = %q/%q", b.MovieTitle, b.ScreenName)
	}
	if p.Status != model.PaymentCompleted {
		t.Errorf("payment status = %q, want %q", p.Status, model.PaymentCompleted)
	}
	if p.AmountCents != b.TotalCents {
		t.Errorf("payment amount = %d, booking total = %d", p.AmountCents, b.TotalCents)
	}
	if p.BookingID != b.ID {
		t.Errorf("payment booking id = %d, want %d", p.BookingID, b.ID)
	}
	if got := env.notifier.seen(); len(got) != 1 || got[0] != queue.KindBookingConfirmed {
		t.Errorf("notifications = %v, want one %q", got, queue.KindBookingConfirmed)
	}
}

func TestCreateBookingRejectsTakenSeats(t *testing.T) {
	env := newTestEnv(t)
	mustBook(t, env, 1, "A1", "A2")

	_, _, err := env.bookingSvc.Create(context.Background(), CreateBookingInput{
		UserID: 2, ShowtimeID: 1, Seats: []string{"A2", "A3"}, Method: "card",
	})
	if !errors.Is(err, repository.ErrSeatUnavailable) {
		t.Fatalf("err = %v, want ErrSeatUnavailable", err)
	}

	// The non-conflicting seat must not have been claimed by the
	// failed attempt.
	booked, err := env.bookingSvc.availability.BookedSeats(context.Background(), 1, "2026-09-05", "19:30")
	if err != nil {
		t.Fatalf("BookedSeats failed: %v", err)
	}
	sort.Strings(booked)
	if len(booked) != 2 || booked[0] != "A1" || booked[1] != "A2" {
		t.Errorf("booked seats = %v, want [A1 A2]", booked)
	}
}

func TestCreateBookingSeatCountBounds(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name  string
		seats []string
	}{
		{"empty", nil},
		{"blank labels only", []string{" ", ""}},
		{"eleven seats", []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10", "B1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.bookingSvc.Create(context.Background(), CreateBookingInput{
				UserID: 1, ShowtimeID: 1, Seats: tc.seats, Method: "card",
			})
			if !errors.Is(err, ErrInvalidSeatCount) {
				t.Errorf("err = %v, want ErrInvalidSeatCount", err)
			}
		})
	}

	// Duplicates collapse before the count check: ten labels with a
	// repeat is nine seats and books fine.
	b, _ := mustBook(t, env, 1, "C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "C9")
	if len(b.Seats) != 9 {
		t.Errorf("deduped seat count = %d, want 9", len(b.Seats))
	}
}

func TestCreateBookingRejectsSeatsOutsideLayout(t *testing.T) {
	env := newTestEnv(t)

	for _, label := range []string{"K1", "A11", "AA1", "A0", "1A"} {
		_, _, err := env.bookingSvc.Create(context.Background(), CreateBookingInput{
			UserID: 1, ShowtimeID: 1, Seats: []string{label}, Method: "card",
		})
		if !errors.Is(err, ErrInvalidSeatLabel) {
			t.Errorf("label %q: err = %v, want ErrInvalidSeatLabel", label, err)
		}
	}
}

func TestCreateBookingUnknownShowtime(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.bookingSvc.Create(context.Background(), CreateBookingInput{
		UserID: 1, ShowtimeID: 42, Seats: []string{"A1"}, Method: "card",
	})
	if !errors.Is(err, repository.ErrShowtimeNotFound) {
		t.Fatalf("err = %v, want ErrShowtimeNotFound", err)
	}
}

func TestCancelReleasesSeatsAndFlagsRefund(t *testing.T) {
	env := newTestEnv(t)
	b, p := mustBook(t, env, 1, "B1", "B2")

	got, err := env.bookingSvc.Cancel(context.Background(), b.ID, 1, false)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if got.Status != model.BookingCancelled {
		t.Errorf("status = %q, want %q", got.Status, model.BookingCancelled)
	}

	// Payment moved to REFUND_PENDING with one history row.
	pp, err := env.paymentSvc.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if pp.Status != model.PaymentRefundPending {
		t.Errorf("payment status = %q, want %q", pp.Status, model.PaymentRefundPending)
	}
	hist, _ := env.payments.ListByPayment(context.Background(), p.ID)
	if len(hist) != 1 || hist[0].NewStatus != model.PaymentRefundPending {
		t.Errorf("history = %+v, want one REFUND_PENDING row", hist)
	}

	// Released seats are immediately bookable by someone else.
	b2, _ := mustBook(t, env, 2, "B1", "B2")
	if b2.Status != model.BookingConfirmed {
		t.Errorf("rebooking status = %q, want CONFIRMED", b2.Status)
	}
}

func TestCancelOwnershipAndOverride(t *testing.T) {
	env := newTestEnv(t)
	b, _ := mustBook(t, env, 1, "C1")

	if _, err := env.bookingSvc.Cancel(context.Background(), b.ID, 2, false); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("foreign cancel err = %v, want ErrForbidden", err)
	}
	if _, err := env.bookingSvc.Cancel(context.Background(), b.ID, 9, true); err != nil {
		t.Fatalf("admin override cancel failed: %v", err)
	}
}

func TestCancelTwiceIsInvalidTransition(t *testing.T) {
	env := newTestEnv(t)
	b, _ := mustBook(t, env, 1, "D1")

	if _, err := env.bookingSvc.Cancel(context.Background(), b.ID, 1, false); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if _, err := env.bookingSvc.Cancel(context.Background(), b.ID, 1, false); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Fatalf("second cancel err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelSurvivesRefundFlagFailure(t *testing.T) {
	env := newTestEnv(t)
	b, _ := mustBook(t, env, 1, "E1", "E2")

	env.payments.failTransition = true
	got, err := env.bookingSvc.Cancel(context.Background(), b.ID, 1, false)
	if !errors.Is(err, ErrRefundMarkFailed) {
		t.Fatalf("err = %v, want ErrRefundMarkFailed", err)
	}
	if got == nil || got.Status != model.BookingCancelled {
		t.Fatalf("booking not cancelled despite refund flag failure: %+v", got)
	}

	// Seats are still released: the cancellation is never rolled back.
	env.payments.failTransition = false
	if _, _, err := env.bookingSvc.Create(context.Background(), CreateBookingInput{
		UserID: 2, ShowtimeID: 1, Seats: []string{"E1"}, Method: "card",
	}); err != nil {
		t.Fatalf("rebooking released seat failed: %v", err)
	}
}

func TestGetForUserEnforcesOwnership(t *testing.T) {
	env := newTestEnv(t)
	b, _ := mustBook(t, env, 1, "F1")

	if _, err := env.bookingSvc.GetForUser(context.Background(), b.ID, 2, false); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("foreign read err = %v, want ErrForbidden", err)
	}
	if _, err := env.bookingSvc.GetForUser(context.Background(), b.ID, 2, true); err != nil {
		t.Errorf("override read failed: %v", err)
	}
	if _, err := env.bookingSvc.GetForUser(context.Background(), 999, 1, false); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("missing booking err = %v, want ErrBookingNotFound", err)
	}
}

func TestConcurrentCreateSingleWinnerPerSeat(t *testing.T) {
	env := newTestEnv(t)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = env.bookingSvc.Create(context.Background(), CreateBookingInput{
				UserID: uint64(i%2 + 1), ShowtimeID: 1, Seats: []string{"G7"}, Method: "card",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, repository.ErrSeatUnavailable):
		default:
			t.Errorf("attempt %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
	booked, _ := env.bookingSvc.availability.BookedSeats(context.Background(), 1, "2026-09-05", "19:30")
	if len(booked) != 1 || booked[0] != "G7" {
		t.Errorf("booked = %v, want [G7]", booked)
	}
}

func TestListByUserReturnsOwnBookingsOnly(t *testing.T) {
	env := newTestEnv(t)
	mustBook(t, env, 1, "H1")
	mustBook(t, env, 1, "H2")
	mustBook(t, env, 2, "H3")

	mine, err := env.bookingSvc.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len = %d, want 2", len(mine))
	}
	for _, b := range mine {
		if b.UserID != 1 {
			t.Errorf("booking %d belongs to user %d", b.ID, b.UserID)
		}
	}
}
