package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/queue"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

// In-memory store fixtures.  They mirror the MySQL repositories'
// contracts: the claim map plays the role of the unique key on
// booking_seats, and payment transitions are guarded on the current
// status exactly like the SQL UPDATE.

type fakeMovies struct{ m map[uint64]*model.Movie }

func (f *fakeMovies) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
	if mv, ok := f.m[id]; ok {
		return mv, nil
	}
	return nil, repository.ErrMovieNotFound
}

type fakeScreens struct{ m map[uint64]*model.Screen }

func (f *fakeScreens) GetByID(_ context.Context, id uint64) (*model.Screen, error) {
	if s, ok := f.m[id]; ok {
		return s, nil
	}
	return nil, repository.ErrScreenNotFound
}

type fakeShowtimes struct{ m map[uint64]*model.Showtime }

func (f *fakeShowtimes) GetByID(_ context.Context, id uint64) (*model.Showtime, error) {
	if st, ok := f.m[id]; ok {
		return st, nil
	}
	return nil, repository.ErrShowtimeNotFound
}

type fakeUsers struct{ m map[uint64]model.User }

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := f.m[id]; ok {
		return u, nil
	}
	return model.User{}, fmt.Errorf("user %d not found", id)
}

func slotKey(screenID uint64, date, tm, label string) string {
	return fmt.Sprintf("%d|%s|%s|%s", screenID, date, tm, label)
}

type fakeBookingStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
	claims   map[string]uint64 // slot key -> booking id
	payments *fakePaymentStore
}

func newFakeBookingStore(p *fakePaymentStore) *fakeBookingStore {
	return &fakeBookingStore{
		bookings: make(map[uint64]*model.Booking),
		claims:   make(map[string]uint64),
		payments: p,
	}
}

func (f *fakeBookingStore) CreateConfirmed(_ context.Context, b *model.Booking, p *model.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, label := range b.Seats {
		if _, taken := f.claims[slotKey(b.ScreenID, b.ShowDate, b.ShowTime, label)]; taken {
			return repository.ErrSeatUnavailable
		}
	}
	f.nextID++
	b.ID = f.nextID
	b.Status = model.BookingConfirmed
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	for _, label := range b.Seats {
		f.claims[slotKey(b.ScreenID, b.ShowDate, b.ShowTime, label)] = b.ID
	}
	cp := *b
	f.bookings[b.ID] = &cp
	p.BookingID = b.ID
	f.payments.insert(p)
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) MarkCancelled(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	if b.Status != model.BookingConfirmed {
		return nil, repository.ErrInvalidTransition
	}
	b.Status = model.BookingCancelled
	b.UpdatedAt = time.Now().UTC()
	for _, label := range b.Seats {
		delete(f.claims, slotKey(b.ScreenID, b.ShowDate, b.ShowTime, label))
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ClaimedSeats(_ context.Context, screenID uint64, showDate, showTime string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := fmt.Sprintf("%d|%s|%s|", screenID, showDate, showTime)
	out := make([]string, 0)
	for key := range f.claims {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, key[len(prefix):])
		}
	}
	return out, nil
}

type fakePaymentStore struct {
	mu             sync.Mutex
	nextID         uint64
	clock          int64 // seconds since base, bumps per write for stable ordering
	payments       map[uint64]*model.Payment
	history        map[uint64][]model.RefundStatusChange
	failTransition bool
}

var fakeBase = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{
		payments: make(map[uint64]*model.Payment),
		history:  make(map[uint64][]model.RefundStatusChange),
	}
}

func (f *fakePaymentStore) tick() time.Time {
	f.clock++
	return fakeBase.Add(time.Duration(f.clock) * time.Second)
}

// insert is called with f's mutex NOT held only from fakeBookingStore,
// which serializes through its own lock in these tests.
func (f *fakePaymentStore) insert(p *model.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	p.Status = model.PaymentCompleted
	p.CreatedAt = f.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.payments[p.ID] = &cp
}

func (f *fakePaymentStore) GetByID(_ context.Context, id uint64) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) GetByBooking(_ context.Context, bookingID uint64) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPaymentNotFound
}

func (f *fakePaymentStore) ListByStatus(_ context.Context, status string) ([]model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Payment, 0)
	for _, p := range f.payments {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) Transition(_ context.Context, id uint64, oldStatus, newStatus string, changedBy *uint64, notes *string) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTransition {
		return nil, fmt.Errorf("store unavailable")
	}
	p, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	if p.Status != oldStatus {
		return nil, repository.ErrInvalidTransition
	}
	p.Status = newStatus
	p.UpdatedAt = f.tick()
	old := oldStatus
	f.history[id] = append(f.history[id], model.RefundStatusChange{
		ID:        uint64(len(f.history[id]) + 1),
		PaymentID: id,
		OldStatus: &old,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Notes:     notes,
		CreatedAt: p.UpdatedAt,
	})
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) ListByPayment(_ context.Context, paymentID uint64) ([]model.RefundStatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.RefundStatusChange, len(f.history[paymentID]))
	copy(out, f.history[paymentID])
	return out, nil
}

// recordingNotifier captures published event kinds for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
	fail  bool
}

func (r *recordingNotifier) Notify(_ context.Context, ev queue.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("broker unreachable")
	}
	r.kinds = append(r.kinds, ev.Kind)
	return nil
}

func (r *recordingNotifier) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.kinds))
	copy(out, r.kinds)
	return out
}
