package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/service"
)

// BookingHandler exposes the customer booking lifecycle.  JWT and role
// middleware run before every method; admin override paths reuse the
// same handler with the back-office flag.
type BookingHandler struct {
	Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	ShowtimeID    uint64   `json:"showtime_id"`
	Seats         []string `json:"seats"`
	PaymentMethod string   `json:"payment_method"`
	CardLastFour  *string  `json:"card_last_four"`
}

type bookingResp struct {
	ID          uint64   `json:"id"`
	MovieTitle  string   `json:"movie_title"`
	DurationMin uint32   `json:"duration_min"`
	ScreenName  string   `json:"screen_name"`
	ShowDate    string   `json:"show_date"`
	ShowTime    string   `json:"show_time"`
	Seats       []string `json:"seats"`
	TotalCents  uint32   `json:"total_cents"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
}

type paymentResp struct {
	ID            uint64  `json:"id"`
	BookingID     uint64  `json:"booking_id"`
	AmountCents   uint32  `json:"amount_cents"`
	Method        string  `json:"method"`
	CardLastFour  *string `json:"card_last_four,omitempty"`
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID: b.ID, MovieTitle: b.MovieTitle, DurationMin: b.DurationMin,
		ScreenName: b.ScreenName, ShowDate: b.ShowDate, ShowTime: b.ShowTime,
		Seats: b.Seats, TotalCents: b.TotalCents, Status: b.Status,
		CreatedAt: b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func toPaymentResp(p *model.Payment) paymentResp {
	return paymentResp{
		ID: p.ID, BookingID: p.BookingID, AmountCents: p.AmountCents,
		Method: p.Method, CardLastFour: p.CardLastFour,
		TransactionID: p.TransactionID, Status: p.Status,
	}
}

// CreateBooking handles POST /v1/bookings.  Seats are booked and the
// payment captured in one transaction; the response carries both.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = "card"
	}

	b, p, err := h.Bookings.Create(c.Request().Context(), service.CreateBookingInput{
		UserID:       userID,
		ShowtimeID:   req.ShowtimeID,
		Seats:        req.Seats,
		Method:       method,
		CardLastFour: req.CardLastFour,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking": toBookingResp(b),
		"payment": toPaymentResp(p),
	})
}

// ListMyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  Customers see their own
// bookings; staff and admins can inspect any.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetForUser(c.Request().Context(), id, userID, isBackOffice(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(b)})
}

// CancelBooking handles DELETE /v1/bookings/:id.  Owners cancel their
// own bookings; staff and admins may cancel any.  The booking is
// cancelled, its seats released and the payment flagged for refund.
// When the refund flag fails the cancellation still stands and 202
// signals the pending follow-up.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.Cancel(c.Request().Context(), id, userID, isBackOffice(c))
	if err != nil {
		if errors.Is(err, service.ErrRefundMarkFailed) {
			return c.JSON(http.StatusAccepted, echo.Map{
				"booking": toBookingResp(b),
				"warning": "booking cancelled; refund request pending retry",
			})
		}
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResp(b)})
}
