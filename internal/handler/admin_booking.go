package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

// AdminBookingHandler lets back-office staff review the bookings on a
// showtime slot.  Cancellation overrides go through the regular
// BookingHandler, which honors the STAFF/ADMIN role.
type AdminBookingHandler struct {
	Bookings  *repository.BookingRepo
	Showtimes *repository.ShowtimeRepo
}

func NewAdminBookingHandler(bookings *repository.BookingRepo, showtimes *repository.ShowtimeRepo) *AdminBookingHandler {
	if bookings == nil || showtimes == nil {
		panic("nil repository passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Bookings: bookings, Showtimes: showtimes}
}

// ListSlotBookings handles GET /v1/admin/bookings?showtime_id=.  It
// resolves the showtime to its screen/date/time slot and returns every
// booking on it regardless of status.
func (h *AdminBookingHandler) ListSlotBookings(c echo.Context) error {
	showtimeID, err := strconv.ParseUint(c.QueryParam("showtime_id"), 10, 64)
	if err != nil || showtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}
	ctx := c.Request().Context()
	st, err := h.Showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return domainError(c, err)
	}
	bookings, err := h.Bookings.ListBySlot(ctx, st.ScreenID, st.ShowDate, st.ShowTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime": toShowtimeResp(st),
		"items":    items,
	})
}
