package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

// AdminReportHandler serves lightweight revenue sums over confirmed
// bookings.  Anything beyond sums stays out of scope.
type AdminReportHandler struct {
	Bookings *repository.BookingRepo
}

func NewAdminReportHandler(bookings *repository.BookingRepo) *AdminReportHandler {
	if bookings == nil {
		panic("nil repository passed to NewAdminReportHandler")
	}
	return &AdminReportHandler{Bookings: bookings}
}

// Revenue handles GET /v1/admin/reports/revenue?from=&to= (inclusive
// dates).  Missing bounds default to the last 30 days.
func (h *AdminReportHandler) Revenue(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	now := time.Now().UTC()
	if to == "" {
		to = now.Format("2006-01-02")
	}
	if from == "" {
		from = now.AddDate(0, 0, -30).Format("2006-01-02")
	}
	fromT, err := time.Parse("2006-01-02", from)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
	}
	toT, err := time.Parse("2006-01-02", to)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
	}
	if toT.Before(fromT) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to precedes from"})
	}

	total, count, err := h.Bookings.Revenue(c.Request().Context(), from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute revenue"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":              from,
		"to":                to,
		"total_cents":       total,
		"confirmed_bookings": count,
	})
}
