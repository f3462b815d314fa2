package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

// AdminShowtimeHandler schedules showtimes.  Every create or update
// checks the screen's fixed conflict window so two screenings can never
// intersect on one screen.
type AdminShowtimeHandler struct {
	Movies    *repository.MovieRepo
	Screens   *repository.ScreenRepo
	Showtimes *repository.ShowtimeRepo
}

func NewAdminShowtimeHandler(movies *repository.MovieRepo, screens *repository.ScreenRepo, showtimes *repository.ShowtimeRepo) *AdminShowtimeHandler {
	if movies == nil || screens == nil || showtimes == nil {
		panic("nil repository passed to NewAdminShowtimeHandler")
	}
	return &AdminShowtimeHandler{Movies: movies, Screens: screens, Showtimes: showtimes}
}

type showtimeReq struct {
	MovieID    uint64 `json:"movie_id"`
	ScreenID   uint64 `json:"screen_id"`
	ShowDate   string `json:"show_date"` // YYYY-MM-DD
	ShowTime   string `json:"show_time"` // HH:MM
	PriceCents uint32 `json:"price_cents"`
}

func (r *showtimeReq) toModel(st *model.Showtime) string {
	if r.MovieID == 0 || r.ScreenID == 0 {
		return "movie_id and screen_id are required"
	}
	if r.PriceCents == 0 {
		return "price_cents must be positive"
	}
	st.MovieID = r.MovieID
	st.ScreenID = r.ScreenID
	st.ShowDate = strings.TrimSpace(r.ShowDate)
	st.ShowTime = strings.TrimSpace(r.ShowTime)
	st.PriceCents = r.PriceCents
	if _, err := time.Parse("2006-01-02", st.ShowDate); err != nil {
		return "show_date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", st.ShowTime); err != nil {
		return "show_time must be HH:MM"
	}
	return ""
}

// conflictingIDs returns the showtimes whose fixed windows intersect
// the proposed slot on its screen.  excludeID skips the showtime being
// updated in place.
func (h *AdminShowtimeHandler) conflictingIDs(c echo.Context, st *model.Showtime, excludeID uint64) ([]uint64, error) {
	start, err := st.StartsAt()
	if err != nil {
		return nil, err
	}
	overlapping, err := h.Showtimes.FindOverlapping(c.Request().Context(), st.ScreenID, start, excludeID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(overlapping))
	for _, o := range overlapping {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

// CreateShowtime handles POST /v1/admin/showtimes.
func (h *AdminShowtimeHandler) CreateShowtime(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var st model.Showtime
	if msg := req.toModel(&st); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, st.MovieID); err != nil {
		return domainError(c, err)
	}
	if _, err := h.Screens.GetByID(ctx, st.ScreenID); err != nil {
		return domainError(c, err)
	}
	conflicting, err := h.conflictingIDs(c, &st, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check schedule"})
	}
	if len(conflicting) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "showtime conflicts with existing schedule on this screen",
			"conflicting": conflicting,
		})
	}
	if err := h.Showtimes.Create(ctx, &st); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toShowtimeResp(&st)})
}

// UpdateShowtime handles PUT /v1/admin/showtimes/:id.
func (h *AdminShowtimeHandler) UpdateShowtime(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	st := model.Showtime{ID: id}
	if msg := req.toModel(&st); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
		return domainError(c, err)
	}
	if _, err := h.Movies.GetByID(ctx, st.MovieID); err != nil {
		return domainError(c, err)
	}
	if _, err := h.Screens.GetByID(ctx, st.ScreenID); err != nil {
		return domainError(c, err)
	}
	conflicting, err := h.conflictingIDs(c, &st, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check schedule"})
	}
	if len(conflicting) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "showtime conflicts with existing schedule on this screen",
			"conflicting": conflicting,
		})
	}
	if err := h.Showtimes.Update(ctx, &st); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toShowtimeResp(&st)})
}

// DeleteShowtime handles DELETE /v1/admin/showtimes/:id.  Showtimes
// with live bookings cannot be removed.
func (h *AdminShowtimeHandler) DeleteShowtime(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	if err := h.Showtimes.Delete(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
