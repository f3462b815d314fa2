package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
	"github.com/Chintaro05/Cinebook-sub000/internal/service"
)

// PublicHandler serves the unauthenticated browse surface: the movie
// catalog, showtimes, screen layouts and live seat availability.
type PublicHandler struct {
	Movies       *repository.MovieRepo
	Screens      *repository.ScreenRepo
	Showtimes    *repository.ShowtimeRepo
	Availability *service.AvailabilityIndex
}

// NewPublicHandler constructs a PublicHandler.  All dependencies must
// be non-nil.
func NewPublicHandler(movies *repository.MovieRepo, screens *repository.ScreenRepo, showtimes *repository.ShowtimeRepo, availability *service.AvailabilityIndex) *PublicHandler {
	if movies == nil || screens == nil || showtimes == nil || availability == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Movies: movies, Screens: screens, Showtimes: showtimes, Availability: availability}
}

type movieResp struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	DurationMin uint32   `json:"duration_min"`
	Genres      []string `json:"genres"`
	Rating      string   `json:"rating"`
	Synopsis    string   `json:"synopsis"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	TrailerURL  *string  `json:"trailer_url,omitempty"`
	Status      string   `json:"status"`
}

func toMovieResp(m *model.Movie) movieResp {
	return movieResp{
		ID: m.ID, Title: m.Title, DurationMin: m.DurationMin, Genres: m.Genres,
		Rating: m.Rating, Synopsis: m.Synopsis, Director: m.Director, Cast: m.Cast,
		PosterURL: m.PosterURL, TrailerURL: m.TrailerURL, Status: m.Status,
	}
}

type showtimeResp struct {
	ID         uint64 `json:"id"`
	MovieID    uint64 `json:"movie_id"`
	ScreenID   uint64 `json:"screen_id"`
	ShowDate   string `json:"show_date"`
	ShowTime   string `json:"show_time"`
	PriceCents uint32 `json:"price_cents"`
}

func toShowtimeResp(st *model.Showtime) showtimeResp {
	return showtimeResp{
		ID: st.ID, MovieID: st.MovieID, ScreenID: st.ScreenID,
		ShowDate: st.ShowDate, ShowTime: st.ShowTime, PriceCents: st.PriceCents,
	}
}

// ListMovies handles GET /v1/movies.  The optional ?status= filter
// accepts NOW_SHOWING or COMING_SOON.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && status != model.MovieNowShowing && status != model.MovieComingSoon {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	movies, err := h.Movies.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	items := make([]movieResp, 0, len(movies))
	for i := range movies {
		items = append(items, toMovieResp(&movies[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie handles GET /v1/movies/:id.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toMovieResp(m)})
}

// ListMovieShowtimes handles GET /v1/movies/:id/showtimes with an
// optional ?date=YYYY-MM-DD filter.
func (h *PublicHandler) ListMovieShowtimes(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		return domainError(c, err)
	}
	showtimes, err := h.Showtimes.ListByMovie(ctx, id, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
	}
	items := make([]showtimeResp, 0, len(showtimes))
	for i := range showtimes {
		items = append(items, toShowtimeResp(&showtimes[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetShowtime handles GET /v1/showtimes/:id.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	st, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toShowtimeResp(st)})
}

// seatResp is one entry of the seat map returned for a showtime.
type seatResp struct {
	Label  string `json:"label"`
	Row    string `json:"row"`
	VIP    bool   `json:"vip"`
	Booked bool   `json:"booked"`
}

// GetShowtimeSeats handles GET /v1/showtimes/:id/seats.  It returns the
// full grid of the hosting screen with per-seat availability derived
// from live bookings.
func (h *PublicHandler) GetShowtimeSeats(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()
	st, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	screen, err := h.Screens.GetByID(ctx, st.ScreenID)
	if err != nil {
		return domainError(c, err)
	}
	booked, err := h.Availability.BookedSeats(ctx, st.ScreenID, st.ShowDate, st.ShowTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	taken := make(map[string]struct{}, len(booked))
	for _, l := range booked {
		taken[l] = struct{}{}
	}
	seats := make([]seatResp, 0, screen.Capacity)
	for _, label := range screen.SeatLabels() {
		row, _, _ := model.ParseSeatLabel(label)
		_, isBooked := taken[label]
		seats = append(seats, seatResp{
			Label:  label,
			Row:    row,
			VIP:    screen.IsVIPRow(row),
			Booked: isBooked,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime": toShowtimeResp(st),
		"screen":   echo.Map{"id": screen.ID, "name": screen.Name},
		"seats":    seats,
	})
}

// GetScreenLayout handles GET /v1/screens/:id/layout.  It returns the
// static grid so clients can render a hall before picking a showtime.
func (h *PublicHandler) GetScreenLayout(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	screen, err := h.Screens.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	rows := make([]echo.Map, 0, screen.SeatRows)
	for r := uint32(0); r < screen.SeatRows; r++ {
		letter := string(rune('A' + r))
		rows = append(rows, echo.Map{
			"row":   letter,
			"seats": screen.SeatsPerRow,
			"vip":   screen.IsVIPRow(letter),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":       screen.ID,
		"name":     screen.Name,
		"capacity": screen.Capacity,
		"rows":     rows,
	})
}
