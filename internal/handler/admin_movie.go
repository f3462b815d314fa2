package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

// AdminMovieHandler owns catalog mutation for movies.
type AdminMovieHandler struct {
	Movies *repository.MovieRepo
}

func NewAdminMovieHandler(movies *repository.MovieRepo) *AdminMovieHandler {
	if movies == nil {
		panic("nil repository passed to NewAdminMovieHandler")
	}
	return &AdminMovieHandler{Movies: movies}
}

type movieReq struct {
	Title       string   `json:"title"`
	DurationMin uint32   `json:"duration_min"`
	Genres      []string `json:"genres"`
	Rating      string   `json:"rating"`
	Synopsis    string   `json:"synopsis"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
	PosterURL   *string  `json:"poster_url"`
	TrailerURL  *string  `json:"trailer_url"`
	Status      string   `json:"status"`
}

// validate normalizes the payload and reports the first problem.  List
// entries are trimmed and commas stripped because genres and cast are
// stored in CSV columns.
func (r *movieReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title is required"
	}
	if r.DurationMin == 0 {
		return "duration_min must be positive"
	}
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = model.MovieComingSoon
	}
	if r.Status != model.MovieNowShowing && r.Status != model.MovieComingSoon {
		return "status must be NOW_SHOWING or COMING_SOON"
	}
	r.Genres = sanitizeList(r.Genres)
	r.Cast = sanitizeList(r.Cast)
	return ""
}

func sanitizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(strings.ReplaceAll(v, ",", " "))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (r *movieReq) toModel(m *model.Movie) {
	m.Title = r.Title
	m.DurationMin = r.DurationMin
	m.Genres = r.Genres
	m.Rating = strings.TrimSpace(r.Rating)
	m.Synopsis = strings.TrimSpace(r.Synopsis)
	m.Director = strings.TrimSpace(r.Director)
	m.Cast = r.Cast
	m.PosterURL = r.PosterURL
	m.TrailerURL = r.TrailerURL
	m.Status = r.Status
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminMovieHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	var m model.Movie
	req.toModel(&m)
	if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toMovieResp(&m)})
}

// UpdateMovie handles PUT /v1/admin/movies/:id.  Bookings keep their
// denormalized title and duration, so edits never rewrite history.
func (h *AdminMovieHandler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m := model.Movie{ID: id}
	req.toModel(&m)
	if err := h.Movies.Update(c.Request().Context(), &m); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toMovieResp(&m)})
}

// DeleteMovie handles DELETE /v1/admin/movies/:id.  Movies referenced
// by showtimes cannot be removed.
func (h *AdminMovieHandler) DeleteMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
