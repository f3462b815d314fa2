package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
)

// AdminScreenHandler owns screen (auditorium) management.
type AdminScreenHandler struct {
	Screens *repository.ScreenRepo
}

func NewAdminScreenHandler(screens *repository.ScreenRepo) *AdminScreenHandler {
	if screens == nil {
		panic("nil repository passed to NewAdminScreenHandler")
	}
	return &AdminScreenHandler{Screens: screens}
}

type screenReq struct {
	Name        string   `json:"name"`
	SeatRows    uint32   `json:"seat_rows"`
	SeatsPerRow uint32   `json:"seats_per_row"`
	VIPRows     []string `json:"vip_rows"`
}

func (r *screenReq) toModel(s *model.Screen) string {
	s.Name = strings.TrimSpace(r.Name)
	if s.Name == "" {
		return "name is required"
	}
	s.SeatRows = r.SeatRows
	s.SeatsPerRow = r.SeatsPerRow
	s.Capacity = r.SeatRows * r.SeatsPerRow
	s.VIPRows = make([]string, 0, len(r.VIPRows))
	for _, v := range r.VIPRows {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			s.VIPRows = append(s.VIPRows, v)
		}
	}
	if !s.ValidLayout() {
		return "layout out of bounds: rows 1..26, seats per row 1..30, vip rows inside grid"
	}
	return ""
}

type screenResp struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	SeatRows    uint32   `json:"seat_rows"`
	SeatsPerRow uint32   `json:"seats_per_row"`
	VIPRows     []string `json:"vip_rows"`
	Capacity    uint32   `json:"capacity"`
}

func toScreenResp(s *model.Screen) screenResp {
	return screenResp{
		ID: s.ID, Name: s.Name, SeatRows: s.SeatRows,
		SeatsPerRow: s.SeatsPerRow, VIPRows: s.VIPRows, Capacity: s.Capacity,
	}
}

// ListScreens handles GET /v1/admin/screens.
func (h *AdminScreenHandler) ListScreens(c echo.Context) error {
	screens, err := h.Screens.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load screens"})
	}
	items := make([]screenResp, 0, len(screens))
	for i := range screens {
		items = append(items, toScreenResp(&screens[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateScreen handles POST /v1/admin/screens.
func (h *AdminScreenHandler) CreateScreen(c echo.Context) error {
	var req screenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var s model.Screen
	if msg := req.toModel(&s); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Screens.Create(c.Request().Context(), &s); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toScreenResp(&s)})
}

// UpdateScreen handles PUT /v1/admin/screens/:id.  Screens already in
// use by showtimes reject layout changes (409) because shrinking the
// grid could orphan sold seats.
func (h *AdminScreenHandler) UpdateScreen(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	var req screenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s := model.Screen{ID: id}
	if msg := req.toModel(&s); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Screens.Update(c.Request().Context(), &s); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toScreenResp(&s)})
}

// DeleteScreen handles DELETE /v1/admin/screens/:id.
func (h *AdminScreenHandler) DeleteScreen(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	if err := h.Screens.Delete(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
