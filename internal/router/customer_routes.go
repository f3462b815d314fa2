package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/handler"
	"github.com/Chintaro05/Cinebook-sub000/internal/middleware"
	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// RegisterBookings registers the customer booking surface. Staff and
// admins share the routes so they can look up and cancel on behalf of
// customers; ownership checks happen in the handlers.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleStaff, model.RoleAdmin))

	g.POST("/bookings", b.CreateBooking)
	g.GET("/my-bookings", b.ListMyBookings)
	g.GET("/bookings/:id", b.GetBooking)
	g.DELETE("/bookings/:id", b.CancelBooking)
}
