package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/handler"
	"github.com/Chintaro05/Cinebook-sub000/internal/middleware"
	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// AdminHandlers bundles the back-office handlers so registration stays
// a single call in main.
type AdminHandlers struct {
	Movies    *handler.AdminMovieHandler
	Screens   *handler.AdminScreenHandler
	Showtimes *handler.AdminShowtimeHandler
	Refunds   *handler.AdminRefundHandler
	Bookings  *handler.AdminBookingHandler
	Reports   *handler.AdminReportHandler
}

// RegisterAdmin registers the back office. Catalog management is
// admin-only; the refund desk, slot review and reports are open to
// staff as well.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.POST("/movies", h.Movies.CreateMovie)
	admin.PUT("/movies/:id", h.Movies.UpdateMovie)
	admin.DELETE("/movies/:id", h.Movies.DeleteMovie)

	admin.GET("/screens", h.Screens.ListScreens)
	admin.POST("/screens", h.Screens.CreateScreen)
	admin.PUT("/screens/:id", h.Screens.UpdateScreen)
	admin.DELETE("/screens/:id", h.Screens.DeleteScreen)

	admin.POST("/showtimes", h.Showtimes.CreateShowtime)
	admin.PUT("/showtimes/:id", h.Showtimes.UpdateShowtime)
	admin.DELETE("/showtimes/:id", h.Showtimes.DeleteShowtime)

	desk := e.Group("/v1/admin")
	desk.Use(middleware.JWTAuth(jwtSecret))
	desk.Use(middleware.RequireRole(model.RoleStaff, model.RoleAdmin))

	desk.GET("/refunds", h.Refunds.ListRefunds)
	desk.GET("/payments/:id", h.Refunds.GetPayment)
	desk.POST("/payments/:id/process", h.Refunds.ProcessRefund)
	desk.POST("/payments/:id/refund", h.Refunds.CompleteRefund)
	desk.POST("/payments/bulk", h.Refunds.BulkTransition)
	desk.GET("/payments/:id/timeline", h.Refunds.Timeline)

	desk.GET("/bookings", h.Bookings.ListSlotBookings)
	desk.GET("/reports/revenue", h.Reports.Revenue)
}
