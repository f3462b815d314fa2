// Package router wires handlers onto the Echo instance. Routes are
// grouped by audience: public browse, auth, customer bookings and the
// back office.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/handler"
	"github.com/Chintaro05/Cinebook-sub000/internal/middleware"
	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// RegisterRoutes registers routes that need no authentication or
// handler state.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Register, login,
// refresh and logout are open; /v1/me requires a valid access token and
// /v1/admin/users is reserved for administrators provisioning staff.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/users", a.CreateUser)
}

// RegisterPublic registers the guest browse surface. The cache
// middleware is applied here so catalog reads can be served from Redis.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/movies", p.ListMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/movies/:id/showtimes", p.ListMovieShowtimes)
	g.GET("/showtimes/:id", p.GetShowtime)
	g.GET("/showtimes/:id/seats", p.GetShowtimeSeats)
	g.GET("/screens/:id/layout", p.GetScreenLayout)
}
