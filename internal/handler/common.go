// Package handler contains the Echo HTTP handlers.  Handlers bind and
// validate request payloads, call into services or repositories and map
// domain errors onto HTTP status codes; they never embed business
// rules themselves.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
	"github.com/Chintaro05/Cinebook-sub000/internal/service"
)

// getUserID extracts the user_id set by the JWT middleware and converts
// it to uint64.  The JWT library decodes numeric claims as float64, so
// several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim set by the JWT middleware, or "" when
// absent.
func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// isBackOffice reports whether the request carries a STAFF or ADMIN
// role.
func isBackOffice(c echo.Context) bool {
	role := getRole(c)
	return role == "STAFF" || role == "ADMIN"
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// domainError translates sentinel errors from the repository and
// service layers into JSON error responses.  Handlers fall through to
// it after handling any case that needs extra response fields.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound),
		errors.Is(err, repository.ErrScreenNotFound),
		errors.Is(err, repository.ErrShowtimeNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrPaymentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats no longer available"})
	case errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting resource"})
	case errors.Is(err, service.ErrInvalidSeatCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat count must be between 1 and 10"})
	case errors.Is(err, service.ErrInvalidSeatLabel):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat label outside screen layout"})
	case errors.Is(err, service.ErrUnknownStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown target status"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
