// Package handler implements the HTTP surface. Every response uses the
// common envelope {success, data?, count?, pagination?, message?} and every
// failure is converted locally; no error escapes a handler.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/model"
	"github.com/parintorn/table-reservation/internal/repository"
	"github.com/parintorn/table-reservation/internal/service"
)

type pageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type pagination struct {
	Next *pageRef `json:"next,omitempty"`
	Prev *pageRef `json:"prev,omitempty"`
}

// paginationFor builds the next/prev links for a page over total rows, or
// nil when the whole result fits a single page.
func paginationFor(page, limit, total int) *pagination {
	var pg pagination
	if page*limit < total {
		pg.Next = &pageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		pg.Prev = &pageRef{Page: page - 1, Limit: limit}
	}
	if pg.Next == nil && pg.Prev == nil {
		return nil
	}
	return &pg
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func respondList(c echo.Context, count int, pg *pagination, data interface{}) error {
	body := echo.Map{"success": true, "count": count, "data": data}
	if pg != nil {
		body["pagination"] = pg
	}
	return c.JSON(http.StatusOK, body)
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// respondError maps the error taxonomy onto HTTP statuses. Unknown errors
// become an opaque 500 so store internals never leak to clients.
func respondError(c echo.Context, err error) error {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return respondMessage(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrNameExists),
		errors.Is(err, service.ErrAdmissionDenied):
		return respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRestaurantNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return respondMessage(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrForbidden):
		return respondMessage(c, http.StatusForbidden, "not authorized to access this reservation")
	default:
		c.Logger().Error(err)
		return respondMessage(c, http.StatusInternalServerError, "internal server error")
	}
}
