package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/middleware"
	"github.com/parintorn/table-reservation/internal/model"
	"github.com/parintorn/table-reservation/internal/queue"
	"github.com/parintorn/table-reservation/internal/service"
)

// ReservationHandler exposes the reservation workflow over HTTP. All routes
// here sit behind JWTAuth; authorization decisions themselves live in the
// workflow service, never in the handler.
type ReservationHandler struct {
	Workflow *service.ReservationService
	Events   *queue.Publisher
}

func NewReservationHandler(workflow *service.ReservationService, events *queue.Publisher) *ReservationHandler {
	return &ReservationHandler{Workflow: workflow, Events: events}
}

type reservationReq struct {
	ApptDate time.Time `json:"apptDate"`
}

func (h *ReservationHandler) caller(c echo.Context) (service.Identity, bool) {
	return middleware.Caller(c)
}

func (h *ReservationHandler) publish(c echo.Context, action string, d model.ReservationDetail) {
	_ = h.Events.Publish(c.Request().Context(), queue.ReservationEvent{
		Action:         action,
		ReservationID:  d.ID,
		UserID:         d.UserID,
		RestaurantID:   d.RestaurantID,
		RestaurantName: d.Restaurant.Name,
		ApptDate:       d.ApptDate.UTC().Format(time.RFC3339),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// List handles GET /api/v1/reservations and
// GET /api/v1/restaurants/:id/reservations. The optional :id narrows the
// result for admins; non-admins always receive just their own reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	caller, ok := h.caller(c)
	if !ok {
		return respondMessage(c, http.StatusUnauthorized, "not authorized to access this route")
	}
	var restaurantID uint64
	if c.Param("id") != "" {
		id, ok := parseID(c)
		if !ok {
			return respondMessage(c, http.StatusBadRequest, "invalid restaurant id")
		}
		restaurantID = id
	}
	items, err := h.Workflow.List(c.Request().Context(), caller, restaurantID)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, len(items), nil, items)
}

// Get handles GET /api/v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	caller, ok := h.caller(c)
	if !ok {
		return respondMessage(c, http.StatusUnauthorized, "not authorized to access this route")
	}
	id, ok := parseID(c)
	if !ok {
		return respondMessage(c, http.StatusBadRequest, "invalid reservation id")
	}
	d, err := h.Workflow.Get(c.Request().Context(), caller, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, d)
}

// Create handles POST /api/v1/restaurants/:id/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	caller, ok := h.caller(c)
	if !ok {
		return respondMessage(c, http.StatusUnauthorized, "not authorized to access this route")
	}
	restaurantID, ok := parseID(c)
	if !ok {
		return respondMessage(c, http.StatusBadRequest, "invalid restaurant id")
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	d, err := h.Workflow.Create(c.Request().Context(), caller, restaurantID, req.ApptDate)
	if err != nil {
		return respondError(c, err)
	}
	h.publish(c, queue.ActionCreated, d)
	return respond(c, http.StatusCreated, d)
}

// Update handles PUT /api/v1/reservations/:id. Only the appointment date is
// meaningful in the patch; other fields are ignored.
func (h *ReservationHandler) Update(c echo.Context) error {
	caller, ok := h.caller(c)
	if !ok {
		return respondMessage(c, http.StatusUnauthorized, "not authorized to access this route")
	}
	id, ok := parseID(c)
	if !ok {
		return respondMessage(c, http.StatusBadRequest, "invalid reservation id")
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	d, err := h.Workflow.Update(c.Request().Context(), caller, id, req.ApptDate)
	if err != nil {
		return respondError(c, err)
	}
	h.publish(c, queue.ActionUpdated, d)
	return respond(c, http.StatusOK, d)
}

// Delete handles DELETE /api/v1/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	caller, ok := h.caller(c)
	if !ok {
		return respondMessage(c, http.StatusUnauthorized, "not authorized to access this route")
	}
	id, ok := parseID(c)
	if !ok {
		return respondMessage(c, http.StatusBadRequest, "invalid reservation id")
	}
	removed, err := h.Workflow.Delete(c.Request().Context(), caller, id)
	if err != nil {
		return respondError(c, err)
	}
	_ = h.Events.Publish(c.Request().Context(), queue.ReservationEvent{
		Action:        queue.ActionCancelled,
		ReservationID: removed.ID,
		UserID:        removed.UserID,
		RestaurantID:  removed.RestaurantID,
		ApptDate:      removed.ApptDate.UTC().Format(time.RFC3339),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return respond(c, http.StatusOK, echo.Map{})
}
