package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/model"
	"github.com/parintorn/table-reservation/internal/query"
	"github.com/parintorn/table-reservation/internal/queue"
	"github.com/parintorn/table-reservation/internal/repository"
)

// RestaurantHandler serves the catalog: public reads with filtering/sorting/
// pagination and admin-only mutations.
type RestaurantHandler struct {
	Restaurants *repository.RestaurantRepo
	Events      *queue.Publisher
}

func NewRestaurantHandler(restaurants *repository.RestaurantRepo, events *queue.Publisher) *RestaurantHandler {
	return &RestaurantHandler{Restaurants: restaurants, Events: events}
}

func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// List handles GET /api/v1/restaurants. Filters, sort, select and paging all
// come from the query string; see internal/query for the accepted grammar.
func (h *RestaurantHandler) List(c echo.Context) error {
	opts := query.ParseListOptions(c.QueryParams(), h.Restaurants.Columns())
	items, total, err := h.Restaurants.List(c.Request().Context(), opts)
	if err != nil {
		return respondError(c, err)
	}
	pg := paginationFor(opts.Page, opts.Limit, total)
	return respondList(c, len(items), pg, projectRestaurants(items, opts.Select))
}

// projectRestaurants applies the select projection, keeping only the
// requested API fields. Without a projection the full records are returned.
func projectRestaurants(items []model.Restaurant, sel []string) interface{} {
	if len(sel) == 0 {
		return items
	}
	out := make([]echo.Map, len(items))
	for i, r := range items {
		row := echo.Map{}
		for _, f := range sel {
			switch f {
			case "id":
				row["id"] = r.ID
			case "name":
				row["name"] = r.Name
			case "address":
				row["address"] = r.Address
			case "tel":
				row["tel"] = r.Tel
			case "openHours":
				row["openHours"] = r.OpenHours
			case "createdAt":
				row["createdAt"] = r.CreatedAt
			}
		}
		out[i] = row
	}
	return out
}

// Get handles GET /api/v1/restaurants/:id.
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return respondMessage(c, http.StatusBadRequest, "invalid restaurant id")
	}
	r, err := h.Restaurants.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, r)
}

// Create handles POST /api/v1/restaurants (admin only).
func (h *RestaurantHandler) Create(c echo.Context) error {
	var r model.Restaurant
	if err := c.Bind(&r); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	r.Normalize()
	if err := r.Validate(); err != nil {
		return respondError(c, err)
	}
	if err := h.Restaurants.Create(c.Request().Context(), &r); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, r)
}

// Update handles PUT /api/v1/restaurants/:id (admin only).
func (h *RestaurantHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return respondMessage(c, http.StatusBadRequest, "invalid restaurant id")
	}
	var r model.Restaurant
	if err := c.Bind(&r); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	r.Normalize()
	if err := r.Validate(); err != nil {
		return respondError(c, err)
	}
	if err := h.Restaurants.Update(c.Request().Context(), id, &r); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, r)
}

// Delete handles DELETE /api/v1/restaurants/:id (admin only). The dependent
// reservations are removed in the same transaction as the restaurant; one
// cascade event is emitted per removed reservation.
func (h *RestaurantHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return respondMessage(c, http.StatusBadRequest, "invalid restaurant id")
	}
	cascaded, err := h.Restaurants.DeleteCascade(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, rid := range cascaded {
		_ = h.Events.Publish(c.Request().Context(), queue.ReservationEvent{
			Action:        queue.ActionCascaded,
			ReservationID: rid,
			RestaurantID:  id,
			OccurredAt:    now,
		})
	}
	return respond(c, http.StatusOK, echo.Map{})
}
