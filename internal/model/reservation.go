package model

import "time"

// Reservation mirrors the 'reservations' table. UserID and RestaurantID are
// plain references; the owning entities hold no back-pointers.
type Reservation struct {
	ID           uint64    `json:"id"`
	ApptDate     time.Time `json:"apptDate"`
	UserID       uint64    `json:"user"`
	RestaurantID uint64    `json:"restaurant"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReservationDetail is a reservation enriched with the {name,address,tel}
// subset of its restaurant, as returned by every read path.
type ReservationDetail struct {
	ID           uint64            `json:"id"`
	ApptDate     time.Time         `json:"apptDate"`
	UserID       uint64            `json:"user"`
	RestaurantID uint64            `json:"restaurantId"`
	Restaurant   RestaurantSummary `json:"restaurant"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func (r *Reservation) Validate() error {
	fields := map[string]string{}
	if r.ApptDate.IsZero() {
		fields["apptDate"] = "appointment date is required"
	}
	if r.UserID == 0 {
		fields["user"] = "owning user is required"
	}
	if r.RestaurantID == 0 {
		fields["restaurant"] = "restaurant is required"
	}
	return newValidationError(fields)
}
