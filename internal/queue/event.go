// Package queue defines the reservation lifecycle events exchanged over the
// message broker and the background consumer that turns them into an audit
// log.
package queue

// Event actions published on the reservation.events queue.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCancelled = "cancelled"
	ActionCascaded  = "cascade_deleted"
)

// EventsQueueName is the durable queue all reservation events go through.
const EventsQueueName = "reservation.events"

// ReservationEvent is published on every reservation mutation. It carries
// enough context for downstream consumers to log or notify without querying
// the primary database.
type ReservationEvent struct {
	Action         string `json:"action"`
	ReservationID  uint64 `json:"reservation_id"`
	UserID         uint64 `json:"user_id"`
	RestaurantID   uint64 `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	ApptDate       string `json:"appt_date,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}
