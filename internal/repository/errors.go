// Package repository implements the persistence layer over database/sql.
// Sentinel errors defined here let handlers and the workflow service
// distinguish failure cases without string matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// reservation owned by someone else. Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrRestaurantNotFound is returned when a restaurant lookup matches no row.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrReservationNotFound is returned when a reservation lookup matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrEmailExists signals a unique-index violation on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrNameExists signals a unique-index violation on restaurants.name.
var ErrNameExists = errors.New("restaurant name already exists")
