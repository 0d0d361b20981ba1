// Package service holds the reservation workflow: the booking cap and the
// ownership rule. Every operation re-derives authorization from the identity
// resolved by the auth middleware, never from client-supplied fields.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/parintorn/table-reservation/internal/model"
	"github.com/parintorn/table-reservation/internal/repository"
)

// MaxActiveReservations is the cap applied to non-admin callers, counted
// across all restaurants.
const MaxActiveReservations = 3

// ErrAdmissionDenied is returned when a non-admin caller already holds the
// maximum number of reservations.
var ErrAdmissionDenied = errors.New("reservation limit reached")

// Identity is the {id, role} pair resolved from the session credential.
type Identity struct {
	UserID uint64
	Role   string
}

// allows reports whether the identity may act on a reservation owned by the
// given user.
func (i Identity) allows(owner uint64) bool {
	return i.Role == model.RoleAdmin || i.UserID == owner
}

// ReservationStore is the ledger surface the workflow depends on. It is
// implemented by repository.ReservationRepo.
type ReservationStore interface {
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	GetDetail(ctx context.Context, id uint64) (model.ReservationDetail, error)
	ListAll(ctx context.Context) ([]model.ReservationDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error)
	ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.ReservationDetail, error)
	CreateWithinCap(ctx context.Context, res *model.Reservation, limit int, enforce bool) (bool, error)
	UpdateApptDate(ctx context.Context, id uint64, apptDate time.Time) error
	Delete(ctx context.Context, id uint64) error
}

// RestaurantStore is the catalog surface the workflow depends on. It is
// implemented by repository.RestaurantRepo.
type RestaurantStore interface {
	GetByID(ctx context.Context, id uint64) (model.Restaurant, error)
}

// ReservationService enforces the booking-cap and ownership rules on top of
// the ledger.
type ReservationService struct {
	reservations ReservationStore
	restaurants  RestaurantStore
}

func NewReservationService(reservations ReservationStore, restaurants RestaurantStore) *ReservationService {
	return &ReservationService{reservations: reservations, restaurants: restaurants}
}

// List scopes the result set by the caller's role: non-admins only ever see
// their own reservations; admins see all, optionally narrowed to one
// restaurant. A zero restaurantID means no scope.
func (s *ReservationService) List(ctx context.Context, caller Identity, restaurantID uint64) ([]model.ReservationDetail, error) {
	if caller.Role != model.RoleAdmin {
		return s.reservations.ListByUser(ctx, caller.UserID)
	}
	if restaurantID != 0 {
		return s.reservations.ListByRestaurant(ctx, restaurantID)
	}
	return s.reservations.ListAll(ctx)
}

// Get returns one enriched reservation, or ErrForbidden when the caller is
// neither its owner nor an admin.
func (s *ReservationService) Get(ctx context.Context, caller Identity, id uint64) (model.ReservationDetail, error) {
	d, err := s.reservations.GetDetail(ctx, id)
	if err != nil {
		return model.ReservationDetail{}, err
	}
	if !caller.allows(d.UserID) {
		return model.ReservationDetail{}, repository.ErrForbidden
	}
	return d, nil
}

// Create books a reservation for the caller against an existing restaurant.
// Non-admins are admitted only while they hold fewer than
// MaxActiveReservations; the count and the insert run in one transaction so
// concurrent creates cannot overrun the cap.
func (s *ReservationService) Create(ctx context.Context, caller Identity, restaurantID uint64, apptDate time.Time) (model.ReservationDetail, error) {
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		return model.ReservationDetail{}, err
	}
	res := &model.Reservation{
		ApptDate:     apptDate,
		UserID:       caller.UserID,
		RestaurantID: restaurantID,
	}
	if err := res.Validate(); err != nil {
		return model.ReservationDetail{}, err
	}
	enforce := caller.Role != model.RoleAdmin
	created, err := s.reservations.CreateWithinCap(ctx, res, MaxActiveReservations, enforce)
	if err != nil {
		return model.ReservationDetail{}, err
	}
	if !created {
		return model.ReservationDetail{}, ErrAdmissionDenied
	}
	return s.reservations.GetDetail(ctx, res.ID)
}

// Update applies a new appointment date, the only meaningful patch field,
// after re-running validation. Ownership rules match Get.
func (s *ReservationService) Update(ctx context.Context, caller Identity, id uint64, apptDate time.Time) (model.ReservationDetail, error) {
	existing, err := s.reservations.Get(ctx, id)
	if err != nil {
		return model.ReservationDetail{}, err
	}
	if !caller.allows(existing.UserID) {
		return model.ReservationDetail{}, repository.ErrForbidden
	}
	patched := existing
	patched.ApptDate = apptDate
	if err := patched.Validate(); err != nil {
		return model.ReservationDetail{}, err
	}
	if err := s.reservations.UpdateApptDate(ctx, id, apptDate); err != nil {
		return model.ReservationDetail{}, err
	}
	return s.reservations.GetDetail(ctx, id)
}

// Delete removes one reservation under the same ownership rule as Get.
func (s *ReservationService) Delete(ctx context.Context, caller Identity, id uint64) (model.Reservation, error) {
	existing, err := s.reservations.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if !caller.allows(existing.UserID) {
		return model.Reservation{}, repository.ErrForbidden
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return model.Reservation{}, err
	}
	return existing, nil
}
