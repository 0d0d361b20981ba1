//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/parintorn/table-reservation/internal/database"
	"github.com/parintorn/table-reservation/internal/model"
)

// openTestDB connects using the same DB_* variables the server reads. The
// suite is skipped unless DB_HOST is set, so `go test -tags integration`
// only runs against an explicitly provided MySQL instance.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST not set; skipping integration suite")
	}
	db, err := database.Open(
		os.Getenv("DB_USER"), os.Getenv("DB_PASS"),
		host, os.Getenv("DB_PORT"), os.Getenv("DB_NAME"),
	)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *sql.DB) uint64 {
	t.Helper()
	users := NewUserRepo(db)
	id, err := users.Create(context.Background(), model.Registration{
		Name:     "cascade tester",
		Tel:      "0800000000",
		Email:    fmt.Sprintf("cascade-%d@example.com", time.Now().UnixNano()),
		Password: "secret1",
		Role:     model.RoleUser,
	}, 4)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM reservations WHERE user_id=?", id)
		_, _ = db.Exec("DELETE FROM users WHERE id=?", id)
	})
	return id
}

func seedRestaurant(t *testing.T, db *sql.DB, label string) *model.Restaurant {
	t.Helper()
	restaurants := NewRestaurantRepo(db)
	r := &model.Restaurant{
		Name:      fmt.Sprintf("%s %d", label, time.Now().UnixNano()),
		Address:   "1 Main St",
		Tel:       "021234567",
		OpenHours: "10:00-22:00",
	}
	if err := restaurants.Create(context.Background(), r); err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM reservations WHERE restaurant_id=?", r.ID)
		_, _ = db.Exec("DELETE FROM restaurants WHERE id=?", r.ID)
	})
	return r
}

func seedReservation(t *testing.T, db *sql.DB, userID, restaurantID uint64) uint64 {
	t.Helper()
	reservations := NewReservationRepo(db)
	res := &model.Reservation{
		ApptDate:     time.Now().UTC().AddDate(0, 0, 1).Truncate(time.Second),
		UserID:       userID,
		RestaurantID: restaurantID,
	}
	created, err := reservations.CreateWithinCap(context.Background(), res, 0, false)
	if err != nil || !created {
		t.Fatalf("seed reservation: created=%v err=%v", created, err)
	}
	return res.ID
}

func TestDeleteCascade_RemovesDependentsAndNoOthers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	restaurants := NewRestaurantRepo(db)
	reservations := NewReservationRepo(db)

	userID := seedUser(t, db)
	doomed := seedRestaurant(t, db, "doomed")
	survivor := seedRestaurant(t, db, "survivor")

	doomedRes := []uint64{
		seedReservation(t, db, userID, doomed.ID),
		seedReservation(t, db, userID, doomed.ID),
	}
	survivorRes := seedReservation(t, db, userID, survivor.ID)

	cascaded, err := restaurants.DeleteCascade(ctx, doomed.ID)
	if err != nil {
		t.Fatalf("DeleteCascade() error = %v", err)
	}
	got := map[uint64]bool{}
	for _, id := range cascaded {
		got[id] = true
	}
	if len(cascaded) != len(doomedRes) {
		t.Errorf("cascaded %d reservations, want %d", len(cascaded), len(doomedRes))
	}
	for _, id := range doomedRes {
		if !got[id] {
			t.Errorf("reservation %d missing from cascade result %v", id, cascaded)
		}
		if _, err := reservations.Get(ctx, id); !errors.Is(err, ErrReservationNotFound) {
			t.Errorf("reservation %d still readable after cascade (err=%v)", id, err)
		}
	}

	if _, err := restaurants.GetByID(ctx, doomed.ID); !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("deleted restaurant still readable (err=%v)", err)
	}

	// Rows belonging to other restaurants must be untouched.
	if _, err := restaurants.GetByID(ctx, survivor.ID); err != nil {
		t.Errorf("unrelated restaurant gone after cascade: %v", err)
	}
	if _, err := reservations.Get(ctx, survivorRes); err != nil {
		t.Errorf("unrelated reservation gone after cascade: %v", err)
	}
}

func TestDeleteCascade_MissingRestaurant(t *testing.T) {
	db := openTestDB(t)
	restaurants := NewRestaurantRepo(db)

	_, err := restaurants.DeleteCascade(context.Background(), 1<<60)
	if !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("DeleteCascade(missing) error = %v, want ErrRestaurantNotFound", err)
	}
}
