package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/parintorn/table-reservation/internal/model"
)

// ReservationRepo provides CRUD operations over the 'reservations' table.
// Read paths join the owning restaurant and expose only its {name, address,
// tel} subset. All timestamps are stored in UTC.
type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const detailQuery = `SELECT v.id, v.appt_date, v.user_id, v.restaurant_id,
       r.name, r.address, r.tel, v.created_at
FROM reservations v
JOIN restaurants r ON r.id = v.restaurant_id`

func scanDetail(row interface{ Scan(...interface{}) error }) (model.ReservationDetail, error) {
	var d model.ReservationDetail
	err := row.Scan(&d.ID, &d.ApptDate, &d.UserID, &d.RestaurantID,
		&d.Restaurant.Name, &d.Restaurant.Address, &d.Restaurant.Tel, &d.CreatedAt)
	return d, err
}

// Get fetches the raw ledger row, without restaurant enrichment. It is the
// cheap read used for ownership checks before mutations.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	var m model.Reservation
	err := r.db.QueryRowContext(ctx,
		"SELECT id, appt_date, user_id, restaurant_id, created_at FROM reservations WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.ApptDate, &m.UserID, &m.RestaurantID, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return m, err
}

// GetDetail fetches one reservation enriched with its restaurant subset.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	row := r.db.QueryRowContext(ctx, detailQuery+" WHERE v.id=? LIMIT 1", id)
	d, err := scanDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ReservationDetail{}, ErrReservationNotFound
	}
	return d, err
}

func (r *ReservationRepo) listDetails(ctx context.Context, where string, args ...interface{}) ([]model.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+where+" ORDER BY v.created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.ReservationDetail, error) {
	return r.listDetails(ctx, "")
}

// ListByUser returns the reservations owned by one user.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	return r.listDetails(ctx, " WHERE v.user_id=?", userID)
}

// ListByRestaurant returns the reservations referencing one restaurant.
func (r *ReservationRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.ReservationDetail, error) {
	return r.listDetails(ctx, " WHERE v.restaurant_id=?", restaurantID)
}

// CreateWithinCap atomically counts the owner's existing reservations and
// inserts the new one. The count locks the owner's rows (FOR UPDATE) so two
// concurrent creates for the same user serialize instead of both passing the
// check. When enforce is true and the count already reached limit, nothing is
// inserted and false is returned.
func (r *ReservationRepo) CreateWithinCap(ctx context.Context, res *model.Reservation, limit int, enforce bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if enforce {
		var count int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE user_id=? FOR UPDATE",
			res.UserID).Scan(&count)
		if err != nil {
			return false, err
		}
		if count >= limit {
			return false, nil
		}
	}

	ins, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (appt_date, user_id, restaurant_id) VALUES (?,?,?)",
		res.ApptDate.UTC(), res.UserID, res.RestaurantID)
	if err != nil {
		return false, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return false, err
	}
	res.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		"SELECT appt_date, created_at FROM reservations WHERE id=?",
		res.ID).Scan(&res.ApptDate, &res.CreatedAt); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// UpdateApptDate changes the appointment date, the only mutable field.
func (r *ReservationRepo) UpdateApptDate(ctx context.Context, id uint64, apptDate time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET appt_date=? WHERE id=?", apptDate.UTC(), id)
	return err
}

// Delete removes one reservation.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
