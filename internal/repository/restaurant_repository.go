package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/parintorn/table-reservation/internal/model"
	"github.com/parintorn/table-reservation/internal/query"
)

// RestaurantRepo provides CRUD and filtered listing over the 'restaurants'
// table. Deletion cascades to dependent reservations inside one transaction
// so the ledger can never hold rows pointing at a removed restaurant.
type RestaurantRepo struct{ db *sql.DB }

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

const restaurantColumns = "id, name, address, tel, open_hours, created_at"

// Columns whitelists the API field names accepted by listing filters, sorts
// and projections, mapped to their SQL columns.
func (r *RestaurantRepo) Columns() map[string]string {
	return map[string]string{
		"id":        "id",
		"name":      "name",
		"address":   "address",
		"tel":       "tel",
		"openHours": "open_hours",
		"createdAt": "created_at",
	}
}

func scanRestaurant(row interface{ Scan(...interface{}) error }) (model.Restaurant, error) {
	var m model.Restaurant
	err := row.Scan(&m.ID, &m.Name, &m.Address, &m.Tel, &m.OpenHours, &m.CreatedAt)
	return m, err
}

// Create inserts the restaurant and reads the stored row back so defaults
// (created_at) are populated. Duplicate names map to ErrNameExists.
func (r *RestaurantRepo) Create(ctx context.Context, m *model.Restaurant) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO restaurants (name, address, tel, open_hours) VALUES (?,?,?,?)",
		m.Name, m.Address, m.Tel, m.OpenHours)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// GetByID fetches one restaurant.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (model.Restaurant, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id=? LIMIT 1", id)
	m, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Restaurant{}, ErrRestaurantNotFound
	}
	return m, err
}

// List applies the parsed filter/sort/page options and returns the matching
// page plus the total row count for pagination links.
func (r *RestaurantRepo) List(ctx context.Context, opts query.ListOptions) ([]model.Restaurant, int, error) {
	where, args := opts.WhereClause()

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM restaurants"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := opts.LimitOffset()
	q := "SELECT " + restaurantColumns + " FROM restaurants" + where + opts.OrderClause() + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.Restaurant, 0)
	for rows.Next() {
		m, err := scanRestaurant(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update overwrites the mutable fields and returns the stored row.
func (r *RestaurantRepo) Update(ctx context.Context, id uint64, m *model.Restaurant) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE restaurants SET name=?, address=?, tel=?, open_hours=? WHERE id=?",
		m.Name, m.Address, m.Tel, m.OpenHours, id)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrNameExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can also mean a no-op update; confirm existence.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// DeleteCascade removes every reservation referencing the restaurant and
// then the restaurant itself, in one transaction. It returns the IDs of the
// reservations that were cascaded away so callers can emit events for them.
func (r *RestaurantRepo) DeleteCascade(ctx context.Context, id uint64) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM restaurants WHERE id=? FOR UPDATE", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, "SELECT id FROM reservations WHERE restaurant_id=?", id)
	if err != nil {
		return nil, err
	}
	var cascaded []uint64
	for rows.Next() {
		var rid uint64
		if err := rows.Scan(&rid); err != nil {
			rows.Close()
			return nil, err
		}
		cascaded = append(cascaded, rid)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE restaurant_id=?", id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM restaurants WHERE id=?", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return cascaded, nil
}
