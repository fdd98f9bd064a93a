package postgres

import (
	"context"
	"database/sql"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// OrderQueryPostgres projects orders directly into query DTOs.
type OrderQueryPostgres struct {
	db *sql.DB
}

// NewOrderQueryPostgres creates a new OrderQueryPostgres repository.
func NewOrderQueryPostgres(db *sql.DB) *OrderQueryPostgres {
	return &OrderQueryPostgres{db: db}
}

var _ repository.OrderQueryRepository = (*OrderQueryPostgres)(nil)

// FindOrders projects the order-level columns; OrderItems is left nil.
func (r *OrderQueryPostgres) FindOrders(ctx context.Context) ([]model.OrderQuery, error) {
	const q = `
		SELECT o.id, m.name, o.order_date, o.status, d.city, d.street, d.zipcode
		FROM orders o
		JOIN members m ON m.id = o.member_id
		JOIN deliveries d ON d.id = o.delivery_id
		ORDER BY o.id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.OrderQuery, 0)
	for rows.Next() {
		var o model.OrderQuery
		if err := rows.Scan(
			&o.OrderID, &o.Name, &o.OrderDate, &o.OrderStatus,
			&o.Address.City, &o.Address.Street, &o.Address.Zipcode,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOrderItems projects the lines of one order.
func (r *OrderQueryPostgres) FindOrderItems(ctx context.Context, orderID int64) ([]model.OrderItemQuery, error) {
	const q = `
		SELECT oi.order_id, i.name, oi.order_price, oi.count
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	return r.listItems(ctx, q, orderID)
}

// FindOrderItemMap projects the lines of several orders in one query.
func (r *OrderQueryPostgres) FindOrderItemMap(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItemQuery, error) {
	out := make(map[int64][]model.OrderItemQuery)
	orderIDs = uniqueIDs(orderIDs)
	if len(orderIDs) == 0 {
		return out, nil
	}
	in, args := inPlaceholders(orderIDs, 1)
	q := `
		SELECT oi.order_id, i.name, oi.order_price, oi.count
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id IN (` + in + `)
		ORDER BY oi.order_id, oi.id
	`
	lines, err := r.listItems(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, nil
}

// FindAllFlat runs the full join once; order columns repeat for every line.
// Orders without lines do not appear.
func (r *OrderQueryPostgres) FindAllFlat(ctx context.Context) ([]model.OrderFlat, error) {
	const q = `
		SELECT o.id, m.name, o.order_date, o.status,
		       d.city, d.street, d.zipcode,
		       i.name, oi.order_price, oi.count
		FROM orders o
		JOIN members m ON m.id = o.member_id
		JOIN deliveries d ON d.id = o.delivery_id
		JOIN order_items oi ON oi.order_id = o.id
		JOIN items i ON i.id = oi.item_id
		ORDER BY o.id, oi.id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.OrderFlat, 0)
	for rows.Next() {
		var f model.OrderFlat
		if err := rows.Scan(
			&f.OrderID, &f.Name, &f.OrderDate, &f.OrderStatus,
			&f.Address.City, &f.Address.Street, &f.Address.Zipcode,
			&f.ItemName, &f.OrderPrice, &f.Count,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderQueryPostgres) listItems(ctx context.Context, q string, args ...any) ([]model.OrderItemQuery, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.OrderItemQuery, 0)
	for rows.Next() {
		var l model.OrderItemQuery
		if err := rows.Scan(&l.OrderID, &l.ItemName, &l.OrderPrice, &l.Count); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
