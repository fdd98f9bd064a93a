package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"shopapi/internal/database"
	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// findAllLimit caps unpaged order searches.
const findAllLimit = 1000

// OrderPostgres is a PostgreSQL implementation of repository.OrderRepository.
type OrderPostgres struct {
	db *sql.DB
}

// NewOrderPostgres creates a new OrderPostgres repository.
func NewOrderPostgres(db *sql.DB) *OrderPostgres {
	return &OrderPostgres{db: db}
}

var _ repository.OrderRepository = (*OrderPostgres)(nil)

// Place inserts delivery, order and lines, decrementing stock with a guarded
// update so concurrent orders can never drive stock below zero.
func (r *OrderPostgres) Place(ctx context.Context, o *model.Order) (int64, error) {
	const (
		qDelivery = `
			INSERT INTO deliveries (city, street, zipcode, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		qOrder = `
			INSERT INTO orders (member_id, delivery_id, order_date, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		qStock = `
			UPDATE items SET stock_quantity = stock_quantity - $1
			WHERE id = $2 AND stock_quantity >= $1
		`
		qLine = `
			INSERT INTO order_items (order_id, item_id, order_price, count)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
	)
	if o.Delivery == nil {
		return 0, fmt.Errorf("place order: delivery is required")
	}

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		d := o.Delivery
		if err := tx.QueryRowContext(ctx, qDelivery,
			d.Address.City, d.Address.Street, d.Address.Zipcode, string(d.Status),
		).Scan(&d.ID); err != nil {
			return fmt.Errorf("insert delivery: %w", err)
		}
		o.DeliveryID = d.ID

		if err := tx.QueryRowContext(ctx, qOrder,
			o.MemberID, o.DeliveryID, o.OrderDate, string(o.Status),
		).Scan(&o.ID); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range o.OrderItems {
			oi := &o.OrderItems[i]
			res, err := tx.ExecContext(ctx, qStock, oi.Count, oi.ItemID)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if n == 0 {
				return repository.ErrNotEnoughStock
			}

			oi.OrderID = o.ID
			if err := tx.QueryRowContext(ctx, qLine,
				oi.OrderID, oi.ItemID, oi.OrderPrice, oi.Count,
			).Scan(&oi.ID); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return o.ID, nil
}

// Cancel flips the order to CANCEL and gives every line's quantity back to stock.
func (r *OrderPostgres) Cancel(ctx context.Context, o *model.Order) error {
	const (
		qStatus  = `UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`
		qRestock = `UPDATE items SET stock_quantity = stock_quantity + $1 WHERE id = $2`
	)
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := execOne(ctx, tx, qStatus,
			string(model.OrderStatusCancel), o.ID, string(model.OrderStatusOrder),
		); err != nil {
			return err
		}
		for _, oi := range o.OrderItems {
			if _, err := tx.ExecContext(ctx, qRestock, oi.Count, oi.ItemID); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.Status = model.OrderStatusCancel
	return nil
}

// FindByID loads one order with its delivery and lines.
func (r *OrderPostgres) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	const q = `
		SELECT o.id, o.member_id, o.delivery_id, o.order_date, o.status,
		       d.id, d.city, d.street, d.zipcode, d.status
		FROM orders o
		JOIN deliveries d ON d.id = o.delivery_id
		WHERE o.id = $1
	`
	var o model.Order
	var d model.Delivery
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID, &o.MemberID, &o.DeliveryID, &o.OrderDate, &o.Status,
		&d.ID, &d.Address.City, &d.Address.Street, &d.Address.Zipcode, &d.Status,
	); err != nil {
		return nil, err
	}
	o.Delivery = &d

	lines, err := r.FindOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.OrderItems = lines
	return &o, nil
}

// FindAll returns bare order rows filtered by member name (LIKE) and status.
func (r *OrderPostgres) FindAll(ctx context.Context, search model.OrderSearch) ([]model.Order, error) {
	var (
		where []string
		args  []any
	)
	if search.OrderStatus != "" {
		args = append(args, string(search.OrderStatus))
		where = append(where, "o.status = $"+strconv.Itoa(len(args)))
	}
	if search.MemberName != "" {
		args = append(args, search.MemberName)
		where = append(where, "m.name LIKE $"+strconv.Itoa(len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT o.id, o.member_id, o.delivery_id, o.order_date, o.status FROM orders o JOIN members m ON m.id = o.member_id`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, findAllLimit)
	b.WriteString(" ORDER BY o.id LIMIT $" + strconv.Itoa(len(args)))

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.MemberID, &o.DeliveryID, &o.OrderDate, &o.Status); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindDelivery fetches one delivery by ID.
func (r *OrderPostgres) FindDelivery(ctx context.Context, id int64) (*model.Delivery, error) {
	const q = `SELECT id, city, street, zipcode, status FROM deliveries WHERE id = $1`
	var d model.Delivery
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.Address.City, &d.Address.Street, &d.Address.Zipcode, &d.Status,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

const orderItemColumns = `id, order_id, item_id, order_price, count`

// FindOrderItems returns the lines of one order.
func (r *OrderPostgres) FindOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const q = `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]model.OrderItem, 0)
	for rows.Next() {
		var oi model.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ItemID, &oi.OrderPrice, &oi.Count); err != nil {
			return nil, err
		}
		lines = append(lines, oi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// FindOrderItemsIn returns the lines of several orders with one IN query.
func (r *OrderPostgres) FindOrderItemsIn(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	out := make(map[int64][]model.OrderItem)
	orderIDs = uniqueIDs(orderIDs)
	if len(orderIDs) == 0 {
		return out, nil
	}
	in, args := inPlaceholders(orderIDs, 1)
	q := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id IN (` + in + `) ORDER BY order_id, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var oi model.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ItemID, &oi.OrderPrice, &oi.Count); err != nil {
			return nil, err
		}
		out[oi.OrderID] = append(out[oi.OrderID], oi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindAllWithItem fetch-joins the whole graph. The join repeats order, member
// and delivery columns once per line; rows are folded back so each order
// appears once, and members/items with the same ID share one instance.
func (r *OrderPostgres) FindAllWithItem(ctx context.Context) ([]model.Order, error) {
	const q = `
		SELECT o.id, o.order_date, o.status,
		       m.id, m.name, m.city, m.street, m.zipcode,
		       d.id, d.city, d.street, d.zipcode, d.status,
		       oi.id, oi.order_price, oi.count,
		       i.id, i.name, i.price, i.stock_quantity, i.author, i.isbn, i.image_key
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

	orders := make([]model.Order, 0)
	index := make(map[int64]int)
	members := make(map[int64]*model.Member)
	items := make(map[int64]*model.Item)

	for rows.Next() {
		var (
			o  model.Order
			m  model.Member
			d  model.Delivery
			oi model.OrderItem
			it model.Item
		)
		if err := rows.Scan(
			&o.ID, &o.OrderDate, &o.Status,
			&m.ID, &m.Name, &m.Address.City, &m.Address.Street, &m.Address.Zipcode,
			&d.ID, &d.Address.City, &d.Address.Street, &d.Address.Zipcode, &d.Status,
			&oi.ID, &oi.OrderPrice, &oi.Count,
			&it.ID, &it.Name, &it.Price, &it.StockQuantity, &it.Author, &it.ISBN, &it.ImageKey,
		); err != nil {
			return nil, err
		}

		if _, ok := items[it.ID]; !ok {
			items[it.ID] = &it
		}
		oi.OrderID = o.ID
		oi.ItemID = it.ID
		oi.Item = items[it.ID]

		pos, ok := index[o.ID]
		if !ok {
			if _, seen := members[m.ID]; !seen {
				members[m.ID] = &m
			}
			o.MemberID = m.ID
			o.Member = members[m.ID]
			o.DeliveryID = d.ID
			o.Delivery = &d
			o.OrderItems = make([]model.OrderItem, 0, 1)
			orders = append(orders, o)
			pos = len(orders) - 1
			index[o.ID] = pos
		}
		orders[pos].OrderItems = append(orders[pos].OrderItems, oi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAllWithMemberDelivery loads one page of orders joined with their
// to-one associations only, so LIMIT/OFFSET count orders rather than lines.
func (r *OrderPostgres) FindAllWithMemberDelivery(ctx context.Context, pq repository.PageQuery) ([]model.Order, error) {
	const q = `
		SELECT o.id, o.order_date, o.status,
		       m.id, m.name, m.city, m.street, m.zipcode,
		       d.id, d.city, d.street, d.zipcode, d.status
		FROM orders o
		JOIN members m ON m.id = o.member_id
		JOIN deliveries d ON d.id = o.delivery_id
		ORDER BY o.id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	members := make(map[int64]*model.Member)
	for rows.Next() {
		var (
			o model.Order
			m model.Member
			d model.Delivery
		)
		if err := rows.Scan(
			&o.ID, &o.OrderDate, &o.Status,
			&m.ID, &m.Name, &m.Address.City, &m.Address.Street, &m.Address.Zipcode,
			&d.ID, &d.Address.City, &d.Address.Street, &d.Address.Zipcode, &d.Status,
		); err != nil {
			return nil, err
		}
		if _, ok := members[m.ID]; !ok {
			members[m.ID] = &m
		}
		o.MemberID = m.ID
		o.Member = members[m.ID]
		o.DeliveryID = d.ID
		o.Delivery = &d
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
