package repository

import (
	"context"

	"shopapi/internal/model"
)

// OrderRepository defines data access for the order aggregate.
//
// The Find* methods differ only in how much of the order graph they load per
// query; see each method for which associations are populated.
type OrderRepository interface {
	// Place persists a new order with its delivery and lines and decrements
	// item stock, all in one transaction. Returns ErrNotEnoughStock if any
	// line exceeds the available stock; nothing is written in that case.
	Place(ctx context.Context, o *model.Order) (int64, error)

	// Cancel marks the order cancelled and restores stock for every line in one transaction.
	Cancel(ctx context.Context, o *model.Order) error

	// FindByID returns the order with its delivery and lines (ItemID only).
	FindByID(ctx context.Context, id int64) (*model.Order, error)

	// FindAll returns bare order rows (MemberID, DeliveryID set; no associations)
	// matching the search. At most 1000 rows are returned.
	FindAll(ctx context.Context, search model.OrderSearch) ([]model.Order, error)

	// FindDelivery returns one delivery by ID.
	FindDelivery(ctx context.Context, id int64) (*model.Delivery, error)

	// FindOrderItems returns the lines of one order (ItemID only).
	FindOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	// FindOrderItemsIn returns the lines of several orders in one IN query, keyed by order ID.
	FindOrderItemsIn(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error)

	// FindAllWithItem loads every order with member, delivery, lines and items
	// through a single join query. Each order appears once.
	FindAllWithItem(ctx context.Context) ([]model.Order, error)

	// FindAllWithMemberDelivery loads one page of orders joined with member and
	// delivery. Lines are not loaded.
	FindAllWithMemberDelivery(ctx context.Context, pq PageQuery) ([]model.Order, error)
}

// OrderQueryRepository returns order projections built straight from SQL.
type OrderQueryRepository interface {
	// FindOrders projects order-level columns of every order.
	FindOrders(ctx context.Context) ([]model.OrderQuery, error)

	// FindOrderItems projects the lines of one order.
	FindOrderItems(ctx context.Context, orderID int64) ([]model.OrderItemQuery, error)

	// FindOrderItemMap projects the lines of several orders in one IN query, keyed by order ID.
	FindOrderItemMap(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItemQuery, error)

	// FindAllFlat returns one row per order line with order-level columns repeated.
	FindAllFlat(ctx context.Context) ([]model.OrderFlat, error)
}
