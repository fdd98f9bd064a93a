package model

import "time"

// OrderQuery is a read-only projection of an order with its lines, built
// directly from query results instead of the Order aggregate.
type OrderQuery struct {
	OrderID     int64            `json:"orderId"`
	Name        string           `json:"name"`
	OrderDate   time.Time        `json:"orderDate"`
	OrderStatus OrderStatus      `json:"orderStatus"`
	Address     Address          `json:"address"`
	OrderItems  []OrderItemQuery `json:"orderItems"`
}

// OrderItemQuery is one projected order line. OrderID is kept for grouping only.
type OrderItemQuery struct {
	OrderID    int64  `json:"-"`
	ItemName   string `json:"itemName"`
	OrderPrice int    `json:"orderPrice"`
	Count      int    `json:"count"`
}

// OrderFlat is one row of the order x order_item join: order-level columns
// repeat for every line of the same order.
type OrderFlat struct {
	OrderID     int64
	Name        string
	OrderDate   time.Time
	OrderStatus OrderStatus
	Address     Address
	ItemName    string
	OrderPrice  int
	Count       int
}
