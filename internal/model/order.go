package model

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusOrder || s == OrderStatusCancel
}

// DeliveryStatus is the shipping state of a delivery.
type DeliveryStatus string

const (
	DeliveryStatusReady DeliveryStatus = "READY"
	DeliveryStatusComp  DeliveryStatus = "COMP"
)

// Delivery is the shipment attached one-to-one to an order.
type Delivery struct {
	ID      int64          `json:"id"`
	Address Address        `json:"address"`
	Status  DeliveryStatus `json:"status"`
}

// Order is the aggregate root of a purchase.
//
// MemberID and DeliveryID are always set when loaded from storage. Member,
// Delivery and each OrderItem.Item are only populated by loaders that fetch
// the association; a nil pointer means "not loaded", not "absent".
type Order struct {
	ID         int64       `json:"id"`
	MemberID   int64       `json:"-"`
	DeliveryID int64       `json:"-"`
	Member     *Member     `json:"member"`
	Delivery   *Delivery   `json:"delivery"`
	OrderItems []OrderItem `json:"orderItems"`
	OrderDate  time.Time   `json:"orderDate"`
	Status     OrderStatus `json:"status"`
}

// OrderItem is one line of an order. OrderPrice is the unit price at order time.
type OrderItem struct {
	ID         int64 `json:"id"`
	OrderID    int64 `json:"-"`
	ItemID     int64 `json:"-"`
	Item       *Item `json:"item"`
	OrderPrice int   `json:"orderPrice"`
	Count      int   `json:"count"`
}

// TotalPrice returns the line total.
func (oi OrderItem) TotalPrice() int {
	return oi.OrderPrice * oi.Count
}

// TotalPrice returns the sum of all line totals.
func (o *Order) TotalPrice() int {
	total := 0
	for _, oi := range o.OrderItems {
		total += oi.TotalPrice()
	}
	return total
}

// OrderSearch filters order listings. Empty fields do not filter.
type OrderSearch struct {
	MemberName  string
	OrderStatus OrderStatus
}
