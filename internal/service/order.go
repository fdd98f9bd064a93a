package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

const (
	// DefaultPageLimit is used by paged loaders when no limit is given.
	DefaultPageLimit = 100
	// DefaultBatchSize bounds the number of IDs per IN query.
	DefaultBatchSize = 100
)

// OrderDto is the response shape of an order. Items are flattened to names.
type OrderDto struct {
	OrderID     int64             `json:"orderId"`
	Name        string            `json:"name"`
	OrderDate   time.Time         `json:"orderDate"`
	OrderStatus model.OrderStatus `json:"orderStatus"`
	Address     model.Address     `json:"address"`
	OrderItems  []OrderItemDto    `json:"orderItems"`
}

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ItemID int64
	Count  int
}

// OrderItemDto is one order line in an OrderDto.
type OrderItemDto struct {
	ItemName   string `json:"itemName"`
	OrderPrice int    `json:"orderPrice"`
	Count      int    `json:"count"`
}

// OrderService defines the use cases for orders.
//
// The Find* methods return the same orders through different loading
// strategies. They exist side by side so their query cost can be compared.
type OrderService interface {
	// Order places an order of count units of one item for a member.
	Order(ctx context.Context, memberID, itemID int64, count int) (int64, error)

	// OrderLines places one order holding several lines.
	OrderLines(ctx context.Context, memberID int64, lines []OrderLine) (int64, error)

	// CancelOrder cancels an order and restores the stock of its items.
	CancelOrder(ctx context.Context, orderID int64) error

	// FindOrders returns the full order graph, loading each association
	// with its own query as it is reached (1 + N queries).
	FindOrders(ctx context.Context, search model.OrderSearch) ([]model.Order, error)

	// FindOrderDtos loads like FindOrders and maps the result to OrderDto.
	FindOrderDtos(ctx context.Context, search model.OrderSearch) ([]OrderDto, error)

	// FindAllWithItem loads every order through one join query.
	FindAllWithItem(ctx context.Context) ([]OrderDto, error)

	// FindAllWithMemberDelivery pages orders joined with their to-one
	// associations, then batch loads lines and items with IN queries.
	FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]OrderDto, error)
}

type orderService struct {
	orders    repository.OrderRepository
	members   repository.MemberRepository
	items     repository.ItemRepository
	batchSize int
	now       func() time.Time
}

// NewOrderService constructs a new OrderService. batchSize caps the number of
// IDs sent in one IN query; values below 1 fall back to DefaultBatchSize.
func NewOrderService(
	orders repository.OrderRepository,
	members repository.MemberRepository,
	items repository.ItemRepository,
	batchSize int,
) OrderService {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &orderService{
		orders:    orders,
		members:   members,
		items:     items,
		batchSize: batchSize,
		now:       time.Now,
	}
}

func (s *orderService) Order(ctx context.Context, memberID, itemID int64, count int) (int64, error) {
	return s.OrderLines(ctx, memberID, []OrderLine{{ItemID: itemID, Count: count}})
}

func (s *orderService) OrderLines(ctx context.Context, memberID int64, lines []OrderLine) (int64, error) {
	if memberID <= 0 {
		return 0, ErrInvalidID
	}
	if len(lines) == 0 {
		return 0, ErrInvalidCount
	}
	for _, l := range lines {
		if l.ItemID <= 0 {
			return 0, ErrInvalidID
		}
		if l.Count < 1 {
			return 0, ErrInvalidCount
		}
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return 0, notFound(err, "find member")
	}

	o := &model.Order{
		MemberID: member.ID,
		Member:   member,
		Delivery: &model.Delivery{
			Address: member.Address,
			Status:  model.DeliveryStatusReady,
		},
		OrderItems: make([]model.OrderItem, 0, len(lines)),
		OrderDate:  s.now(),
		Status:     model.OrderStatusOrder,
	}
	for _, l := range lines {
		item, err := s.items.FindByID(ctx, l.ItemID)
		if err != nil {
			return 0, notFound(err, "find item")
		}
		// Fail early on a stale stock level; the guarded update in Place is authoritative.
		if err := item.RemoveStock(l.Count); err != nil {
			return 0, ErrNotEnoughStock
		}
		o.OrderItems = append(o.OrderItems, model.OrderItem{
			ItemID:     item.ID,
			Item:       item,
			OrderPrice: item.Price,
			Count:      l.Count,
		})
	}

	id, err := s.orders.Place(ctx, o)
	if err != nil {
		if errors.Is(err, repository.ErrNotEnoughStock) {
			return 0, ErrNotEnoughStock
		}
		return 0, fmt.Errorf("place order: %w", err)
	}
	return id, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return ErrInvalidID
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return notFound(err, "find order")
	}
	if o.Delivery != nil && o.Delivery.Status == model.DeliveryStatusComp {
		return ErrAlreadyDelivered
	}
	if o.Status == model.OrderStatusCancel {
		return ErrAlreadyCanceled
	}

	if err := s.orders.Cancel(ctx, o); err != nil {
		// The status guard matched nothing: a concurrent cancel won.
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlreadyCanceled
		}
		return fmt.Errorf("cancel order: %w", err)
	}
	return nil
}

func (s *orderService) FindOrders(ctx context.Context, search model.OrderSearch) ([]model.Order, error) {
	orders, err := s.orders.FindAll(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	l := newGraphLoader(s.orders, s.members, s.items)
	for i := range orders {
		if err := l.load(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (s *orderService) FindOrderDtos(ctx context.Context, search model.OrderSearch) ([]OrderDto, error) {
	orders, err := s.FindOrders(ctx, search)
	if err != nil {
		return nil, err
	}
	return ToOrderDtos(orders), nil
}

func (s *orderService) FindAllWithItem(ctx context.Context) ([]OrderDto, error) {
	orders, err := s.orders.FindAllWithItem(ctx)
	if err != nil {
		return nil, fmt.Errorf("find orders with items: %w", err)
	}
	return ToOrderDtos(orders), nil
}

func (s *orderService) FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]OrderDto, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	orders, err := s.orders.FindAllWithMemberDelivery(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("find order page: %w", err)
	}
	if err := s.batchLoadOrderItems(ctx, orders); err != nil {
		return nil, err
	}
	return ToOrderDtos(orders), nil
}

// batchLoadOrderItems fills OrderItems and their Item for every order using
// one IN query per batch of order IDs and one per batch of item IDs.
func (s *orderService) batchLoadOrderItems(ctx context.Context, orders []model.Order) error {
	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	lines := make(map[int64][]model.OrderItem, len(orders))
	for _, chunk := range chunkIDs(orderIDs, s.batchSize) {
		m, err := s.orders.FindOrderItemsIn(ctx, chunk)
		if err != nil {
			return fmt.Errorf("batch load order items: %w", err)
		}
		for id, ois := range m {
			lines[id] = ois
		}
	}

	var itemIDs []int64
	seen := make(map[int64]struct{})
	for _, o := range orders {
		for _, oi := range lines[o.ID] {
			if _, ok := seen[oi.ItemID]; ok {
				continue
			}
			seen[oi.ItemID] = struct{}{}
			itemIDs = append(itemIDs, oi.ItemID)
		}
	}

	items := make(map[int64]*model.Item, len(itemIDs))
	for _, chunk := range chunkIDs(itemIDs, s.batchSize) {
		found, err := s.items.FindByIDs(ctx, chunk)
		if err != nil {
			return fmt.Errorf("batch load items: %w", err)
		}
		for i := range found {
			items[found[i].ID] = &found[i]
		}
	}

	for i := range orders {
		ois := lines[orders[i].ID]
		for j := range ois {
			ois[j].Item = items[ois[j].ItemID]
		}
		orders[i].OrderItems = ois
	}
	return nil
}

// ToOrderDtos maps loaded orders to OrderDto. Associations that were not
// loaded leave the corresponding fields zero.
func ToOrderDtos(orders []model.Order) []OrderDto {
	out := make([]OrderDto, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderDto(&orders[i]))
	}
	return out
}

func toOrderDto(o *model.Order) OrderDto {
	dto := OrderDto{
		OrderID:     o.ID,
		OrderDate:   o.OrderDate,
		OrderStatus: o.Status,
		OrderItems:  make([]OrderItemDto, 0, len(o.OrderItems)),
	}
	if o.Member != nil {
		dto.Name = o.Member.Name
	}
	if o.Delivery != nil {
		dto.Address = o.Delivery.Address
	}
	for _, oi := range o.OrderItems {
		line := OrderItemDto{OrderPrice: oi.OrderPrice, Count: oi.Count}
		if oi.Item != nil {
			line.ItemName = oi.Item.Name
		}
		dto.OrderItems = append(dto.OrderItems, line)
	}
	return dto
}

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for size < len(ids) {
		ids, chunks = ids[size:], append(chunks, ids[:size:size])
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
