package service

import (
	"context"
	"fmt"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// OrderQueryService serves order projections read straight from SQL,
// bypassing the Order aggregate.
type OrderQueryService interface {
	// FindOrderQueryDtos projects orders, then queries the lines of each
	// order separately (1 + N queries).
	FindOrderQueryDtos(ctx context.Context) ([]model.OrderQuery, error)

	// FindAllByDtoOptimization projects orders, then loads the lines of all
	// of them with a single IN query (2 queries).
	FindAllByDtoOptimization(ctx context.Context) ([]model.OrderQuery, error)

	// FindAllByDtoFlat runs one flat join query and regroups it per order.
	FindAllByDtoFlat(ctx context.Context) ([]model.OrderQuery, error)
}

type orderQueryService struct {
	repo repository.OrderQueryRepository
}

// NewOrderQueryService constructs a new OrderQueryService.
func NewOrderQueryService(repo repository.OrderQueryRepository) OrderQueryService {
	return &orderQueryService{repo: repo}
}

func (s *orderQueryService) FindOrderQueryDtos(ctx context.Context) ([]model.OrderQuery, error) {
	orders, err := s.repo.FindOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	for i := range orders {
		items, err := s.repo.FindOrderItems(ctx, orders[i].OrderID)
		if err != nil {
			return nil, fmt.Errorf("find order items of %d: %w", orders[i].OrderID, err)
		}
		orders[i].OrderItems = nonNil(items)
	}
	return nonNil(orders), nil
}

func (s *orderQueryService) FindAllByDtoOptimization(ctx context.Context) ([]model.OrderQuery, error) {
	orders, err := s.repo.FindOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	if len(orders) == 0 {
		return []model.OrderQuery{}, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.OrderID)
	}
	itemMap, err := s.repo.FindOrderItemMap(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find order item map: %w", err)
	}
	for i := range orders {
		orders[i].OrderItems = nonNil(itemMap[orders[i].OrderID])
	}
	return orders, nil
}

func (s *orderQueryService) FindAllByDtoFlat(ctx context.Context) ([]model.OrderQuery, error) {
	flats, err := s.repo.FindAllFlat(ctx)
	if err != nil {
		return nil, fmt.Errorf("find flat orders: %w", err)
	}
	return GroupOrderFlats(flats), nil
}

// GroupOrderFlats folds flat join rows into one OrderQuery per distinct
// OrderID. Order-level fields come from the first row of each order; orders
// appear in the order their ID is first seen and lines keep row order.
func GroupOrderFlats(rows []model.OrderFlat) []model.OrderQuery {
	out := make([]model.OrderQuery, 0)
	index := make(map[int64]int)

	for _, r := range rows {
		i, ok := index[r.OrderID]
		if !ok {
			i = len(out)
			index[r.OrderID] = i
			out = append(out, model.OrderQuery{
				OrderID:     r.OrderID,
				Name:        r.Name,
				OrderDate:   r.OrderDate,
				OrderStatus: r.OrderStatus,
				Address:     r.Address,
				OrderItems:  []model.OrderItemQuery{},
			})
		}
		out[i].OrderItems = append(out[i].OrderItems, model.OrderItemQuery{
			OrderID:    r.OrderID,
			ItemName:   r.ItemName,
			OrderPrice: r.OrderPrice,
			Count:      r.Count,
		})
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
