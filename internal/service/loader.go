package service

import (
	"context"
	"fmt"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// graphLoader walks an order graph one association at a time, issuing a
// query per association the first time it is reached. Members and items are
// memoized by ID for the lifetime of the loader, so a member shared by many
// orders is fetched once; deliveries and lines are fetched per order.
type graphLoader struct {
	orders  repository.OrderRepository
	members repository.MemberRepository
	items   repository.ItemRepository

	memberCache map[int64]*model.Member
	itemCache   map[int64]*model.Item
}

func newGraphLoader(
	orders repository.OrderRepository,
	members repository.MemberRepository,
	items repository.ItemRepository,
) *graphLoader {
	return &graphLoader{
		orders:      orders,
		members:     members,
		items:       items,
		memberCache: make(map[int64]*model.Member),
		itemCache:   make(map[int64]*model.Item),
	}
}

// load populates Member, Delivery, OrderItems and each line's Item on o.
func (l *graphLoader) load(ctx context.Context, o *model.Order) error {
	m, err := l.member(ctx, o.MemberID)
	if err != nil {
		return err
	}
	o.Member = m

	d, err := l.orders.FindDelivery(ctx, o.DeliveryID)
	if err != nil {
		return fmt.Errorf("load delivery %d: %w", o.DeliveryID, err)
	}
	o.Delivery = d

	ois, err := l.orders.FindOrderItems(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("load order items of %d: %w", o.ID, err)
	}
	for i := range ois {
		it, err := l.item(ctx, ois[i].ItemID)
		if err != nil {
			return err
		}
		ois[i].Item = it
	}
	if ois == nil {
		ois = []model.OrderItem{}
	}
	o.OrderItems = ois
	return nil
}

func (l *graphLoader) member(ctx context.Context, id int64) (*model.Member, error) {
	if m, ok := l.memberCache[id]; ok {
		return m, nil
	}
	m, err := l.members.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load member %d: %w", id, err)
	}
	l.memberCache[id] = m
	return m, nil
}

func (l *graphLoader) item(ctx context.Context, id int64) (*model.Item, error) {
	if it, ok := l.itemCache[id]; ok {
		return it, nil
	}
	it, err := l.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item %d: %w", id, err)
	}
	l.itemCache[id] = it
	return it, nil
}
