// Package seed loads a small demo data set so every order endpoint has
// something to show on a fresh database.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shopapi/internal/model"
	"shopapi/internal/service"
)

// MemberCounter reports how many members exist.
type MemberCounter interface {
	Count(ctx context.Context) (int, error)
}

type demoOrder struct {
	member model.Member
	books  []model.Item
	counts []int
}

func demoOrders() []demoOrder {
	return []demoOrder{
		{
			member: model.Member{Name: "userA", Address: model.Address{City: "Seoul", Street: "1", Zipcode: "1111"}},
			books: []model.Item{
				{Name: "JPA1 BOOK", Price: 10000, StockQuantity: 100, Author: "kim", ISBN: "1111"},
				{Name: "JPA2 BOOK", Price: 20000, StockQuantity: 100, Author: "kim", ISBN: "2222"},
			},
			counts: []int{1, 2},
		},
		{
			member: model.Member{Name: "userB", Address: model.Address{City: "Busan", Street: "2", Zipcode: "2222"}},
			books: []model.Item{
				{Name: "SPRING1 BOOK", Price: 20000, StockQuantity: 200, Author: "lee", ISBN: "3333"},
				{Name: "SPRING2 BOOK", Price: 40000, StockQuantity: 300, Author: "lee", ISBN: "4444"},
			},
			counts: []int{3, 4},
		},
	}
}

// Demo registers two members, four books and one two-line order per
// member. It does nothing when any member already exists.
func Demo(
	ctx context.Context,
	log zerolog.Logger,
	counter MemberCounter,
	members service.MemberService,
	items service.ItemService,
	orders service.OrderService,
) error {
	n, err := counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if n > 0 {
		log.Info().Str("component", "seed").Int("members", n).Msg("data present, skipping demo seed")
		return nil
	}

	for _, d := range demoOrders() {
		m := d.member
		memberID, err := members.Join(ctx, &m)
		if err != nil {
			return fmt.Errorf("seed member %s: %w", m.Name, err)
		}

		lines := make([]service.OrderLine, 0, len(d.books))
		for i := range d.books {
			book := d.books[i]
			itemID, err := items.SaveItem(ctx, &book)
			if err != nil {
				return fmt.Errorf("seed item %s: %w", book.Name, err)
			}
			lines = append(lines, service.OrderLine{ItemID: itemID, Count: d.counts[i]})
		}

		orderID, err := orders.OrderLines(ctx, memberID, lines)
		if err != nil {
			return fmt.Errorf("seed order for %s: %w", m.Name, err)
		}
		log.Info().
			Str("component", "seed").
			Str("member", m.Name).
			Int64("order_id", orderID).
			Msg("demo order created")
	}
	return nil
}
