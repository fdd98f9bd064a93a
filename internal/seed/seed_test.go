package seed

import (
	"context"
	"errors"
	"testing"

	"shopapi/internal/model"
	repoMocks "shopapi/internal/repository/mocks"
	"shopapi/internal/service"
	serviceMocks "shopapi/internal/service/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDemo(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds members, items and orders", func(t *testing.T) {
		counter := new(repoMocks.MockMemberRepository)
		members := new(serviceMocks.MockMemberService)
		items := new(serviceMocks.MockItemService)
		orders := new(serviceMocks.MockOrderService)

		counter.On("Count", ctx).Return(0, nil)
		members.On("Join", ctx, mock.MatchedBy(func(m *model.Member) bool { return m.Name == "userA" })).Return(int64(1), nil).Once()
		members.On("Join", ctx, mock.MatchedBy(func(m *model.Member) bool { return m.Name == "userB" })).Return(int64(2), nil).Once()
		items.On("SaveItem", ctx, mock.MatchedBy(func(i *model.Item) bool { return i.Name == "JPA1 BOOK" })).Return(int64(1), nil).Once()
		items.On("SaveItem", ctx, mock.MatchedBy(func(i *model.Item) bool { return i.Name == "JPA2 BOOK" })).Return(int64(2), nil).Once()
		items.On("SaveItem", ctx, mock.MatchedBy(func(i *model.Item) bool { return i.Name == "SPRING1 BOOK" })).Return(int64(3), nil).Once()
		items.On("SaveItem", ctx, mock.MatchedBy(func(i *model.Item) bool { return i.Name == "SPRING2 BOOK" })).Return(int64(4), nil).Once()
		orders.On("OrderLines", ctx, int64(1), []service.OrderLine{{ItemID: 1, Count: 1}, {ItemID: 2, Count: 2}}).Return(int64(1), nil).Once()
		orders.On("OrderLines", ctx, int64(2), []service.OrderLine{{ItemID: 3, Count: 3}, {ItemID: 4, Count: 4}}).Return(int64(2), nil).Once()

		err := Demo(ctx, zerolog.Nop(), counter, members, items, orders)

		assert.NoError(t, err)
		members.AssertExpectations(t)
		items.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("skips when members exist", func(t *testing.T) {
		counter := new(repoMocks.MockMemberRepository)
		members := new(serviceMocks.MockMemberService)
		counter.On("Count", ctx).Return(2, nil)

		err := Demo(ctx, zerolog.Nop(), counter, members, nil, nil)

		assert.NoError(t, err)
		members.AssertNotCalled(t, "Join", mock.Anything, mock.Anything)
	})

	t.Run("join failure stops seeding", func(t *testing.T) {
		counter := new(repoMocks.MockMemberRepository)
		members := new(serviceMocks.MockMemberService)
		counter.On("Count", ctx).Return(0, nil)
		members.On("Join", ctx, mock.Anything).Return(int64(0), service.ErrDuplicateMember)

		err := Demo(ctx, zerolog.Nop(), counter, members, nil, nil)

		assert.ErrorIs(t, err, service.ErrDuplicateMember)
	})

	t.Run("count failure", func(t *testing.T) {
		counter := new(repoMocks.MockMemberRepository)
		counter.On("Count", ctx).Return(0, errors.New("db fail"))

		err := Demo(ctx, zerolog.Nop(), counter, nil, nil, nil)

		assert.EqualError(t, err, "count members: db fail")
	})
}
