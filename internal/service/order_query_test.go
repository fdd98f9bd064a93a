package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopapi/internal/model"
	repoMocks "shopapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderQueryService_FindOrderQueryDtos(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockOrderQueryRepository)
	mRepo.On("FindOrders", ctx).Return([]model.OrderQuery{{OrderID: 1}, {OrderID: 2}}, nil)
	mRepo.On("FindOrderItems", ctx, int64(1)).Return([]model.OrderItemQuery{{OrderID: 1, ItemName: "JPA1 BOOK"}}, nil).Once()
	mRepo.On("FindOrderItems", ctx, int64(2)).Return(nil, nil).Once()

	out, err := NewOrderQueryService(mRepo).FindOrderQueryDtos(ctx)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0].OrderItems, 1)
	assert.NotNil(t, out[1].OrderItems)
	mRepo.AssertExpectations(t)
}

func TestOrderQueryService_FindAllByDtoOptimization(t *testing.T) {
	ctx := context.Background()

	t.Run("one IN query for all lines", func(t *testing.T) {
		mRepo := new(repoMocks.MockOrderQueryRepository)
		mRepo.On("FindOrders", ctx).Return([]model.OrderQuery{{OrderID: 1}, {OrderID: 2}}, nil)
		mRepo.On("FindOrderItemMap", ctx, []int64{1, 2}).Return(map[int64][]model.OrderItemQuery{
			1: {{OrderID: 1, ItemName: "JPA1 BOOK"}, {OrderID: 1, ItemName: "JPA2 BOOK"}},
		}, nil).Once()

		out, err := NewOrderQueryService(mRepo).FindAllByDtoOptimization(ctx)

		require.NoError(t, err)
		assert.Len(t, out[0].OrderItems, 2)
		assert.Equal(t, []model.OrderItemQuery{}, out[1].OrderItems)
		mRepo.AssertNotCalled(t, "FindOrderItems", mock.Anything, mock.Anything)
		mRepo.AssertExpectations(t)
	})

	t.Run("no orders skips the item query", func(t *testing.T) {
		mRepo := new(repoMocks.MockOrderQueryRepository)
		mRepo.On("FindOrders", ctx).Return([]model.OrderQuery{}, nil)

		out, err := NewOrderQueryService(mRepo).FindAllByDtoOptimization(ctx)

		require.NoError(t, err)
		assert.NotNil(t, out)
		mRepo.AssertNotCalled(t, "FindOrderItemMap", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockOrderQueryRepository)
		mRepo.On("FindOrders", ctx).Return(nil, errors.New("db fail"))

		_, err := NewOrderQueryService(mRepo).FindAllByDtoOptimization(ctx)
		assert.EqualError(t, err, "find orders: db fail")
	})
}

func TestOrderQueryService_FindAllByDtoFlat(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockOrderQueryRepository)
	mRepo.On("FindAllFlat", ctx).Return([]model.OrderFlat{
		{OrderID: 4, Name: "userA", ItemName: "JPA1 BOOK"},
		{OrderID: 4, Name: "userA", ItemName: "JPA2 BOOK"},
	}, nil)

	out, err := NewOrderQueryService(mRepo).FindAllByDtoFlat(ctx)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].OrderItems, 2)
}

func TestGroupOrderFlats(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	busan := model.Address{City: "busan", Street: "2", Zipcode: "2222"}

	rows := []model.OrderFlat{
		{OrderID: 4, Name: "userA", OrderDate: d1, OrderStatus: model.OrderStatusOrder, Address: seoul, ItemName: "JPA1 BOOK", OrderPrice: 10000, Count: 1},
		{OrderID: 4, Name: "userA", OrderDate: d1, OrderStatus: model.OrderStatusOrder, Address: seoul, ItemName: "JPA2 BOOK", OrderPrice: 20000, Count: 2},
		{OrderID: 11, Name: "userB", OrderDate: d2, OrderStatus: model.OrderStatusCancel, Address: busan, ItemName: "SPRING1 BOOK", OrderPrice: 20000, Count: 3},
		{OrderID: 11, Name: "userB", OrderDate: d2, OrderStatus: model.OrderStatusCancel, Address: busan, ItemName: "SPRING2 BOOK", OrderPrice: 40000, Count: 4},
	}

	got := GroupOrderFlats(rows)

	want := []model.OrderQuery{
		{
			OrderID: 4, Name: "userA", OrderDate: d1, OrderStatus: model.OrderStatusOrder, Address: seoul,
			OrderItems: []model.OrderItemQuery{
				{OrderID: 4, ItemName: "JPA1 BOOK", OrderPrice: 10000, Count: 1},
				{OrderID: 4, ItemName: "JPA2 BOOK", OrderPrice: 20000, Count: 2},
			},
		},
		{
			OrderID: 11, Name: "userB", OrderDate: d2, OrderStatus: model.OrderStatusCancel, Address: busan,
			OrderItems: []model.OrderItemQuery{
				{OrderID: 11, ItemName: "SPRING1 BOOK", OrderPrice: 20000, Count: 3},
				{OrderID: 11, ItemName: "SPRING2 BOOK", OrderPrice: 40000, Count: 4},
			},
		},
	}
	assert.Equal(t, want, got)
}

func TestGroupOrderFlats_Properties(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
	}{
		{name: "empty", ids: nil},
		{name: "single row", ids: []int64{1}},
		{name: "contiguous groups", ids: []int64{1, 1, 1, 2, 3, 3}},
		{name: "interleaved groups", ids: []int64{3, 1, 3, 2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]model.OrderFlat, 0, len(tt.ids))
			perOrder := map[int64]int{}
			var firstSeen []int64
			for i, id := range tt.ids {
				if perOrder[id] == 0 {
					firstSeen = append(firstSeen, id)
				}
				perOrder[id]++
				rows = append(rows, model.OrderFlat{OrderID: id, Count: i})
			}

			got := GroupOrderFlats(rows)

			require.NotNil(t, got)
			assert.Len(t, got, len(perOrder))
			for i, g := range got {
				assert.Equal(t, firstSeen[i], g.OrderID)
				assert.Len(t, g.OrderItems, perOrder[g.OrderID])
				for _, oi := range g.OrderItems {
					assert.Equal(t, g.OrderID, oi.OrderID)
				}
			}
		})
	}
}
