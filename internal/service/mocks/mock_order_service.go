package mocks

import (
	"context"

	"shopapi/internal/model"
	"shopapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Order(ctx context.Context, memberID, itemID int64, count int) (int64, error) {
	args := m.Called(ctx, memberID, itemID, count)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) FindOrders(ctx context.Context, search model.OrderSearch) ([]model.Order, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) FindOrderDtos(ctx context.Context, search model.OrderSearch) ([]service.OrderDto, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.OrderDto), args.Error(1)
}

func (m *MockOrderService) FindAllWithItem(ctx context.Context) ([]service.OrderDto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.OrderDto), args.Error(1)
}

func (m *MockOrderService) FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]service.OrderDto, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.OrderDto), args.Error(1)
}

type MockOrderQueryService struct {
	mock.Mock
}

func (m *MockOrderQueryService) FindOrderQueryDtos(ctx context.Context) ([]model.OrderQuery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderQuery), args.Error(1)
}

func (m *MockOrderQueryService) FindAllByDtoOptimization(ctx context.Context) ([]model.OrderQuery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderQuery), args.Error(1)
}

func (m *MockOrderQueryService) FindAllByDtoFlat(ctx context.Context) ([]model.OrderQuery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderQuery), args.Error(1)
}

func (m *MockOrderService) OrderLines(ctx context.Context, memberID int64, lines []service.OrderLine) (int64, error) {
	args := m.Called(ctx, memberID, lines)
	return args.Get(0).(int64), args.Error(1)
}
