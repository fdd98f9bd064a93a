package mocks

import (
	"context"
	"io"

	"shopapi/internal/model"
	"shopapi/internal/service"
	"shopapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) SaveItem(ctx context.Context, item *model.Item) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, id int64, p service.UpdateItemParams) (*service.ItemDto, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ItemDto), args.Error(1)
}

func (m *MockItemService) FindItems(ctx context.Context) ([]service.ItemDto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ItemDto), args.Error(1)
}

func (m *MockItemService) FindOne(ctx context.Context, id int64) (*service.ItemDto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ItemDto), args.Error(1)
}

func (m *MockItemService) UploadImage(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*service.ItemDto, error) {
	args := m.Called(ctx, id, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ItemDto), args.Error(1)
}

func (m *MockItemService) OpenImage(ctx context.Context, id int64) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}
