package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopapi/internal/model"
	"shopapi/internal/repository"
	"shopapi/internal/storage"
)

// ImageURLExpiry is how long a presigned cover image URL stays valid.
const ImageURLExpiry = 15 * time.Minute

var (
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidStock = errors.New("stock quantity must not be negative")
	ErrNoImage      = errors.New("item has no image")
)

// ItemDto is an item as returned by the API. ImageURL is a presigned link
// to the cover image, empty when there is none or storage is disabled.
type ItemDto struct {
	model.Item
	ImageURL string `json:"imageUrl,omitempty"`
}

// UpdateItemParams carries the mutable catalog fields of an item.
type UpdateItemParams struct {
	Name          string
	Price         int
	StockQuantity int
}

// ItemService defines the use cases for the book catalog.
type ItemService interface {
	// SaveItem registers a new item and returns its ID.
	SaveItem(ctx context.Context, item *model.Item) (int64, error)

	// UpdateItem changes name, price and stock of an existing item.
	UpdateItem(ctx context.Context, id int64, p UpdateItemParams) (*ItemDto, error)

	FindItems(ctx context.Context) ([]ItemDto, error)

	FindOne(ctx context.Context, id int64) (*ItemDto, error)

	// UploadImage stores a cover image in object storage and links it to the
	// item. The upload is removed again if the item cannot be updated, and a
	// replaced image is deleted.
	UploadImage(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*ItemDto, error)

	// OpenImage streams the item's cover image. The caller closes the reader.
	OpenImage(ctx context.Context, id int64) (io.ReadCloser, storage.ObjectInfo, error)
}

type itemService struct {
	repo  repository.ItemRepository
	store storage.Storage
	log   zerolog.Logger
}

// NewItemService constructs a new ItemService. store may be nil, in which
// case image operations fail with ErrStorageUnavailable.
func NewItemService(repo repository.ItemRepository, store storage.Storage, log zerolog.Logger) ItemService {
	return &itemService{
		repo:  repo,
		store: store,
		log:   log.With().Str("component", "item_service").Logger(),
	}
}

func (s *itemService) SaveItem(ctx context.Context, item *model.Item) (int64, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := validateItemFields(item.Name, item.Price, item.StockQuantity); err != nil {
		return 0, err
	}
	id, err := s.repo.Save(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("save item: %w", err)
	}
	item.ID = id
	return id, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id int64, p UpdateItemParams) (*ItemDto, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := validateItemFields(p.Name, p.Price, p.StockQuantity); err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "find item")
	}
	item.Name = p.Name
	item.Price = p.Price
	item.StockQuantity = p.StockQuantity

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, notFound(err, "update item")
	}
	dto := s.toDto(ctx, *item)
	return &dto, nil
}

func (s *itemService) FindItems(ctx context.Context) ([]ItemDto, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	out := make([]ItemDto, 0, len(items))
	for _, it := range items {
		out = append(out, s.toDto(ctx, it))
	}
	return out, nil
}

func (s *itemService) FindOne(ctx context.Context, id int64) (*ItemDto, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "find item")
	}
	dto := s.toDto(ctx, *item)
	return &dto, nil
}

func (s *itemService) UploadImage(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*ItemDto, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	if id <= 0 {
		return nil, ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "find item")
	}

	key := filepath.ToSlash(filepath.Join("items", uuid.New().String()+filepath.Ext(originalFilename)))
	obj, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"item-id":           fmt.Sprint(id),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.repo.UpdateImageKey(ctx, id, obj.Key); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db update failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, notFound(err, "db update failed")
	}

	if old := item.ImageKey; old != "" && old != obj.Key {
		if err := s.store.Delete(ctx, old); err != nil {
			s.log.Warn().Err(err).Int64("item_id", id).Str("key", old).Msg("failed to delete replaced image")
		}
	}

	item.ImageKey = obj.Key
	dto := s.toDto(ctx, *item)
	return &dto, nil
}

func (s *itemService) OpenImage(ctx context.Context, id int64) (io.ReadCloser, storage.ObjectInfo, error) {
	if s.store == nil {
		return nil, storage.ObjectInfo{}, ErrStorageUnavailable
	}
	if id <= 0 {
		return nil, storage.ObjectInfo{}, ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, notFound(err, "find item")
	}
	if item.ImageKey == "" {
		return nil, storage.ObjectInfo{}, ErrNoImage
	}
	rc, info, err := s.store.Get(ctx, item.ImageKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn().Err(err).Int64("item_id", id).Str("key", item.ImageKey).Msg("stored image missing")
		return nil, storage.ObjectInfo{}, ErrNoImage
	}
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("open image: %w", err)
	}
	return rc, info, nil
}

// toDto attaches a presigned URL when possible. Presign failures only drop the URL.
func (s *itemService) toDto(ctx context.Context, item model.Item) ItemDto {
	dto := ItemDto{Item: item}
	if s.store == nil || item.ImageKey == "" {
		return dto
	}
	url, err := s.store.PresignGet(ctx, item.ImageKey, ImageURLExpiry)
	if err != nil {
		s.log.Warn().Err(err).Int64("item_id", item.ID).Msg("presign image url")
		return dto
	}
	dto.ImageURL = url
	return dto
}

func validateItemFields(name string, price, stock int) error {
	switch {
	case name == "":
		return ErrNameRequired
	case price < 0:
		return ErrInvalidPrice
	case stock < 0:
		return ErrInvalidStock
	}
	return nil
}
