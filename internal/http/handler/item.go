package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/model"
	"shopapi/internal/service"
	"shopapi/internal/validation"
)

// CreateItemRequest registers a book.
type CreateItemRequest struct {
	Name          string `json:"name" validate:"required"`
	Price         int    `json:"price" validate:"gte=0"`
	StockQuantity int    `json:"stockQuantity" validate:"gte=0"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
}

// UpdateItemRequest overwrites the mutable catalog fields.
type UpdateItemRequest struct {
	Name          string `json:"name" validate:"required"`
	Price         int    `json:"price" validate:"gte=0"`
	StockQuantity int    `json:"stockQuantity" validate:"gte=0"`
}

// CreateItemResponse carries the ID of a registered item.
type CreateItemResponse struct {
	ID int64 `json:"id"`
}

// CreateItem registers a book.
//
// @Summary  Register item
// @Tags     items
// @Accept   json
// @Produce  json
// @Param    item body CreateItemRequest true "item"
// @Success  201 {object} CreateItemResponse
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items [post]
func CreateItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateItemRequest
		if err := validation.BindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		id, err := svc.SaveItem(c.UserContext(), &model.Item{
			Name:          req.Name,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
			Author:        req.Author,
			ISBN:          req.ISBN,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(CreateItemResponse{ID: id})
	}
}

// ListItems returns the catalog.
//
// @Summary  List items
// @Tags     items
// @Produce  json
// @Success  200 {object} service.Result[service.ItemDto]
// @Router   /api/v1/items [get]
func ListItems(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.FindItems(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(service.NewResult(items))
	}
}

// GetItem returns one item.
//
// @Summary  Get item
// @Tags     items
// @Produce  json
// @Param    id path int true "item id"
// @Success  200 {object} service.ItemDto
// @Failure  404 {object} errorPayload
// @Router   /api/v1/items/{id} [get]
func GetItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		item, err := svc.FindOne(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(item)
	}
}

// UpdateItem changes name, price and stock.
//
// @Summary  Update item
// @Tags     items
// @Accept   json
// @Produce  json
// @Param    id path int true "item id"
// @Param    item body UpdateItemRequest true "fields"
// @Success  200 {object} service.ItemDto
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/v1/items/{id} [put]
func UpdateItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		var req UpdateItemRequest
		if err := validation.BindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		item, err := svc.UpdateItem(c.UserContext(), id, service.UpdateItemParams{
			Name:          req.Name,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(item)
	}
}

// UploadItemImage stores a cover image (multipart/form-data, field name: file).
//
// @Summary  Upload item image
// @Tags     items
// @Accept   multipart/form-data
// @Produce  json
// @Param    id   path     int  true "item id"
// @Param    file formData file true "image"
// @Success  200 {object} service.ItemDto
// @Failure  400 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /api/v1/items/{id}/image [post]
func UploadItemImage(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		item, err := svc.UploadImage(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(item)
	}
}

// GetItemImage streams the cover image.
//
// @Summary  Download item image
// @Tags     items
// @Produce  octet-stream
// @Param    id path int true "item id"
// @Success  200 {file} file
// @Failure  404 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /api/v1/items/{id}/image [get]
func GetItemImage(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		rc, info, err := svc.OpenImage(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if info.ETag != "" {
			c.Set(fiber.HeaderETag, info.ETag)
		}
		// The stream is closed by fasthttp once the body is written.
		return c.SendStream(rc, int(info.Size))
	}
}
