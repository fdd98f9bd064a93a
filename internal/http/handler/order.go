package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/service"
	"shopapi/internal/validation"
)

// CreateOrderRequest places an order of one item.
type CreateOrderRequest struct {
	MemberID int64 `json:"memberId" validate:"required,gt=0"`
	ItemID   int64 `json:"itemId" validate:"required,gt=0"`
	Count    int   `json:"count" validate:"gte=1"`
}

// CreateOrderResponse carries the ID of a placed order.
type CreateOrderResponse struct {
	ID int64 `json:"id"`
}

func invalidOrderStatus(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER_STATUS", "orderStatus must be ORDER or CANCEL")
}

// ListOrdersV1 returns orders as loaded, one query per association.
//
// @Summary  List orders (entity graph, lazy loads)
// @Tags     orders
// @Produce  json
// @Param    memberName  query string false "member name filter"
// @Param    orderStatus query string false "ORDER or CANCEL"
// @Success  200 {array} model.Order
// @Router   /api/v1/orders [get]
func ListOrdersV1(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		search, ok := parseOrderSearch(c)
		if !ok {
			return invalidOrderStatus(c)
		}
		orders, err := svc.FindOrders(c.UserContext(), search)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(orders)
	}
}

// ListOrdersV2 is ListOrdersV1 mapped to OrderDto.
//
// @Summary  List orders (DTO, lazy loads)
// @Tags     orders
// @Produce  json
// @Param    memberName  query string false "member name filter"
// @Param    orderStatus query string false "ORDER or CANCEL"
// @Success  200 {object} service.Result[service.OrderDto]
// @Router   /api/v2/orders [get]
func ListOrdersV2(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		search, ok := parseOrderSearch(c)
		if !ok {
			return invalidOrderStatus(c)
		}
		dtos, err := svc.FindOrderDtos(c.UserContext(), search)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(service.NewResult(dtos))
	}
}

// ListOrdersV3 loads all orders with one join query.
//
// @Summary  List orders (single join)
// @Tags     orders
// @Produce  json
// @Success  200 {object} service.Result[service.OrderDto]
// @Router   /api/v3/orders [get]
func ListOrdersV3(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dtos, err := svc.FindAllWithItem(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(service.NewResult(dtos))
	}
}

// ListOrdersV31 pages orders and batch loads their lines.
//
// @Summary  List orders (paged join + IN batch loads)
// @Tags     orders
// @Produce  json
// @Param    offset query int false "offset" default(0)
// @Param    limit  query int false "limit"  default(100)
// @Success  200 {object} service.Result[service.OrderDto]
// @Failure  400 {object} errorPayload
// @Router   /api/v3.1/orders [get]
func ListOrdersV31(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, ok := queryInt(c, "offset", 0)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		limit, ok := queryInt(c, "limit", service.DefaultPageLimit)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		dtos, err := svc.FindAllWithMemberDelivery(c.UserContext(), offset, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(service.NewResult(dtos))
	}
}

// ListOrdersV4 projects orders, then queries lines per order.
//
// @Summary  List orders (projection, N+1)
// @Tags     orders
// @Produce  json
// @Success  200 {array} model.OrderQuery
// @Router   /api/v4/orders [get]
func ListOrdersV4(svc service.OrderQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.FindOrderQueryDtos(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// ListOrdersV5 projects orders, then loads all lines with one IN query.
//
// @Summary  List orders (projection + IN)
// @Tags     orders
// @Produce  json
// @Success  200 {array} model.OrderQuery
// @Router   /api/v5/orders [get]
func ListOrdersV5(svc service.OrderQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.FindAllByDtoOptimization(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// ListOrdersV6 runs one flat query and regroups it per order.
//
// @Summary  List orders (flat query, grouped in memory)
// @Tags     orders
// @Produce  json
// @Success  200 {array} model.OrderQuery
// @Router   /api/v6/orders [get]
func ListOrdersV6(svc service.OrderQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.FindAllByDtoFlat(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// CreateOrder places an order.
//
// @Summary  Place order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    order body CreateOrderRequest true "order"
// @Success  201 {object} CreateOrderResponse
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/v1/orders [post]
func CreateOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateOrderRequest
		if err := validation.BindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		id, err := svc.Order(c.UserContext(), req.MemberID, req.ItemID, req.Count)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(CreateOrderResponse{ID: id})
	}
}

// CancelOrder cancels an order and restores stock.
//
// @Summary  Cancel order
// @Tags     orders
// @Param    id path int true "order id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/v1/orders/{id}/cancel [post]
func CancelOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.CancelOrder(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
