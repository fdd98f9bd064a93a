package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/service"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Members    service.MemberService
	Items      service.ItemService
	Orders     service.OrderService
	OrderQuery service.OrderQueryService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db Pinger, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group("/api/v1")
	v1.Get("/members", ListMembersV1(svc.Members))
	v1.Post("/members", SaveMemberV1(svc.Members))
	v1.Get("/orders", ListOrdersV1(svc.Orders))
	v1.Post("/orders", CreateOrder(svc.Orders))
	v1.Post("/orders/:id/cancel", CancelOrder(svc.Orders))
	v1.Get("/items", ListItems(svc.Items))
	v1.Post("/items", CreateItem(svc.Items))
	v1.Get("/items/:id", GetItem(svc.Items))
	v1.Put("/items/:id", UpdateItem(svc.Items))
	v1.Get("/items/:id/image", GetItemImage(svc.Items))
	v1.Post("/items/:id/image", UploadItemImage(svc.Items))

	v2 := app.Group("/api/v2")
	v2.Get("/members", ListMembersV2(svc.Members))
	v2.Post("/members", SaveMemberV2(svc.Members))
	v2.Put("/members/:id", UpdateMemberV2(svc.Members))
	v2.Get("/orders", ListOrdersV2(svc.Orders))

	app.Get("/api/v3/orders", ListOrdersV3(svc.Orders))
	app.Get("/api/v3.1/orders", ListOrdersV31(svc.Orders))
	app.Get("/api/v4/orders", ListOrdersV4(svc.OrderQuery))
	app.Get("/api/v5/orders", ListOrdersV5(svc.OrderQuery))
	app.Get("/api/v6/orders", ListOrdersV6(svc.OrderQuery))
}
