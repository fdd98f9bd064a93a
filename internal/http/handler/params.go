package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/model"
	"shopapi/internal/service"
)

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidID
	}
	return id, nil
}

// parseOrderSearch reads the optional memberName and orderStatus filters.
// ok is false when orderStatus is present but unknown.
func parseOrderSearch(c *fiber.Ctx) (model.OrderSearch, bool) {
	search := model.OrderSearch{
		MemberName: strings.TrimSpace(c.Query("memberName")),
	}
	if s := c.Query("orderStatus"); s != "" {
		status := model.OrderStatus(strings.ToUpper(s))
		if !status.Valid() {
			return search, false
		}
		search.OrderStatus = status
	}
	return search, true
}

// queryInt parses a non-negative integer query parameter, falling back to def when absent.
func queryInt(c *fiber.Ctx, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
