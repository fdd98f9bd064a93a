package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopapi/internal/model"
	"shopapi/internal/service"
	serviceMocks "shopapi/internal/service/mocks"
	"shopapi/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListMembers(t *testing.T) {
	members := []model.Member{
		{ID: 1, Name: "userA", Address: model.Address{City: "seoul", Street: "1", Zipcode: "1111"}},
		{ID: 2, Name: "userB"},
	}

	t.Run("v1 returns raw members", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMemberService)
		mockSvc.On("FindMembers", mock.Anything).Return(members, nil).Once()
		app := fiber.New()
		app.Get("/api/v1/members", ListMembersV1(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, "userA", got[0]["name"])
		assert.Equal(t, "seoul", got[0]["address"].(map[string]any)["city"])
	})

	t.Run("v2 wraps names with a count", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMemberService)
		mockSvc.On("FindMembers", mock.Anything).Return(members, nil).Once()
		app := fiber.New()
		app.Get("/api/v2/members", ListMembersV2(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v2/members", nil))
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"count":2,"data":[{"name":"userA"},{"name":"userB"}]}`, string(body))
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMemberService)
		mockSvc.On("FindMembers", mock.Anything).Return(nil, errors.New("db error")).Once()
		app := fiber.New()
		app.Get("/api/v2/members", ListMembersV2(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v2/members", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestSaveMember(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		setupMock  func(m *serviceMocks.MockMemberService)
		wantStatus int
		wantCode   string
		wantBody   string
	}{
		{
			name:   "v1 raw body",
			target: "/api/v1/members",
			body:   `{"name":"kim","address":{"city":"seoul","street":"1","zipcode":"1111"}}`,
			setupMock: func(m *serviceMocks.MockMemberService) {
				m.On("Join", mock.Anything, mock.MatchedBy(func(mem *model.Member) bool {
					return mem.Name == "kim" && mem.Address.City == "seoul"
				})).Return(int64(1), nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":1}`,
		},
		{
			name:   "v2 request body",
			target: "/api/v2/members",
			body:   `{"name":"lee"}`,
			setupMock: func(m *serviceMocks.MockMemberService) {
				m.On("Join", mock.Anything, &model.Member{Name: "lee"}).Return(int64(2), nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":2}`,
		},
		{
			name:       "missing name",
			target:     "/api/v2/members",
			body:       `{}`,
			setupMock:  func(m *serviceMocks.MockMemberService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "malformed body",
			target:     "/api/v1/members",
			body:       `{"name":`,
			setupMock:  func(m *serviceMocks.MockMemberService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
		{
			name:   "duplicate name",
			target: "/api/v2/members",
			body:   `{"name":"kim"}`,
			setupMock: func(m *serviceMocks.MockMemberService) {
				m.On("Join", mock.Anything, mock.Anything).Return(int64(0), service.ErrDuplicateMember).Once()
			},
			wantStatus: http.StatusConflict,
			wantCode:   "MEMBER_ALREADY_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockMemberService)
			tt.setupMock(mockSvc)
			app := fiber.New()
			app.Post("/api/v1/members", SaveMemberV1(mockSvc))
			app.Post("/api/v2/members", SaveMemberV2(mockSvc))

			resp, err := app.Test(jsonRequest(http.MethodPost, tt.target, tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.JSONEq(t, tt.wantBody, string(body))
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestSaveMember_ValidationFields(t *testing.T) {
	app := fiber.New()
	app.Post("/api/v2/members", SaveMemberV2(new(serviceMocks.MockMemberService)))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v2/members", `{"name":""}`))
	require.NoError(t, err)

	body := decodeError(t, resp)
	require.Len(t, body.Error.Fields, 1)
	assert.Equal(t, "name", body.Error.Fields[0].Field)
	assert.Equal(t, "is required", body.Error.Fields[0].Error)
}

func TestUpdateMemberV2(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMemberService)
		mockSvc.On("Update", mock.Anything, int64(3), "park").Return(&model.Member{ID: 3, Name: "park"}, nil).Once()
		app := fiber.New()
		app.Put("/api/v2/members/:id", UpdateMemberV2(mockSvc))

		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v2/members/3", `{"name":"park"}`))
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"id":3,"name":"park"}`, string(body))
	})

	t.Run("invalid id", func(t *testing.T) {
		app := fiber.New()
		app.Put("/api/v2/members/:id", UpdateMemberV2(new(serviceMocks.MockMemberService)))

		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v2/members/abc", `{"name":"park"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMemberService)
		mockSvc.On("Update", mock.Anything, int64(9), "park").Return(nil, service.ErrNotFound).Once()
		app := fiber.New()
		app.Put("/api/v2/members/:id", UpdateMemberV2(mockSvc))

		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v2/members/9", `{"name":"park"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListOrdersV1V2_Search(t *testing.T) {
	t.Run("filters reach the service", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOrderService)
		want := model.OrderSearch{MemberName: "userA", OrderStatus: model.OrderStatusCancel}
		mockSvc.On("FindOrders", mock.Anything, want).Return([]model.Order{}, nil).Once()
		app := fiber.New()
		app.Get("/api/v1/orders", ListOrdersV1(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/orders?memberName=userA&orderStatus=cancel", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(body))
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		app := fiber.New()
		app.Get("/api/v2/orders", ListOrdersV2(new(serviceMocks.MockOrderService)))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v2/orders?orderStatus=SHIPPED", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ORDER_STATUS", decodeError(t, resp).Error.Code)
	})

	t.Run("v2 wraps dtos", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOrderService)
		mockSvc.On("FindOrderDtos", mock.Anything, model.OrderSearch{}).Return([]service.OrderDto{
			{OrderID: 4, Name: "userA", OrderStatus: model.OrderStatusOrder, OrderItems: []service.OrderItemDto{
				{ItemName: "JPA1 BOOK", OrderPrice: 10000, Count: 1},
			}},
		}, nil).Once()
		app := fiber.New()
		app.Get("/api/v2/orders", ListOrdersV2(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v2/orders", nil))
		require.NoError(t, err)

		var got struct {
			Count int              `json:"count"`
			Data  []map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, 1, got.Count)
		assert.Equal(t, float64(4), got.Data[0]["orderId"])
		assert.Equal(t, "ORDER", got.Data[0]["orderStatus"])
		items := got.Data[0]["orderItems"].([]any)
		assert.Equal(t, "JPA1 BOOK", items[0].(map[string]any)["itemName"])
	})
}

func TestListOrdersV31(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setupMock  func(m *serviceMocks.MockOrderService)
		wantStatus int
		wantCode   string
	}{
		{
			name:  "defaults",
			query: "",
			setupMock: func(m *serviceMocks.MockOrderService) {
				m.On("FindAllWithMemberDelivery", mock.Anything, 0, 100).Return([]service.OrderDto{}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "explicit page",
			query: "?offset=1&limit=2",
			setupMock: func(m *serviceMocks.MockOrderService) {
				m.On("FindAllWithMemberDelivery", mock.Anything, 1, 2).Return([]service.OrderDto{{OrderID: 11}}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad offset",
			query:      "?offset=-1",
			setupMock:  func(m *serviceMocks.MockOrderService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_OFFSET",
		},
		{
			name:       "bad limit",
			query:      "?limit=abc",
			setupMock:  func(m *serviceMocks.MockOrderService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockOrderService)
			tt.setupMock(mockSvc)
			app := fiber.New()
			app.Get("/api/v3.1/orders", ListOrdersV31(mockSvc))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v3.1/orders"+tt.query, nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestListOrderProjections(t *testing.T) {
	orders := []model.OrderQuery{{
		OrderID:     4,
		Name:        "userA",
		OrderStatus: model.OrderStatusOrder,
		OrderItems:  []model.OrderItemQuery{{OrderID: 4, ItemName: "JPA1 BOOK", OrderPrice: 10000, Count: 1}},
	}}

	tests := []struct {
		name   string
		method string
		route  func(svc service.OrderQueryService) fiber.Handler
	}{
		{name: "v4", method: "FindOrderQueryDtos", route: ListOrdersV4},
		{name: "v5", method: "FindAllByDtoOptimization", route: ListOrdersV5},
		{name: "v6", method: "FindAllByDtoFlat", route: ListOrdersV6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockOrderQueryService)
			mockSvc.On(tt.method, mock.Anything).Return(orders, nil).Once()
			app := fiber.New()
			app.Get("/orders", tt.route(mockSvc))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders", nil))
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			var got []map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			require.Len(t, got, 1)
			line := got[0]["orderItems"].([]any)[0].(map[string]any)
			assert.NotContains(t, line, "orderId")
			assert.Equal(t, "JPA1 BOOK", line["itemName"])
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *serviceMocks.MockOrderService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: `{"memberId":1,"itemId":2,"count":3}`,
			setupMock: func(m *serviceMocks.MockOrderService) {
				m.On("Order", mock.Anything, int64(1), int64(2), 3).Return(int64(7), nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "zero count",
			body:       `{"memberId":1,"itemId":2,"count":0}`,
			setupMock:  func(m *serviceMocks.MockOrderService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name: "not enough stock",
			body: `{"memberId":1,"itemId":2,"count":300}`,
			setupMock: func(m *serviceMocks.MockOrderService) {
				m.On("Order", mock.Anything, int64(1), int64(2), 300).Return(int64(0), service.ErrNotEnoughStock).Once()
			},
			wantStatus: http.StatusConflict,
			wantCode:   "NOT_ENOUGH_STOCK",
		},
		{
			name: "unknown member",
			body: `{"memberId":9,"itemId":2,"count":1}`,
			setupMock: func(m *serviceMocks.MockOrderService) {
				m.On("Order", mock.Anything, int64(9), int64(2), 1).Return(int64(0), service.ErrNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockOrderService)
			tt.setupMock(mockSvc)
			app := fiber.New()
			app.Post("/api/v1/orders", CreateOrder(mockSvc))

			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/orders", tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCancelOrder(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "cancelled", wantStatus: http.StatusNoContent},
		{name: "delivered", err: service.ErrAlreadyDelivered, wantStatus: http.StatusConflict},
		{name: "already cancelled", err: service.ErrAlreadyCanceled, wantStatus: http.StatusConflict},
		{name: "missing", err: service.ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockOrderService)
			mockSvc.On("CancelOrder", mock.Anything, int64(4)).Return(tt.err).Once()
			app := fiber.New()
			app.Post("/api/v1/orders/:id/cancel", CancelOrder(mockSvc))

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/orders/4/cancel", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestItemHandlers(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("SaveItem", mock.Anything, &model.Item{
			Name: "JPA1 BOOK", Price: 10000, StockQuantity: 100, Author: "kim", ISBN: "1111",
		}).Return(int64(5), nil).Once()
		app := fiber.New()
		app.Post("/api/v1/items", CreateItem(mockSvc))

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/items",
			`{"name":"JPA1 BOOK","price":10000,"stockQuantity":100,"author":"kim","isbn":"1111"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"id":5}`, string(body))
	})

	t.Run("create rejects negative price", func(t *testing.T) {
		app := fiber.New()
		app.Post("/api/v1/items", CreateItem(new(serviceMocks.MockItemService)))

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/items", `{"name":"x","price":-1}`))
		require.NoError(t, err)

		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Equal(t, "price", body.Error.Fields[0].Field)
	})

	t.Run("get includes image url", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("FindOne", mock.Anything, int64(5)).Return(&service.ItemDto{
			Item:     model.Item{ID: 5, Name: "JPA1 BOOK", ImageKey: "items/a.png"},
			ImageURL: "http://minio/items/a.png",
		}, nil).Once()
		app := fiber.New()
		app.Get("/api/v1/items/:id", GetItem(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/items/5", nil))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "http://minio/items/a.png", got["imageUrl"])
		assert.NotContains(t, got, "ImageKey")
	})

	t.Run("update", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("UpdateItem", mock.Anything, int64(5), service.UpdateItemParams{Name: "new", Price: 1, StockQuantity: 2}).
			Return(&service.ItemDto{Item: model.Item{ID: 5, Name: "new"}}, nil).Once()
		app := fiber.New()
		app.Put("/api/v1/items/:id", UpdateItem(mockSvc))

		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v1/items/5", `{"name":"new","price":1,"stockQuantity":2}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("list", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("FindItems", mock.Anything).Return([]service.ItemDto{{Item: model.Item{ID: 1}}}, nil).Once()
		app := fiber.New()
		app.Get("/api/v1/items", ListItems(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, float64(1), got["count"])
	})
}

func TestUploadItemImage(t *testing.T) {
	multipartBody := func() (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "cover.png")
		part.Write([]byte("png"))
		writer.Close()
		return body, writer.FormDataContentType()
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("UploadImage", mock.Anything, int64(5), mock.Anything, "cover.png", mock.Anything, int64(3)).
			Return(&service.ItemDto{Item: model.Item{ID: 5}, ImageURL: "url"}, nil).Once()
		app := fiber.New()
		app.Post("/api/v1/items/:id/image", UploadItemImage(mockSvc))

		body, ct := multipartBody()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/5/image", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		app := fiber.New()
		app.Post("/api/v1/items/:id/image", UploadItemImage(new(serviceMocks.MockItemService)))

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/items/5/image", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("storage disabled", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("UploadImage", mock.Anything, int64(5), mock.Anything, "cover.png", mock.Anything, int64(3)).
			Return(nil, service.ErrStorageUnavailable).Once()
		app := fiber.New()
		app.Post("/api/v1/items/:id/image", UploadItemImage(mockSvc))

		body, ct := multipartBody()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/5/image", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "STORAGE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestGetItemImage(t *testing.T) {
	t.Run("streams content", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("OpenImage", mock.Anything, int64(5)).Return(
			io.NopCloser(strings.NewReader("png-bytes")),
			storage.ObjectInfo{Key: "items/a.png", Size: 9, ContentType: "image/png"},
			nil,
		).Once()
		app := fiber.New()
		app.Get("/api/v1/items/:id/image", GetItemImage(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/items/5/image", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "png-bytes", string(body))
	})

	t.Run("no image", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockItemService)
		mockSvc.On("OpenImage", mock.Anything, int64(5)).Return(nil, storage.ObjectInfo{}, service.ErrNoImage).Once()
		app := fiber.New()
		app.Get("/api/v1/items/:id/image", GetItemImage(mockSvc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/items/5/image", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	orders := new(serviceMocks.MockOrderService)
	RegisterRoutes(app, nil, Services{
		Members:    new(serviceMocks.MockMemberService),
		Items:      new(serviceMocks.MockItemService),
		Orders:     orders,
		OrderQuery: new(serviceMocks.MockOrderQueryService),
	})

	t.Run("versioned order route", func(t *testing.T) {
		orders.On("FindAllWithMemberDelivery", mock.Anything, 0, 100).Return([]service.OrderDto{}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v3.1/orders", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"count":0,"data":[]}`, string(body))
	})

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})
}
