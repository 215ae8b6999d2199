package items_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lelo88/menu-api-golang/internal/bulk"
	"github.com/Lelo88/menu-api-golang/internal/httpx"
	"github.com/Lelo88/menu-api-golang/internal/items"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const (
	itemID     = "550e8400-e29b-41d4-a716-446655440000"
	categoryID = "550e8400-e29b-41d4-a716-446655440001"
)

type stubService struct {
	createFn func(ctx context.Context, in items.CreateItemInput) (menu.MenuItem, error)
	listFn   func(ctx context.Context, page, limit int, query, categoryID string) ([]menu.MenuItem, int, error)
	getFn    func(ctx context.Context, id string) (menu.MenuItem, error)
	updateFn func(ctx context.Context, id string, in items.UpdateItemInput) (menu.MenuItem, error)
	deleteFn func(ctx context.Context, id string) error
	bulkFn   func(ctx context.Context, request bulk.Request) (bulk.Result, error)

	createCalled bool
	createInput  items.CreateItemInput

	listCalled     bool
	listPage       int
	listLimit      int
	listQuery      string
	listCategoryID string

	getCalled bool
	getID     string

	updateCalled bool
	updateID     string
	updateInput  items.UpdateItemInput

	deleteCalled bool
	deleteID     string

	bulkCalled  bool
	bulkRequest bulk.Request
}

func (service *stubService) Create(ctx context.Context, in items.CreateItemInput) (menu.MenuItem, error) {
	service.createCalled = true
	service.createInput = in
	if service.createFn != nil {
		return service.createFn(ctx, in)
	}
	return menu.MenuItem{}, nil
}

func (service *stubService) List(ctx context.Context, page, limit int, query, categoryID string) ([]menu.MenuItem, int, error) {
	service.listCalled = true
	service.listPage = page
	service.listLimit = limit
	service.listQuery = query
	service.listCategoryID = categoryID
	if service.listFn != nil {
		return service.listFn(ctx, page, limit, query, categoryID)
	}
	return nil, 0, nil
}

func (service *stubService) Get(ctx context.Context, id string) (menu.MenuItem, error) {
	service.getCalled = true
	service.getID = id
	if service.getFn != nil {
		return service.getFn(ctx, id)
	}
	return menu.MenuItem{}, nil
}

func (service *stubService) Update(ctx context.Context, id string, in items.UpdateItemInput) (menu.MenuItem, error) {
	service.updateCalled = true
	service.updateID = id
	service.updateInput = in
	if service.updateFn != nil {
		return service.updateFn(ctx, id, in)
	}
	return menu.MenuItem{}, nil
}

func (service *stubService) Delete(ctx context.Context, id string) error {
	service.deleteCalled = true
	service.deleteID = id
	if service.deleteFn != nil {
		return service.deleteFn(ctx, id)
	}
	return nil
}

func (service *stubService) Bulk(ctx context.Context, request bulk.Request) (bulk.Result, error) {
	service.bulkCalled = true
	service.bulkRequest = request
	if service.bulkFn != nil {
		return service.bulkFn(ctx, request)
	}
	return bulk.Result{}, nil
}

func beer(t *testing.T) menu.MenuItem {
	t.Helper()
	price, err := pricing.NewMultiple(map[string]string{"small": "€4,00", "pinta": "€6,00"})
	require.NoError(t, err)
	return menu.MenuItem{
		ID:         itemID,
		Name:       "BUDWEISER",
		CategoryID: categoryID,
		Pricing:    price,
		Tags:       []string{"popular"},
		IsActive:   true,
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandler_Create(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.Create(rec, jsonRequest(http.MethodPost, "/items", "{"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "invalid_json", resp.Error.Code)
		require.False(t, service.createCalled)
	})

	t.Run("invalid pricing is invalid input", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		body := `{"name":"Peroni","categoryId":"` + categoryID + `","pricing":{"type":"multiple","multiple":{"small":"€3,00"}}}`
		rec := httptest.NewRecorder()
		handler.Create(rec, jsonRequest(http.MethodPost, "/items", body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "invalid_input", resp.Error.Code)
		require.Equal(t, "invalid pricing", resp.Error.Message)
		require.False(t, service.createCalled)
	})

	t.Run("unknown pricing type", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		body := `{"name":"Peroni","categoryId":"` + categoryID + `","pricing":{"type":"free"}}`
		rec := httptest.NewRecorder()
		handler.Create(rec, jsonRequest(http.MethodPost, "/items", body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_input", decodeResponse(t, rec).Error.Code)
	})

	t.Run("service errors", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{name: "invalid input", err: items.ErrorInvalidInput, wantStatus: http.StatusBadRequest, wantCode: "invalid_input"},
			{name: "invalid reference", err: items.ErrorInvalidReference, wantStatus: http.StatusBadRequest, wantCode: "invalid_reference"},
			{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := &stubService{
					createFn: func(ctx context.Context, in items.CreateItemInput) (menu.MenuItem, error) {
						return menu.MenuItem{}, tt.err
					},
				}
				handler := items.NewHandler(service)

				body := `{"name":"Peroni","categoryId":"` + categoryID + `","pricing":{"type":"simple","simple":"€4,00"}}`
				rec := httptest.NewRecorder()
				handler.Create(rec, jsonRequest(http.MethodPost, "/items", body))

				require.Equal(t, tt.wantStatus, rec.Code)
				resp := decodeResponse(t, rec)
				require.Equal(t, tt.wantCode, resp.Error.Code)
				require.NotContains(t, resp.Error.Message, "boom")
			})
		}
	})

	t.Run("success", func(t *testing.T) {
		service := &stubService{
			createFn: func(ctx context.Context, in items.CreateItemInput) (menu.MenuItem, error) {
				return beer(t), nil
			},
		}
		handler := items.NewHandler(service)

		body := `{"name":"BUDWEISER","categoryId":"` + categoryID + `","pricing":{"type":"multiple","multiple":{"small":"€4,00","pinta":"€6,00"}},"tags":["popular"]}`
		rec := httptest.NewRecorder()
		handler.Create(rec, jsonRequest(http.MethodPost, "/items", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, service.createCalled)
		require.Equal(t, "BUDWEISER", service.createInput.Name)
		require.NotNil(t, service.createInput.Pricing)
		require.Equal(t, pricing.TypeMultiple, service.createInput.Pricing.Type())

		data := asMap(t, decodeResponse(t, rec).Data)
		require.Equal(t, itemID, data["id"])
		require.Equal(t, categoryID, data["categoryId"])
		require.Equal(t, true, data["isActive"])
		price := asMap(t, data["pricing"])
		require.Equal(t, "multiple", price["type"])
		require.Equal(t, "€6,00", asMap(t, price["multiple"])["pinta"])
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context, page, limit int, query, categoryID string) ([]menu.MenuItem, int, error) {
				return []menu.MenuItem{beer(t)}, 1, nil
			},
		}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/items", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, service.listPage)
		require.Equal(t, 50, service.listLimit)
		require.Empty(t, service.listQuery)
		require.Empty(t, service.listCategoryID)

		data := asMap(t, decodeResponse(t, rec).Data)
		require.Len(t, asSlice(t, data["items"]), 1)
		pagination := asMap(t, data["pagination"])
		require.Equal(t, json.Number("1"), pagination["total"])
		require.Equal(t, json.Number("50"), pagination["limit"])
	})

	t.Run("filters and limit cap", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/items?page=2&limit=500&query=%20spritz%20&categoryId="+categoryID, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 2, service.listPage)
		require.Equal(t, 200, service.listLimit)
		require.Equal(t, "spritz", service.listQuery)
		require.Equal(t, categoryID, service.listCategoryID)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		for _, query := range []string{"page=0", "page=x", "limit=0", "limit=-3", "page=10001", "page=9223372036854775807"} {
			service := &stubService{}
			handler := items.NewHandler(service)

			rec := httptest.NewRecorder()
			handler.List(rec, httptest.NewRequest(http.MethodGet, "/items?"+query, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code, query)
			require.Equal(t, "invalid_pagination", decodeResponse(t, rec).Error.Code)
			require.False(t, service.listCalled)
		}
	})

	t.Run("invalid category id", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/items?categoryId=drinks", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_id", decodeResponse(t, rec).Error.Code)
		require.False(t, service.listCalled)
	})

	t.Run("service error", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context, page, limit int, query, categoryID string) ([]menu.MenuItem, int, error) {
				return nil, 0, errors.New("db down")
			},
		}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/items", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "internal_error", decodeResponse(t, rec).Error.Code)
	})
}

func TestHandler_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/abc", nil), "id", "abc")
		rec := httptest.NewRecorder()
		handler.GetByID(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_id", decodeResponse(t, rec).Error.Code)
		require.False(t, service.getCalled)
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id string) (menu.MenuItem, error) {
				return menu.MenuItem{}, items.ErrorNotFound
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/"+itemID, nil), "id", itemID)
		rec := httptest.NewRecorder()
		handler.GetByID(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "not_found", decodeResponse(t, rec).Error.Code)
	})

	t.Run("normalizes id", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id string) (menu.MenuItem, error) {
				return beer(t), nil
			},
		}
		handler := items.NewHandler(service)

		upper := strings.ToUpper(itemID)
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/"+upper, nil), "id", upper)
		rec := httptest.NewRecorder()
		handler.GetByID(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, itemID, service.getID)
		require.Equal(t, "BUDWEISER", asMap(t, decodeResponse(t, rec).Data)["name"])
	})
}

func TestHandler_Patch(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(jsonRequest(http.MethodPatch, "/items/x", `{"name":"x"}`), "id", "x")
		rec := httptest.NewRecorder()
		handler.Patch(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.False(t, service.updateCalled)
	})

	t.Run("empty body", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(jsonRequest(http.MethodPatch, "/items/"+itemID, ""), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Patch(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.False(t, service.updateCalled)
	})

	t.Run("body must be an object", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(jsonRequest(http.MethodPatch, "/items/"+itemID, `["name"]`), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Patch(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_json", decodeResponse(t, rec).Error.Code)
		require.False(t, service.updateCalled)
	})

	t.Run("detects explicit null", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(jsonRequest(http.MethodPatch, "/items/"+itemID, `{"description":null,"isActive":false}`), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Patch(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, service.updateCalled)
		require.Equal(t, itemID, service.updateID)
		require.True(t, service.updateInput.DescriptionPresent)
		require.Nil(t, service.updateInput.Description)
		require.False(t, service.updateInput.SubcategoryIDPresent)
		require.False(t, service.updateInput.TypePresent)
		require.NotNil(t, service.updateInput.IsActive)
		require.False(t, *service.updateInput.IsActive)
	})

	t.Run("pricing payload", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(jsonRequest(http.MethodPatch, "/items/"+itemID, `{"pricing":{"type":"custom","custom":"su richiesta"}}`), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Patch(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, service.updateInput.Pricing)
		require.Equal(t, "su richiesta", service.updateInput.Pricing.Custom())
	})

	t.Run("invalid pricing", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(jsonRequest(http.MethodPatch, "/items/"+itemID, `{"pricing":{"type":"range"}}`), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Patch(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_input", decodeResponse(t, rec).Error.Code)
		require.False(t, service.updateCalled)
	})

	t.Run("wrong field type", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(jsonRequest(http.MethodPatch, "/items/"+itemID, `{"order":"first"}`), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Patch(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_json", decodeResponse(t, rec).Error.Code)
	})

	t.Run("service errors", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{name: "not found", err: items.ErrorNotFound, wantStatus: http.StatusNotFound},
			{name: "invalid reference", err: items.ErrorInvalidReference, wantStatus: http.StatusBadRequest},
			{name: "invalid input", err: items.ErrorInvalidInput, wantStatus: http.StatusBadRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := &stubService{
					updateFn: func(ctx context.Context, id string, in items.UpdateItemInput) (menu.MenuItem, error) {
						return menu.MenuItem{}, tt.err
					},
				}
				handler := items.NewHandler(service)

				req := withURLParam(jsonRequest(http.MethodPatch, "/items/"+itemID, `{"name":"x"}`), "id", itemID)
				rec := httptest.NewRecorder()
				handler.Patch(rec, req)

				require.Equal(t, tt.wantStatus, rec.Code)
			})
		}
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id string) error {
				return items.ErrorNotFound
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/items/"+itemID, nil), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/items/"+itemID, nil), "id", itemID)
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, itemID, service.deleteID)
		require.Empty(t, rec.Body.String())
	})
}

func TestHandler_Bulk(t *testing.T) {
	t.Run("passes request through", func(t *testing.T) {
		service := &stubService{
			bulkFn: func(ctx context.Context, request bulk.Request) (bulk.Result, error) {
				return bulk.Result{
					Action:        bulk.ActionUpdatePrices,
					Requested:     1,
					Matched:       1,
					ItemsAffected: 1,
					NotFound:      []string{},
					Skipped:       []bulk.ItemError{},
					Failed:        []bulk.ItemError{},
				}, nil
			},
		}
		handler := items.NewHandler(service)

		body := `{"action":"update_prices","itemIds":["` + itemID + `"],"updates":{"priceChange":{"type":"percentage","value":10}}}`
		rec := httptest.NewRecorder()
		handler.Bulk(rec, jsonRequest(http.MethodPost, "/items/bulk", body))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "update_prices", service.bulkRequest.Action)
		require.Equal(t, []string{itemID}, service.bulkRequest.ItemIDs)
		require.NotNil(t, service.bulkRequest.Updates)
		require.NotNil(t, service.bulkRequest.Updates.PriceChange)
		require.Equal(t, "10", service.bulkRequest.Updates.PriceChange.Value.String())

		data := asMap(t, decodeResponse(t, rec).Data)
		require.Equal(t, json.Number("1"), data["itemsAffected"])
		require.Empty(t, asSlice(t, data["notFound"]))
	})

	t.Run("error codes", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			wantCode string
		}{
			{name: "unsupported", err: bulk.ErrorUnsupportedOperation, wantCode: "unsupported_operation"},
			{name: "missing payload", err: bulk.ErrorMissingPayload, wantCode: "invalid_input"},
			{name: "invalid input", err: bulk.ErrorInvalidInput, wantCode: "invalid_input"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := &stubService{
					bulkFn: func(ctx context.Context, request bulk.Request) (bulk.Result, error) {
						return bulk.Result{}, tt.err
					},
				}
				handler := items.NewHandler(service)

				rec := httptest.NewRecorder()
				handler.Bulk(rec, jsonRequest(http.MethodPost, "/items/bulk", `{"action":"x","itemIds":[]}`))

				require.Equal(t, http.StatusBadRequest, rec.Code)
				require.Equal(t, tt.wantCode, decodeResponse(t, rec).Error.Code)
			})
		}
	})

	t.Run("unexpected error", func(t *testing.T) {
		service := &stubService{
			bulkFn: func(ctx context.Context, request bulk.Request) (bulk.Result, error) {
				return bulk.Result{}, context.Canceled
			},
		}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.Bulk(rec, jsonRequest(http.MethodPost, "/items/bulk", `{"action":"delete","itemIds":["`+itemID+`"]}`))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("interrupted run returns the partial result", func(t *testing.T) {
		service := &stubService{
			bulkFn: func(ctx context.Context, request bulk.Request) (bulk.Result, error) {
				return bulk.Result{
					Action:        bulk.ActionMakeUnavailable,
					Requested:     3,
					Matched:       1,
					ItemsAffected: 1,
					NotFound:      []string{},
					Skipped:       []bulk.ItemError{},
					Failed:        []bulk.ItemError{},
				}, context.DeadlineExceeded
			},
		}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.Bulk(rec, jsonRequest(http.MethodPost, "/items/bulk", `{"action":"make_unavailable","itemIds":["`+itemID+`"]}`))

		require.Equal(t, http.StatusOK, rec.Code)
		data := asMap(t, decodeResponse(t, rec).Data)
		require.Equal(t, json.Number("3"), data["requested"])
		require.Equal(t, json.Number("1"), data["itemsAffected"])
	})

	t.Run("invalid json", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.Bulk(rec, jsonRequest(http.MethodPost, "/items/bulk", `{"action":`))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.False(t, service.bulkCalled)
	})
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) httpx.Response {
	t.Helper()

	var response httpx.Response
	decoder := json.NewDecoder(bytes.NewReader(recorder.Body.Bytes()))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&response))
	return response
}

func asMap(t *testing.T, value any) map[string]any {
	t.Helper()

	out, ok := value.(map[string]any)
	require.True(t, ok, "expected map, got %T", value)
	return out
}

func asSlice(t *testing.T, value any) []any {
	t.Helper()

	out, ok := value.([]any)
	require.True(t, ok, "expected slice, got %T", value)
	return out
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
