package items

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/bulk"
	"github.com/Lelo88/menu-api-golang/internal/httpx"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ServiceAPI define lo que el handler necesita.
type ServiceAPI interface {
	Create(ctx context.Context, input CreateItemInput) (menu.MenuItem, error)
	List(ctx context.Context, page, limit int, query, categoryID string) ([]menu.MenuItem, int, error)
	Get(ctx context.Context, id string) (menu.MenuItem, error)
	Update(ctx context.Context, id string, input UpdateItemInput) (menu.MenuItem, error)
	Delete(ctx context.Context, id string) error
	Bulk(ctx context.Context, request bulk.Request) (bulk.Result, error)
}

// Handler HTTP para items. Solo traduce HTTP <-> service.
type Handler struct {
	service ServiceAPI
}

// NewHandler crea un handler de items.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Create maneja POST /admin/items.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateItemInput
	if !decodeItemBody(writer, request, &input) {
		return
	}

	item, err := handler.service.Create(request.Context(), input)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusCreated, item)
}

// List maneja GET /admin/items con paginación, búsqueda y categoría.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	page, limit, err := parsePagination(request)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_pagination", "invalid pagination parameters")
		return
	}

	values := request.URL.Query()
	categoryID := strings.TrimSpace(values.Get("categoryId"))
	if categoryID != "" {
		if _, err := uuid.Parse(categoryID); err != nil {
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "categoryId must be a valid UUID")
			return
		}
	}

	items, total, err := handler.service.List(request.Context(), page, limit, strings.TrimSpace(values.Get("query")), categoryID)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, map[string]any{
		"items": items,
		"pagination": pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

var errorInvalidPagination = errors.New("invalid pagination")

// parsePagination parsea page y limit con defaults. limit se recorta a
// MaxLimit; una página mayor que MaxPage es inválida.
func parsePagination(request *http.Request) (int, int, error) {
	const (
		defaultPage  = 1
		defaultLimit = 50
	)

	query := request.URL.Query()

	page := defaultPage
	limit := defaultLimit

	if value := strings.TrimSpace(query.Get("page")); value != "" {
		pageNumber, err := strconv.Atoi(value)
		if err != nil || pageNumber < 1 || pageNumber > MaxPage {
			return 0, 0, errorInvalidPagination
		}
		page = pageNumber
	}

	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		limitNumber, err := strconv.Atoi(value)
		if err != nil || limitNumber < 1 {
			return 0, 0, errorInvalidPagination
		}
		limit = min(limitNumber, MaxLimit)
	}

	return page, limit, nil
}

// GetByID maneja GET /admin/items/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, item)
}

// Patch maneja PATCH /admin/items/{id}.
func (handler *Handler) Patch(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	// El body se decodifica dos veces: como mapa para saber qué campos
	// vinieron y como input tipado.
	var body json.RawMessage
	if !httpx.Decode(writer, request, &body) {
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	var input UpdateItemInput
	if err := json.Unmarshal(body, &input); err != nil {
		failDecode(writer, request, err)
		return
	}

	// "description": null borra; ausente no toca. Igual para subcategoryId y type.
	_, input.DescriptionPresent = raw["description"]
	_, input.SubcategoryIDPresent = raw["subcategoryId"]
	_, input.TypePresent = raw["type"]

	item, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, item)
}

// Delete maneja DELETE /admin/items/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		writeError(writer, request, err)
		return
	}

	writer.WriteHeader(http.StatusNoContent)
}

// Bulk maneja POST /admin/items/bulk.
func (handler *Handler) Bulk(writer http.ResponseWriter, request *http.Request) {
	var bulkRequest bulk.Request
	if !httpx.Decode(writer, request, &bulkRequest) {
		return
	}

	result, err := handler.service.Bulk(request.Context(), bulkRequest)
	if err != nil && partial(result) {
		// Interrumpida a mitad: lo aplicado ya está escrito, se informa igual.
		httpx.OK(writer, request, http.StatusOK, result)
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, bulk.ErrorUnsupportedOperation):
			httpx.Fail(writer, request, http.StatusBadRequest, "unsupported_operation", "unsupported bulk action")
		case errors.Is(err, bulk.ErrorMissingPayload):
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", err.Error())
		case errors.Is(err, bulk.ErrorInvalidInput):
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "action and itemIds (UUIDs) are required")
		default:
			httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		}
		return
	}

	httpx.OK(writer, request, http.StatusOK, result)
}

// partial indica que la operación llegó a recorrer items antes de fallar.
func partial(result bulk.Result) bool {
	return result.Matched > 0 || result.ItemsAffected > 0 || len(result.NotFound) > 0
}

func pathID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	id := chi.URLParam(request, "id")
	parsed, err := uuid.Parse(id)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return "", false
	}
	return parsed.String(), true
}

// decodeItemBody decodifica el body distinguiendo un precio inválido
// (invalid_input) de un JSON mal formado (invalid_json).
func decodeItemBody(writer http.ResponseWriter, request *http.Request, dst any) bool {
	var raw json.RawMessage
	if !httpx.Decode(writer, request, &raw) {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		failDecode(writer, request, err)
		return false
	}
	return true
}

func failDecode(writer http.ResponseWriter, request *http.Request, err error) {
	if errors.Is(err, pricing.ErrorInvalidPricing) {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid pricing")
		return
	}
	httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
}

func writeError(writer http.ResponseWriter, request *http.Request, err error) {
	switch {
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
	case errors.Is(err, ErrorInvalidReference):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_reference", "category or subcategory does not exist or does not match")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "item not found")
	default:
		// No filtramos detalles internos.
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
