package categories

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/httpx"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ServiceAPI define lo que el handler necesita.
type ServiceAPI interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (menu.Category, error)
	ListCategories(ctx context.Context) ([]menu.Category, error)
	GetCategory(ctx context.Context, id string) (menu.Category, error)
	UpdateCategory(ctx context.Context, id string, input UpdateCategoryInput) (menu.Category, error)
	DeleteCategory(ctx context.Context, id string, cascade bool) (DeleteResult, error)
	ReorderCategories(ctx context.Context, input ReorderInput) error

	CreateSubcategory(ctx context.Context, input CreateSubcategoryInput) (menu.Subcategory, error)
	ListSubcategories(ctx context.Context, categoryID string) ([]menu.Subcategory, error)
	GetSubcategory(ctx context.Context, id string) (menu.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id string, input UpdateSubcategoryInput) (menu.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string, cascade bool) (DeleteResult, error)
	ReorderSubcategories(ctx context.Context, input ReorderInput) error

	Lookup(ctx context.Context) (Lookup, error)
}

// Handler HTTP para categorías y subcategorías.
type Handler struct {
	service ServiceAPI
}

// NewHandler crea un handler de categorías.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// Lookup maneja GET /categories (público).
func (handler *Handler) Lookup(writer http.ResponseWriter, request *http.Request) {
	lookup, err := handler.service.Lookup(request.Context())
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, lookup)
}

// CreateCategory maneja POST /admin/categories.
func (handler *Handler) CreateCategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateCategoryInput
	if !httpx.Decode(writer, request, &input) {
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), input)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusCreated, category)
}

// ListCategories maneja GET /admin/categories.
func (handler *Handler) ListCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, categories)
}

// GetCategory maneja GET /admin/categories/{id}.
func (handler *Handler) GetCategory(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	category, err := handler.service.GetCategory(request.Context(), id)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, category)
}

// PatchCategory maneja PATCH /admin/categories/{id}.
func (handler *Handler) PatchCategory(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	var input UpdateCategoryInput
	if !httpx.Decode(writer, request, &input) {
		return
	}

	category, err := handler.service.UpdateCategory(request.Context(), id, input)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, category)
}

// DeleteCategory maneja DELETE /admin/categories/{id}[?cascade=true].
func (handler *Handler) DeleteCategory(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}
	cascade, ok := cascadeParam(writer, request)
	if !ok {
		return
	}

	result, err := handler.service.DeleteCategory(request.Context(), id, cascade)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

// ReorderCategories maneja POST /admin/categories/reorder.
func (handler *Handler) ReorderCategories(writer http.ResponseWriter, request *http.Request) {
	var input ReorderInput
	if !httpx.Decode(writer, request, &input) {
		return
	}

	if err := handler.service.ReorderCategories(request.Context(), input); err != nil {
		writeError(writer, request, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

// CreateSubcategory maneja POST /admin/subcategories.
func (handler *Handler) CreateSubcategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateSubcategoryInput
	if !httpx.Decode(writer, request, &input) {
		return
	}

	subcategory, err := handler.service.CreateSubcategory(request.Context(), input)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusCreated, subcategory)
}

// ListSubcategories maneja GET /admin/subcategories[?categoryId=].
func (handler *Handler) ListSubcategories(writer http.ResponseWriter, request *http.Request) {
	categoryID := strings.TrimSpace(request.URL.Query().Get("categoryId"))
	if categoryID != "" {
		parsed, err := uuid.Parse(categoryID)
		if err != nil {
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "categoryId must be a valid UUID")
			return
		}
		categoryID = parsed.String()
	}

	subcategories, err := handler.service.ListSubcategories(request.Context(), categoryID)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, subcategories)
}

// GetSubcategory maneja GET /admin/subcategories/{id}.
func (handler *Handler) GetSubcategory(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	subcategory, err := handler.service.GetSubcategory(request.Context(), id)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, subcategory)
}

// PatchSubcategory maneja PATCH /admin/subcategories/{id}.
func (handler *Handler) PatchSubcategory(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	var input UpdateSubcategoryInput
	if !httpx.Decode(writer, request, &input) {
		return
	}

	subcategory, err := handler.service.UpdateSubcategory(request.Context(), id, input)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, subcategory)
}

// DeleteSubcategory maneja DELETE /admin/subcategories/{id}[?cascade=true].
func (handler *Handler) DeleteSubcategory(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}
	cascade, ok := cascadeParam(writer, request)
	if !ok {
		return
	}

	result, err := handler.service.DeleteSubcategory(request.Context(), id, cascade)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

// ReorderSubcategories maneja POST /admin/subcategories/reorder.
func (handler *Handler) ReorderSubcategories(writer http.ResponseWriter, request *http.Request) {
	var input ReorderInput
	if !httpx.Decode(writer, request, &input) {
		return
	}

	if err := handler.service.ReorderSubcategories(request.Context(), input); err != nil {
		writeError(writer, request, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

func pathID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	parsed, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return "", false
	}
	return parsed.String(), true
}

func cascadeParam(writer http.ResponseWriter, request *http.Request) (bool, bool) {
	value := strings.TrimSpace(request.URL.Query().Get("cascade"))
	if value == "" {
		return false, true
	}
	cascade, err := strconv.ParseBool(value)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "cascade must be true or false")
		return false, false
	}
	return cascade, true
}

func writeError(writer http.ResponseWriter, request *http.Request, err error) {
	switch {
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
	case errors.Is(err, ErrorInvalidReference):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_reference", "category does not exist")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "category or subcategory not found")
	case errors.Is(err, ErrorDuplicateName):
		httpx.Fail(writer, request, http.StatusConflict, "conflict", "name already exists")
	case errors.Is(err, ErrorHasChildren):
		httpx.Fail(writer, request, http.StatusConflict, "has_children", "delete children first or use cascade=true")
	default:
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
