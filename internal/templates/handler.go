package templates

import (
	"context"
	"errors"
	"net/http"

	"github.com/Lelo88/menu-api-golang/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ServiceAPI define lo que el handler necesita.
type ServiceAPI interface {
	Create(ctx context.Context, input CreateTemplateInput) (PriceTemplate, error)
	List(ctx context.Context) ([]PriceTemplate, error)
	Get(ctx context.Context, id string) (PriceTemplate, error)
	Delete(ctx context.Context, id string) error
	Apply(ctx context.Context, id string) (ApplyResult, error)
}

// Handler HTTP para plantillas de precios.
type Handler struct {
	service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// Create maneja POST /admin/pricing/templates.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateTemplateInput
	if !httpx.Decode(writer, request, &input) {
		return
	}

	template, err := handler.service.Create(request.Context(), input)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusCreated, template)
}

// List maneja GET /admin/pricing/templates.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	templates, err := handler.service.List(request.Context())
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, templates)
}

// Get maneja GET /admin/pricing/templates/{id}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	template, err := handler.service.Get(request.Context(), id)
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, template)
}

// Delete maneja DELETE /admin/pricing/templates/{id}.
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

// Apply maneja POST /admin/pricing/templates/{id}/apply.
// Si el error llega después de modificar precios se devuelve el resultado
// parcial para que el cliente sepa qué quedó escrito.
func (handler *Handler) Apply(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	result, err := handler.service.Apply(request.Context(), id)
	if err != nil && result.ItemsAffected == 0 {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

func pathID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	parsed, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return "", false
	}
	return parsed.String(), true
}

func writeError(writer http.ResponseWriter, request *http.Request, err error) {
	switch {
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "price template not found")
	case errors.Is(err, ErrorDuplicateName):
		httpx.Fail(writer, request, http.StatusConflict, "conflict", "name already exists")
	default:
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
