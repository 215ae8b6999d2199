package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/httpx"
	"github.com/Lelo88/menu-api-golang/internal/menu"
)

// publicCacheControl deja que el CDN sirva la carta 60s y una copia vieja
// hasta 5 minutos mientras revalida.
const publicCacheControl = "s-maxage=60, stale-while-revalidate=300"

// ServiceAPI define lo que el handler necesita.
type ServiceAPI interface {
	PublicMenu(ctx context.Context) ([]menu.CategoryNode, error)
	SectionMenu(ctx context.Context, section string) ([]menu.CategoryNode, error)
	Sections(ctx context.Context) (map[menu.Section]*menu.CategoryNode, error)
	AdminTree(ctx context.Context) ([]menu.CategoryNode, error)
	AdminItems(ctx context.Context, filter AdminFilter) (AdminItems, error)
}

// Handler HTTP de la carta.
type Handler struct {
	service ServiceAPI
}

// NewHandler crea un handler de la carta.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// PublicMenu maneja GET /menu[?section=].
func (handler *Handler) PublicMenu(writer http.ResponseWriter, request *http.Request) {
	var (
		tree []menu.CategoryNode
		err  error
	)
	if section := strings.TrimSpace(request.URL.Query().Get("section")); section != "" {
		tree, err = handler.service.SectionMenu(request.Context(), section)
	} else {
		tree, err = handler.service.PublicMenu(request.Context())
	}
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writer.Header().Set("Cache-Control", publicCacheControl)
	httpx.OK(writer, request, http.StatusOK, tree)
}

// Sections maneja GET /menu/sections.
func (handler *Handler) Sections(writer http.ResponseWriter, request *http.Request) {
	sections, err := handler.service.Sections(request.Context())
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writer.Header().Set("Cache-Control", publicCacheControl)
	httpx.OK(writer, request, http.StatusOK, sections)
}

// AdminItems maneja GET /admin/menu?query=&category=&tag=.
func (handler *Handler) AdminItems(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	items, err := handler.service.AdminItems(request.Context(), AdminFilter{
		Query:    values.Get("query"),
		Category: strings.TrimSpace(values.Get("category")),
		Tag:      values.Get("tag"),
	})
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, items)
}

// AdminTree maneja GET /admin/menu/tree.
func (handler *Handler) AdminTree(writer http.ResponseWriter, request *http.Request) {
	tree, err := handler.service.AdminTree(request.Context())
	if err != nil {
		writeError(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, tree)
}

func writeError(writer http.ResponseWriter, request *http.Request, err error) {
	switch {
	case errors.Is(err, menu.ErrorInvalidSection):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "section must be one of hamburger, food, drinks, desserts, info")
	case errors.Is(err, ErrorFetchFailed):
		httpx.Fail(writer, request, http.StatusInternalServerError, "fetch_failed", "menu could not be loaded")
	default:
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
