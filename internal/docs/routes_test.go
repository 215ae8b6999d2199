package docs

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newRouter() http.Handler {
	router := chi.NewRouter()
	RegisterRoutes(router)
	return router
}

func TestRegisterRoutes_DocsRedirect(t *testing.T) {
	rec := httptest.NewRecorder()

	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/docs/", rec.Header().Get("Location"))
}

func TestRegisterRoutes_UnknownDocsPath(t *testing.T) {
	rec := httptest.NewRecorder()

	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/missing.json", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterRoutes_DocsAssets(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		contentType string
		file        string
	}{
		{"swagger ui", "/docs/", "text/html; charset=utf-8", "swagger.html"},
		{"openapi", "/docs/openapi.yaml", "application/yaml; charset=utf-8", "openapi.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected, err := os.ReadFile(tt.file)
			require.NoError(t, err)
			rec := httptest.NewRecorder()

			newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			require.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
			require.Equal(t, expected, rec.Body.Bytes())
		})
	}
}

// Cada ruta montada por cmd/api tiene que estar documentada.
func TestOpenAPI_DocumentsRoutes(t *testing.T) {
	document, err := os.ReadFile("openapi.yaml")
	require.NoError(t, err)

	for _, path := range []string{
		"/menu:", "/menu/sections:", "/categories:", "/health:", "/ready:",
		"/admin/login:", "/admin/menu:", "/admin/menu/tree:",
		"/admin/items:", "/admin/items/{id}:", "/admin/items/bulk:",
		"/admin/categories:", "/admin/categories/{id}:", "/admin/categories/reorder:",
		"/admin/subcategories:", "/admin/subcategories/{id}:", "/admin/subcategories/reorder:",
		"/admin/pricing/templates:", "/admin/pricing/templates/{id}:", "/admin/pricing/templates/{id}/apply:",
	} {
		require.True(t, strings.Contains(string(document), "\n  "+path), "missing path %s", path)
	}
}
