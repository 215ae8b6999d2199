package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /docs (Swagger UI) y /docs/openapi.yaml. Son públicas:
// la descripción no expone datos de la carta.
//
// Las rutas van planas: un r.Route("/docs") tomaría también "/docs" y
// taparía la redirección.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/", SwaggerUI())
	r.Get("/docs/openapi.yaml", OpenAPI())
}
