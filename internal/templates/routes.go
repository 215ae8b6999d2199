package templates

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra las plantillas. Se monta dentro de /admin.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/pricing/templates", func(route chi.Router) {
		route.Post("/", handler.Create)
		route.Get("/", handler.List)
		route.Get("/{id}", handler.Get)
		route.Delete("/{id}", handler.Delete)
		route.Post("/{id}/apply", handler.Apply)
	})
}
