package items

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra las rutas de items. Se monta dentro de /admin.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/items", func(route chi.Router) {
		route.Post("/", handler.Create)
		route.Get("/", handler.List)
		route.Post("/bulk", handler.Bulk)
		route.Get("/{id}", handler.GetByID)
		route.Patch("/{id}", handler.Patch)
		route.Delete("/{id}", handler.Delete)
	})
}
