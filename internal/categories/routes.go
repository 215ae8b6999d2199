package categories

import "github.com/go-chi/chi/v5"

// RegisterPublicRoutes registra el lookup público.
func RegisterPublicRoutes(route chi.Router, handler *Handler) {
	route.Get("/categories", handler.Lookup)
}

// RegisterRoutes registra el CRUD. Se monta dentro de /admin.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/categories", func(route chi.Router) {
		route.Post("/", handler.CreateCategory)
		route.Get("/", handler.ListCategories)
		route.Post("/reorder", handler.ReorderCategories)
		route.Get("/{id}", handler.GetCategory)
		route.Patch("/{id}", handler.PatchCategory)
		route.Delete("/{id}", handler.DeleteCategory)
	})

	route.Route("/subcategories", func(route chi.Router) {
		route.Post("/", handler.CreateSubcategory)
		route.Get("/", handler.ListSubcategories)
		route.Post("/reorder", handler.ReorderSubcategories)
		route.Get("/{id}", handler.GetSubcategory)
		route.Patch("/{id}", handler.PatchSubcategory)
		route.Delete("/{id}", handler.DeleteSubcategory)
	})
}
