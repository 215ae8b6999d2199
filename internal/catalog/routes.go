package catalog

import "github.com/go-chi/chi/v5"

// RegisterPublicRoutes registra la carta pública.
func RegisterPublicRoutes(route chi.Router, handler *Handler) {
	route.Get("/menu", handler.PublicMenu)
	route.Get("/menu/sections", handler.Sections)
}

// RegisterRoutes registra las vistas de administración. Se monta dentro de /admin.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Get("/menu", handler.AdminItems)
	route.Get("/menu/tree", handler.AdminTree)
}
