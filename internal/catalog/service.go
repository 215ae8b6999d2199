package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/cache"
	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/sirupsen/logrus"
)

// ErrorFetchFailed envuelve cualquier error de lectura de la persistencia.
var ErrorFetchFailed = errors.New("menu fetch failed")

// MenuCache guarda el árbol público ya ensamblado.
// Un miss devuelve ok=false sin error.
type MenuCache interface {
	GetTree(ctx context.Context) ([]menu.CategoryNode, bool, error)
	SetTree(ctx context.Context, tree []menu.CategoryNode) error
	Invalidate(ctx context.Context) error
}

// AdminFilter son los filtros del listado de administración.
type AdminFilter struct {
	Query    string
	Category string
	Tag      string
}

// AdminItems es la respuesta de GET /admin/menu. Counts se calcula después
// de la búsqueda y antes del filtro de categoría, para las pestañas.
type AdminItems struct {
	Items  []menu.FlatItem `json:"items"`
	Counts map[string]int  `json:"counts"`
	Total  int             `json:"total"`
}

// Service arma las vistas de la carta a partir de un snapshot.
type Service struct {
	source SnapshotSource
	cache  MenuCache
	logger logrus.FieldLogger
}

// Option configura dependencias opcionales del service.
type Option func(*Service)

// WithCache usa cache para el árbol público.
func WithCache(cache MenuCache) Option {
	return func(service *Service) {
		if cache != nil {
			service.cache = cache
		}
	}
}

// WithLogger reemplaza el logger (por defecto descarta).
func WithLogger(logger logrus.FieldLogger) Option {
	return func(service *Service) {
		service.logger = logger
	}
}

// NewService crea el service de la carta. Sin cache, cada lectura va a la DB.
func NewService(source SnapshotSource, options ...Option) *Service {
	service := &Service{source: source, cache: cache.Noop{}, logger: logging.Discard()}
	for _, option := range options {
		option(service)
	}
	return service
}

// PublicMenu devuelve el árbol público (solo activos). Los errores de la
// cache se registran y se ignoran: la DB es la fuente de verdad.
func (service *Service) PublicMenu(ctx context.Context) ([]menu.CategoryNode, error) {
	tree, ok, err := service.cache.GetTree(ctx)
	if err != nil {
		service.logger.WithError(err).Warn("menu cache read failed")
	}
	if err == nil && ok {
		return tree, nil
	}
	return service.Refresh(ctx)
}

// Refresh reensambla el árbol público desde la DB y lo guarda en la cache.
func (service *Service) Refresh(ctx context.Context) ([]menu.CategoryNode, error) {
	snapshot, err := service.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	tree := menu.AssembleTree(snapshot)
	menu.ResolvePrices(tree)
	if err := service.cache.SetTree(ctx, tree); err != nil {
		service.logger.WithError(err).Warn("menu cache write failed")
	}
	return tree, nil
}

// SectionMenu devuelve las categorías activas de una sección.
func (service *Service) SectionMenu(ctx context.Context, rawSection string) ([]menu.CategoryNode, error) {
	section, err := menu.ParseSection(rawSection)
	if err != nil {
		return nil, err
	}

	tree, err := service.PublicMenu(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]menu.CategoryNode, 0)
	for _, node := range tree {
		if node.Section == section {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// Sections devuelve la agrupación por sección que usa la portada.
func (service *Service) Sections(ctx context.Context) (map[menu.Section]*menu.CategoryNode, error) {
	tree, err := service.PublicMenu(ctx)
	if err != nil {
		return nil, err
	}
	return menu.GroupBySection(tree), nil
}

// AdminTree devuelve el árbol completo, incluidos los inactivos.
func (service *Service) AdminTree(ctx context.Context) ([]menu.CategoryNode, error) {
	snapshot, err := service.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return menu.AssembleTree(snapshot, menu.IncludeInactive()), nil
}

// AdminProjection devuelve todos los items aplanados, incluidos los inactivos.
func (service *Service) AdminProjection(ctx context.Context) ([]menu.FlatItem, error) {
	snapshot, err := service.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Project(snapshot, menu.IncludeInactive()), nil
}

// AdminItems filtra la proyección de administración.
func (service *Service) AdminItems(ctx context.Context, filter AdminFilter) (AdminItems, error) {
	flat, err := service.AdminProjection(ctx)
	if err != nil {
		return AdminItems{}, err
	}

	searched := menu.FilterBySearch(flat, filter.Query)
	items := menu.FilterByTag(menu.FilterByCategory(searched, strings.ToLower(filter.Category)), filter.Tag)

	return AdminItems{
		Items:  items,
		Counts: menu.CountBySection(searched),
		Total:  len(items),
	}, nil
}

// Invalidate descarta el árbol cacheado. Implementa el aviso que usan los
// services de escritura; un error se registra y no se propaga.
func (service *Service) Invalidate(ctx context.Context) {
	if err := service.cache.Invalidate(ctx); err != nil {
		service.logger.WithError(err).Warn("menu cache invalidation failed")
	}
}

func (service *Service) snapshot(ctx context.Context) (menu.Snapshot, error) {
	snapshot, err := service.source.Snapshot(ctx)
	if err != nil {
		return menu.Snapshot{}, fmt.Errorf("%w: %w", ErrorFetchFailed, err)
	}
	return snapshot, nil
}
